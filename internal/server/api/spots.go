package api

import "net/http"

// Spot is a known skate spot.
type Spot struct {
	Name  string  `json:"name"`
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Trick *string `json:"trick"`
}

var spots = []Spot{
	{Name: "Rådhusplassen Rail", Lat: 59.9111, Lng: 10.7528},
	{Name: "Majorstua Banks", Lat: 59.9291, Lng: 10.7146},
	{Name: "Oslo S Ledges", Lat: 59.9106, Lng: 10.7579},
	{Name: "Lillehammer Stairs", Lat: 61.1153, Lng: 10.4662},
	{Name: "Trondheim Plaza Ledge", Lat: 63.4305, Lng: 10.3951},
}

// Spots returns a copy of the known skate spots.
func Spots() []Spot {
	out := make([]Spot, len(spots))
	copy(out, spots)
	return out
}

// SpotsHandler serves GET /spots.
func SpotsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, Spots())
}
