package api

import (
	"net/http"

	"github.com/ayusman/trickcheck/internal/trick"
)

type tricksResponse struct {
	Tricks []trick.Trick `json:"tricks"`
}

// TricksHandler serves GET /api/tricks with the supported trick names.
func TricksHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, tricksResponse{Tricks: trick.All()})
}
