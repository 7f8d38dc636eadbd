package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ayusman/trickcheck/internal/store"
)

const defaultRecentDetections = 50

// DetectionsHandler serves stored trick verdicts.
type DetectionsHandler struct {
	store *store.Store
}

// NewDetectionsHandler creates a new DetectionsHandler with the given store.
func NewDetectionsHandler(s *store.Store) *DetectionsHandler {
	return &DetectionsHandler{store: s}
}

type detectionResponse struct {
	ID        string `json:"id"`
	UploadID  string `json:"upload_id,omitempty"`
	Trick     string `json:"trick"`
	Detected  bool   `json:"detected"`
	Evidence  []int  `json:"evidence"`
	Frames    int    `json:"frames"`
	CreatedAt string `json:"created_at"`
}

type listDetectionsResponse struct {
	Detections []detectionResponse `json:"detections"`
}

// ServeHTTP handles GET /api/detections. With upload_id it returns that
// upload's verdicts oldest first, otherwise the most recent ones (limit,
// default 50).
func (h *DetectionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var (
		detections []*store.Detection
		err        error
	)
	if id := r.URL.Query().Get("upload_id"); id != "" {
		if _, err := h.store.Uploads().GetByID(id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusNotFound, "Upload not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "Failed to get upload")
			return
		}
		detections, err = h.store.Detections().ListByUpload(id)
	} else {
		limit := defaultRecentDetections
		if v := r.URL.Query().Get("limit"); v != "" {
			n, convErr := strconv.Atoi(v)
			if convErr != nil || n <= 0 {
				writeError(w, http.StatusBadRequest, "Invalid limit")
				return
			}
			limit = n
		}
		detections, err = h.store.Detections().ListRecent(limit)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list detections")
		return
	}

	response := listDetectionsResponse{
		Detections: make([]detectionResponse, 0, len(detections)),
	}
	for _, d := range detections {
		evidence := d.Evidence
		if evidence == nil {
			evidence = []int{}
		}
		response.Detections = append(response.Detections, detectionResponse{
			ID:        d.ID,
			UploadID:  d.UploadID,
			Trick:     d.Trick,
			Detected:  d.Detected,
			Evidence:  evidence,
			Frames:    d.Frames,
			CreatedAt: d.CreatedAt.Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, response)
}
