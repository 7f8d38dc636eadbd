package api

import (
	"net/http"

	"github.com/ayusman/trickcheck/internal/dataset"
)

// VideosPrefix is the URL prefix under which stored videos are served.
const VideosPrefix = "/videos"

// CatalogHandler lists every stored video grouped by category and trick.
type CatalogHandler struct {
	library *dataset.Library
}

// NewCatalogHandler creates a new CatalogHandler for the given library.
func NewCatalogHandler(l *dataset.Library) *CatalogHandler {
	return &CatalogHandler{library: l}
}

// ServeHTTP handles GET /my_uploads.
func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	catalog, err := h.library.Catalog(VideosPrefix)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list uploads")
		return
	}
	writeJSON(w, http.StatusOK, catalog)
}
