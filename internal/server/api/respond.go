// Package api provides HTTP API handlers for the trick detection service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayusman/trickcheck/internal/capture"
	"github.com/ayusman/trickcheck/internal/dataset"
	"github.com/ayusman/trickcheck/internal/detector"
	"github.com/ayusman/trickcheck/internal/store"
	"github.com/ayusman/trickcheck/internal/trick"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// StatusFor maps a service error to its HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, trick.ErrUnknownTrick), errors.Is(err, dataset.ErrInvalidName):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, capture.ErrSourceUnreadable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, detector.ErrProviderUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
