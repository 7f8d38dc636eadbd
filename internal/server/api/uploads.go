package api

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ayusman/trickcheck/internal/app"
)

// DefaultMaxUploadBytes bounds the request body of an upload.
const DefaultMaxUploadBytes = 200 << 20

// UploadHandler handles video uploads and runs trick detection on them.
type UploadHandler struct {
	app      *app.App
	maxBytes int64
	logger   *zap.Logger
}

// NewUploadHandler creates a new UploadHandler. A non-positive maxBytes
// selects DefaultMaxUploadBytes.
func NewUploadHandler(a *app.App, maxBytes int64, logger *zap.Logger) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadHandler{app: a, maxBytes: maxBytes, logger: logger}
}

type uploadResponse struct {
	Message       string `json:"message"`
	UploadID      string `json:"upload_id"`
	TrickDetected bool   `json:"trick_detected"`
	Evidence      []int  `json:"evidence"`
	Frames        int    `json:"frames"`
}

// ServeHTTP handles POST /upload with multipart fields category, trick and file.
func (h *UploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if r.ContentLength > h.maxBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "Upload too large")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Upload too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	category := r.FormValue("category")
	trickName := r.FormValue("trick")
	if category == "" || trickName == "" {
		writeError(w, http.StatusBadRequest, "category and trick are required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	out, err := h.app.Upload(r.Context(), category, trickName, filepath.Base(header.Filename), file)
	if err != nil {
		status := StatusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("upload failed", zap.String("category", category), zap.Error(err))
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Message:       fmt.Sprintf("Video uploaded to %s/%s", category, out.Upload.Trick),
		UploadID:      out.Upload.ID,
		TrickDetected: out.Result.Detected,
		Evidence:      out.Result.Evidence,
		Frames:        out.Result.Frames,
	})
}
