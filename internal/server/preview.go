package server

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/ayusman/trickcheck/internal/capture"
	"github.com/ayusman/trickcheck/internal/dataset"
	"github.com/ayusman/trickcheck/internal/server/api"
)

const previewInterval = 66 * time.Millisecond // ~15 FPS

// PreviewHandler serves a stored video as an MJPEG stream.
type PreviewHandler struct {
	library  *dataset.Library
	sampler  *capture.Sampler
	logger   *zap.Logger
	interval time.Duration
}

// NewPreviewHandler creates a new PreviewHandler reading videos from library.
func NewPreviewHandler(library *dataset.Library, sampler *capture.Sampler, logger *zap.Logger) *PreviewHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreviewHandler{
		library:  library,
		sampler:  sampler,
		logger:   logger,
		interval: previewInterval,
	}
}

// ServeHTTP streams the frames of /api/preview/{category}/{trick}/{file}.
func (h *PreviewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	source, err := h.library.Path(r.PathValue("category"), r.PathValue("trick"), r.PathValue("file"))
	if err != nil {
		http.Error(w, err.Error(), api.StatusFor(err))
		return
	}

	started := false
	for frame, err := range h.sampler.Frames(source) {
		if err != nil {
			if !started {
				http.Error(w, err.Error(), api.StatusFor(err))
			} else {
				h.logger.Warn("preview aborted", zap.String("source", source), zap.Error(err))
			}
			return
		}

		buf, err := gocv.IMEncode(".jpg", *frame.Mat)
		if err != nil {
			continue
		}

		if !started {
			w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
			w.Header().Set("Cache-Control", "no-cache")
			w.Header().Set("Connection", "keep-alive")
			started = true
		}

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", buf.Len())
		w.Write(buf.GetBytes())
		fmt.Fprintf(w, "\r\n")
		buf.Close()

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}

		select {
		case <-r.Context().Done():
			return
		case <-time.After(h.interval):
		}
	}

	if !started {
		http.Error(w, "no frames could be encoded", http.StatusUnprocessableEntity)
	}
}
