// Package server provides the HTTP server for the trick detection service.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ayusman/trickcheck/internal/app"
	"github.com/ayusman/trickcheck/internal/capture"
	"github.com/ayusman/trickcheck/internal/dataset"
	"github.com/ayusman/trickcheck/internal/server/api"
	"github.com/ayusman/trickcheck/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Library   *dataset.Library
	App       *app.App

	// Open opens stored videos for preview. Nil means OpenCV video files.
	Open capture.OpenFunc

	MaxUploadBytes int64
	Logger         *zap.Logger
}

// Server represents the HTTP server for the trick detection service.
type Server struct {
	config Config
	mux    *http.ServeMux
	events *EventsHandler
	logger *zap.Logger
	start  time.Time
}

// New creates a new Server with the given configuration. When an App is
// configured, every finished detection is published on /api/events.
func New(config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		events: NewEventsHandler(logger),
		logger: logger,
		start:  time.Now(),
	}
	if config.App != nil {
		config.App.OnResult(s.events.Publish)
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/spots", api.SpotsHandler)
	s.mux.HandleFunc("/api/tricks", api.TricksHandler)
	s.mux.Handle("/api/events", s.events)
	s.mux.Handle("/metrics", promhttp.Handler())

	if s.config.App != nil {
		s.mux.Handle("/upload", api.NewUploadHandler(s.config.App, s.config.MaxUploadBytes, s.logger))
	}

	if s.config.Store != nil {
		s.mux.Handle("/api/detections", api.NewDetectionsHandler(s.config.Store))
	}

	if s.config.Library != nil {
		s.mux.Handle("/my_uploads", api.NewCatalogHandler(s.config.Library))
		s.mux.Handle(api.VideosPrefix+"/", http.StripPrefix(api.VideosPrefix,
			http.FileServer(videoFS{root: http.Dir(s.config.Library.Root())})))

		preview := NewPreviewHandler(s.config.Library, capture.NewSampler(s.config.Open), s.logger)
		s.mux.Handle("GET /api/preview/{category}/{trick}/{file}", preview)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// Events returns the detection event broadcaster.
func (s *Server) Events() *EventsHandler {
	return s.events
}

// Close stops the event broadcaster and disconnects websocket clients.
func (s *Server) Close() {
	s.events.Close()
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status":  "ok",
		"uptime":  time.Since(s.start).String(),
		"clients": s.events.Clients(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}
