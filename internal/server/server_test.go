package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ayusman/trickcheck/internal/capture"
	"github.com/ayusman/trickcheck/internal/dataset"
)

func TestServer_Health(t *testing.T) {
	s := New(Config{})

	t.Run("returns 200 with JSON response", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected Content-Type application/json, got %s", ct)
		}

		var response map[string]any
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if response["status"] != "ok" {
			t.Errorf("expected status 'ok', got %v", response["status"])
		}
		if _, exists := response["uptime"]; !exists {
			t.Error("expected 'uptime' field in response")
		}
	})

	t.Run("only allows GET method", func(t *testing.T) {
		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
			req := httptest.NewRequest(method, "/api/health", nil)
			rec := httptest.NewRecorder()

			s.ServeHTTP(rec, req)

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("method %s: expected status %d, got %d", method, http.StatusMethodNotAllowed, rec.Code)
			}
		}
	})
}

func TestServer_NotFound(t *testing.T) {
	s := New(Config{})

	for _, path := range []string{"/api/nonexistent", "/upload", "/my_uploads", "/api/detections"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected status %d, got %d", path, http.StatusNotFound, rec.Code)
		}
	}
}

func TestServer_PublicRoutes(t *testing.T) {
	s := New(Config{})

	tests := []struct {
		path     string
		contains string
	}{
		{"/spots", "Majorstua Banks"},
		{"/api/tricks", `"boardslide"`},
		{"/metrics", "go_goroutines"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("expected body to contain %q", tt.contains)
			}
		})
	}
}

func TestServer_StaticFiles(t *testing.T) {
	tmpDir := t.TempDir()

	testContent := "<html><body>trickcheck</body></html>"
	if err := os.WriteFile(filepath.Join(tmpDir, "index.html"), []byte(testContent), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	s := New(Config{StaticDir: tmpDir})

	t.Run("serves index.html at root path", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		if rec.Body.String() != testContent {
			t.Errorf("expected body %q, got %q", testContent, rec.Body.String())
		}
	})

	t.Run("returns 404 for non-existent static files", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nonexistent.html", nil))

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
		}
	})
}

func TestServer_Videos(t *testing.T) {
	lib, err := dataset.New(t.TempDir())
	if err != nil {
		t.Fatalf("dataset.New() error = %v", err)
	}
	if _, err := lib.Save("park", "ollie", "clip.mp4", strings.NewReader("video")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	s := New(Config{Library: lib})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/videos/park/ollie/clip.mp4", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if rec.Body.String() != "video" {
		t.Errorf("expected stored video, got %q", rec.Body.String())
	}
}

func TestServer_VideosHidesInternals(t *testing.T) {
	lib, err := dataset.New(t.TempDir())
	if err != nil {
		t.Fatalf("dataset.New() error = %v", err)
	}
	if _, err := lib.Save("park", "ollie", "clip.mp4", strings.NewReader("video")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	partial := filepath.Join(lib.Root(), "park", "ollie", ".upload-123")
	if err := os.WriteFile(partial, []byte("half"), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	s := New(Config{Library: lib})
	defer s.Close()

	for _, path := range []string{
		"/videos/park/ollie/.upload-123",
		"/videos/park/ollie/",
		"/videos/park/",
		"/videos/",
	} {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected status %d, got %d", path, http.StatusNotFound, rec.Code)
		}
		if strings.Contains(rec.Body.String(), "clip.mp4") || strings.Contains(rec.Body.String(), "half") {
			t.Errorf("%s: leaked dataset contents: %q", path, rec.Body.String())
		}
	}
}

func TestServer_Preview(t *testing.T) {
	lib, err := dataset.New(t.TempDir())
	if err != nil {
		t.Fatalf("dataset.New() error = %v", err)
	}
	videos := capture.NewMockLibrary()

	s := New(Config{Library: lib, Open: videos.Open})

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"missing video", "/api/preview/park/ollie/none.mp4", http.StatusUnprocessableEntity},
		{"hidden name", "/api/preview/park/ollie/.secret", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}

	if videos.OpenHandles() != 0 {
		t.Errorf("expected no open handles, got %d", videos.OpenHandles())
	}
}

func TestNew(t *testing.T) {
	t.Run("creates server with config", func(t *testing.T) {
		cfg := Config{StaticDir: "/some/path"}
		s := New(cfg)

		if s == nil {
			t.Fatal("expected non-nil server")
		}
		if s.config.StaticDir != cfg.StaticDir {
			t.Errorf("expected StaticDir %s, got %s", cfg.StaticDir, s.config.StaticDir)
		}
		if s.Events() == nil {
			t.Error("expected events handler")
		}
	})

	t.Run("server implements http.Handler", func(t *testing.T) {
		var _ http.Handler = New(Config{})
	})
}
