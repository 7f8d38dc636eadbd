package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.DataDir != "dataset" {
		t.Errorf("DataDir = %q, want dataset", cfg.DataDir)
	}
	if cfg.DBPath != "trickcheck.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.MinVisibility != 0.5 {
		t.Errorf("MinVisibility = %f, want 0.5", cfg.MinVisibility)
	}
	if cfg.MockProvider {
		t.Error("MockProvider should be off by default")
	}
	if cfg.MaxUploadBytes() != 200<<20 {
		t.Errorf("MaxUploadBytes() = %d", cfg.MaxUploadBytes())
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("TRICKCHECK_ADDR", ":9090")
	t.Setenv("TRICKCHECK_DATA_DIR", "/srv/clips")
	t.Setenv("TRICKCHECK_MIN_VISIBILITY", "0.25")
	t.Setenv("TRICKCHECK_DB_PATH", "/var/lib/trickcheck.db")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("TRICKCHECK_MOCK_PROVIDER", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Addr != ":9090" || cfg.DataDir != "/srv/clips" || cfg.LogLevel != "debug" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.MinVisibility != 0.25 {
		t.Errorf("MinVisibility = %f, want 0.25", cfg.MinVisibility)
	}
	if !cfg.MockProvider {
		t.Error("MockProvider = false, want true")
	}
	if cfg.DBPath != "/var/lib/trickcheck.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
}

func TestLoad_InvalidNumber(t *testing.T) {
	t.Setenv("TRICKCHECK_MIN_VISIBILITY", "high")

	if _, err := Load(); err == nil {
		t.Error("expected error for non-numeric visibility")
	}
}
