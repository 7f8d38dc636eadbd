// Package config loads the service configuration from the environment.
package config

import "github.com/caarlos0/env/v11"

// Config is the service configuration. DataDir is the dataset root and is
// served under /videos, so the database lives outside it.
type Config struct {
	Addr      string `env:"TRICKCHECK_ADDR"       envDefault:":8080"`
	DataDir   string `env:"TRICKCHECK_DATA_DIR"   envDefault:"dataset"`
	DBPath    string `env:"TRICKCHECK_DB_PATH"    envDefault:"trickcheck.db"`
	StaticDir string `env:"TRICKCHECK_STATIC_DIR"`

	MinVisibility float64 `env:"TRICKCHECK_MIN_VISIBILITY" envDefault:"0.5"`
	MaxUploadMB   int64   `env:"TRICKCHECK_MAX_UPLOAD_MB"  envDefault:"200"`

	PoseScript string `env:"TRICKCHECK_POSE_SCRIPT"`
	PythonPath string `env:"TRICKCHECK_PYTHON"`

	// MockProvider runs without MediaPipe using a provider that detects no one.
	MockProvider bool `env:"TRICKCHECK_MOCK_PROVIDER" envDefault:"false"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MaxUploadBytes returns the upload size limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}
