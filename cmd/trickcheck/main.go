package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/trickcheck/internal/app"
	"github.com/ayusman/trickcheck/internal/config"
	"github.com/ayusman/trickcheck/internal/dataset"
	"github.com/ayusman/trickcheck/internal/detector"
	"github.com/ayusman/trickcheck/internal/logger"
	"github.com/ayusman/trickcheck/internal/server"
	"github.com/ayusman/trickcheck/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "trickcheck: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create database directory: %w", err)
		}
	}

	st, err := store.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	lib, err := dataset.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open dataset: %w", err)
	}

	detCfg := detector.DefaultConfig()
	detCfg.ScriptPath = cfg.PoseScript
	detCfg.PythonPath = cfg.PythonPath

	a := app.New(app.Config{
		Store:         st,
		Library:       lib,
		Detector:      detCfg,
		MockProvider:  cfg.MockProvider,
		MinVisibility: cfg.MinVisibility,
		Logger:        log,
	})
	defer a.Close()

	staticDir := cfg.StaticDir
	if staticDir == "" {
		staticDir = findWebDir()
	}
	if staticDir != "" {
		log.Info("serving static files", zap.String("dir", staticDir))
	}

	srv := server.New(server.Config{
		StaticDir:      staticDir,
		Store:          st,
		Library:        lib,
		App:            a,
		MaxUploadBytes: cfg.MaxUploadBytes(),
		Logger:         log,
	})

	defer srv.Close()

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server",
			zap.String("addr", cfg.Addr),
			zap.String("data_dir", lib.Root()),
			zap.String("db", cfg.DBPath),
		)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// findWebDir searches for the web directory in common locations.
// It checks "web", "../web" and ~/.trickcheck/web, returning the first
// existing directory or an empty string.
func findWebDir() string {
	for _, p := range []string{"web", "../web"} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if absPath, err := filepath.Abs(p); err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".trickcheck", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
