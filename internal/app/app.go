// Package app provides the main application logic for the trick detection service.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ayusman/trickcheck/internal/capture"
	"github.com/ayusman/trickcheck/internal/dataset"
	"github.com/ayusman/trickcheck/internal/detector"
	"github.com/ayusman/trickcheck/internal/metrics"
	"github.com/ayusman/trickcheck/internal/store"
	"github.com/ayusman/trickcheck/internal/trick"
)

// Config holds configuration options for the application.
type Config struct {
	Store   *store.Store
	Library *dataset.Library

	// Provider is the landmark provider. When nil, New starts MediaPipe with
	// Detector. If MediaPipe cannot be set up every session fails with
	// detector.ErrProviderUnavailable, unless MockProvider is set, in which
	// case a mock that never detects anyone is used instead.
	Provider     detector.Provider
	Detector     detector.Config
	MockProvider bool

	// Open opens video sources. Nil means OpenCV video files.
	Open capture.OpenFunc

	MinVisibility float64
	Logger        *zap.Logger
}

// Event describes one finished detection session.
type Event struct {
	UploadID string       `json:"upload_id,omitempty"`
	Source   string       `json:"source"`
	Result   trick.Result `json:"result"`
	Error    string       `json:"error,omitempty"`
	Time     time.Time    `json:"time"`
}

// UploadOutcome is the result of storing and analyzing an uploaded video.
type UploadOutcome struct {
	Upload *store.Upload
	Result trick.Result
}

// App is the main application that orchestrates video storage and trick detection.
type App struct {
	config    Config
	provider  detector.Provider
	session   *Session
	logger    *zap.Logger
	listeners []func(Event)
	mu        sync.RWMutex
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	provider := config.Provider
	if provider == nil {
		mp, err := detector.NewMediaPipeProvider(config.Detector, logger)
		switch {
		case err == nil:
			provider = mp
			logger.Info("using MediaPipe pose detection")
		case config.MockProvider:
			logger.Warn("MediaPipe not available, using mock provider", zap.Error(err))
			provider = detector.NewMockProvider()
		default:
			logger.Error("MediaPipe not available, detection disabled", zap.Error(err))
			provider = detector.NewUnavailableProvider(err)
		}
	}

	return &App{
		config:   config,
		provider: provider,
		session: NewSession(
			capture.NewSampler(config.Open),
			detector.NewExtractor(provider, config.MinVisibility),
		),
		logger: logger,
	}
}

// Session returns the detection session used by the app.
func (a *App) Session() *Session {
	return a.session
}

// Provider returns the landmark provider.
func (a *App) Provider() detector.Provider {
	return a.provider
}

// OnResult registers fn to be called after every detection session.
func (a *App) OnResult(fn func(Event)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// Detect runs a detection session for the video at source and records the
// verdict. Session errors are returned unchanged.
func (a *App) Detect(ctx context.Context, source, trickName string) (trick.Result, error) {
	return a.detect(ctx, "", source, trickName)
}

// Upload stores an uploaded video under (category, trick, filename), records
// it and runs a detection session on it. The trick name is validated before
// anything is written.
func (a *App) Upload(ctx context.Context, category, trickName, filename string, r io.Reader) (*UploadOutcome, error) {
	if a.config.Library == nil {
		return nil, errors.New("no dataset library configured")
	}

	t, err := trick.Parse(trickName)
	if err != nil {
		metrics.SessionsTotal.WithLabelValues(metrics.OutcomeUnknownTrick, "").Inc()
		return nil, err
	}

	path, err := a.config.Library.Save(category, string(t), filename, r)
	if err != nil {
		return nil, err
	}
	metrics.UploadsTotal.WithLabelValues(category).Inc()

	upload := &store.Upload{
		ID:       uuid.New().String(),
		Category: category,
		Trick:    string(t),
		Filename: filename,
		Path:     path,
	}
	if a.config.Store != nil {
		if err := a.config.Store.Uploads().Create(upload); err != nil {
			return nil, fmt.Errorf("record upload: %w", err)
		}
	}

	a.logger.Info("video stored",
		zap.String("upload_id", upload.ID),
		zap.String("category", category),
		zap.String("trick", string(t)),
		zap.String("path", path),
	)

	result, err := a.detect(ctx, upload.ID, path, string(t))
	if err != nil {
		return &UploadOutcome{Upload: upload}, err
	}
	return &UploadOutcome{Upload: upload, Result: result}, nil
}

func (a *App) detect(ctx context.Context, uploadID, source, trickName string) (trick.Result, error) {
	start := time.Now()
	result, err := a.session.Run(ctx, source, trickName)
	metrics.SessionDuration.Observe(time.Since(start).Seconds())
	metrics.SessionsTotal.WithLabelValues(outcome(result, err), string(result.Trick)).Inc()

	event := Event{UploadID: uploadID, Source: source, Result: result, Time: time.Now()}

	if err != nil {
		a.logger.Warn("detection failed",
			zap.String("source", source),
			zap.String("trick", trickName),
			zap.Error(err),
		)
		event.Error = err.Error()
		a.notify(event)
		return trick.Result{}, err
	}

	metrics.FramesProcessedTotal.Add(float64(result.Frames))
	a.logger.Info("detection finished",
		zap.String("source", source),
		zap.String("trick", string(result.Trick)),
		zap.Bool("detected", result.Detected),
		zap.Ints("evidence", result.Evidence),
		zap.Int("frames", result.Frames),
		zap.Duration("elapsed", time.Since(start)),
	)

	if a.config.Store != nil {
		detection := &store.Detection{
			ID:       uuid.New().String(),
			UploadID: uploadID,
			Trick:    string(result.Trick),
			Detected: result.Detected,
			Evidence: result.Evidence,
			Frames:   result.Frames,
		}
		if err := a.config.Store.Detections().Create(detection); err != nil {
			a.logger.Error("record detection failed", zap.Error(err))
		}
	}

	a.notify(event)
	return result, nil
}

func (a *App) notify(e Event) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, fn := range a.listeners {
		fn(e)
	}
}

// outcome maps a session result to its metrics label.
func outcome(result trick.Result, err error) string {
	switch {
	case err == nil && result.Detected:
		return metrics.OutcomeDetected
	case err == nil:
		return metrics.OutcomeNotDetected
	case errors.Is(err, trick.ErrUnknownTrick):
		return metrics.OutcomeUnknownTrick
	case errors.Is(err, capture.ErrSourceUnreadable):
		return metrics.OutcomeSourceUnreadable
	case errors.Is(err, detector.ErrProviderUnavailable):
		return metrics.OutcomeProviderUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeError
	}
}

// Close releases the landmark provider.
func (a *App) Close() error {
	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing provider", zap.Error(err))
		return err
	}
	return nil
}
