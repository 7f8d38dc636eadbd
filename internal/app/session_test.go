package app

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/ayusman/trickcheck/internal/capture"
	"github.com/ayusman/trickcheck/internal/detector"
	"github.com/ayusman/trickcheck/internal/trick"
	"gocv.io/x/gocv"
)

// ollieClip is the three-frame ollie sequence: miss, match, nobody.
func ollieClip() []detector.FrameLandmarks {
	return []detector.FrameLandmarks{
		detector.NewFrameLandmarks(
			detector.Point(detector.LeftKnee, 0.5, 0.6),
			detector.Point(detector.LeftAnkle, 0.5, 0.9),
		),
		detector.NewFrameLandmarks(
			detector.Point(detector.LeftKnee, 0.5, 0.4),
			detector.Point(detector.LeftAnkle, 0.5, 0.7),
		),
		{},
	}
}

func newTestSession(lib *capture.MockLibrary, provider detector.Provider) *Session {
	return NewSession(capture.NewSampler(lib.Open), detector.NewExtractor(provider, 0))
}

func TestSession_OllieScenario(t *testing.T) {
	lib := capture.NewMockLibrary()
	lib.Add("ollie.mp4", 3)
	provider := detector.NewMockProvider(ollieClip()...)

	result, err := newTestSession(lib, provider).Run(context.Background(), "ollie.mp4", "ollie")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := trick.Result{Trick: trick.Ollie, Detected: true, Evidence: []int{1}, Frames: 3}
	if !reflect.DeepEqual(result, want) {
		t.Errorf("Run() = %+v, want %+v", result, want)
	}
	if provider.Calls() != 3 {
		t.Errorf("expected 3 provider calls, got %d", provider.Calls())
	}
	if lib.OpenHandles() != 0 {
		t.Errorf("expected source released, %d handles open", lib.OpenHandles())
	}
}

func TestSession_Idempotent(t *testing.T) {
	lib := capture.NewMockLibrary()
	lib.Add("ollie.mp4", 3)
	provider := detector.NewMockProvider(ollieClip()...)
	s := newTestSession(lib, provider)

	first, err := s.Run(context.Background(), "ollie.mp4", "ollie")
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}

	provider.Rewind()
	second, err := s.Run(context.Background(), "ollie.mp4", "ollie")
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical results, got %+v and %+v", first, second)
	}
}

func TestSession_UnknownTrickReadsNothing(t *testing.T) {
	lib := capture.NewMockLibrary()
	lib.Add("clip.mp4", 5)
	provider := detector.NewMockProvider()

	_, err := newTestSession(lib, provider).Run(context.Background(), "clip.mp4", "laserflip")
	if !errors.Is(err, trick.ErrUnknownTrick) {
		t.Fatalf("expected ErrUnknownTrick, got %v", err)
	}
	if lib.Opens() != 0 {
		t.Errorf("expected source not to be opened, got %d opens", lib.Opens())
	}
	if provider.Calls() != 0 {
		t.Errorf("expected provider not to be called, got %d", provider.Calls())
	}
}

func TestSession_SourceUnreadable(t *testing.T) {
	lib := capture.NewMockLibrary()

	_, err := newTestSession(lib, detector.NewMockProvider()).Run(context.Background(), "missing.mp4", "ollie")
	if !errors.Is(err, capture.ErrSourceUnreadable) {
		t.Errorf("expected ErrSourceUnreadable, got %v", err)
	}
}

func TestSession_ProviderUnavailable(t *testing.T) {
	lib := capture.NewMockLibrary()
	lib.Add("clip.mp4", 10)
	provider := detector.NewMockProvider()
	provider.SetError(errors.New("pose service crashed"))

	result, err := newTestSession(lib, provider).Run(context.Background(), "clip.mp4", "kickflip")
	if !errors.Is(err, detector.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
	if result.Detected || result.Evidence != nil {
		t.Errorf("expected zero result on failure, got %+v", result)
	}
	if lib.OpenHandles() != 0 {
		t.Errorf("expected source released after failure, %d handles open", lib.OpenHandles())
	}
}

func TestSession_Canceled(t *testing.T) {
	t.Run("before start", func(t *testing.T) {
		lib := capture.NewMockLibrary()
		lib.Add("clip.mp4", 10)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newTestSession(lib, detector.NewMockProvider()).Run(ctx, "clip.mp4", "ollie")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if lib.Opens() != 0 {
			t.Errorf("expected source not opened, got %d", lib.Opens())
		}
	})

	t.Run("mid sequence releases source", func(t *testing.T) {
		lib := capture.NewMockLibrary()
		lib.Add("clip.mp4", 10)

		ctx, cancel := context.WithCancel(context.Background())
		provider := &cancelingProvider{after: 2, cancel: cancel}

		_, err := newTestSession(lib, provider).Run(ctx, "clip.mp4", "ollie")
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if provider.calls != 2 {
			t.Errorf("expected 2 provider calls before cancel, got %d", provider.calls)
		}
		if lib.OpenHandles() != 0 {
			t.Errorf("expected source released, %d handles open", lib.OpenHandles())
		}
	})
}

// cancelingProvider cancels its context after a number of frames.
type cancelingProvider struct {
	after  int
	calls  int
	cancel context.CancelFunc
}

func (p *cancelingProvider) Detect(_ *gocv.Mat) (detector.FrameLandmarks, error) {
	p.calls++
	if p.calls == p.after {
		p.cancel()
	}
	return detector.FrameLandmarks{}, nil
}

func (p *cancelingProvider) Close() error { return nil }
