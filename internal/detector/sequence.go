package detector

import (
	"errors"
	"fmt"
	"iter"

	"github.com/ayusman/trickcheck/internal/capture"
)

// DefaultMinVisibility is the visibility below which a joint is treated as absent.
const DefaultMinVisibility = 0.5

// Extractor turns a frame sequence into a landmark sequence by querying a
// Provider once per frame, in frame order.
type Extractor struct {
	provider      Provider
	minVisibility float64
}

// NewExtractor creates an Extractor over the given provider. Joints whose
// reported visibility is below minVisibility are dropped; joints without a
// visibility score are always kept.
func NewExtractor(provider Provider, minVisibility float64) *Extractor {
	return &Extractor{
		provider:      provider,
		minVisibility: minVisibility,
	}
}

// Extract returns a lazy sequence with exactly one FrameLandmarks per input
// frame. Frames without a detected person yield an empty FrameLandmarks so
// positions stay aligned with frame indices. Upstream errors and provider
// failures are yielded once and end the sequence.
func (e *Extractor) Extract(frames iter.Seq2[capture.Frame, error]) iter.Seq2[FrameLandmarks, error] {
	return func(yield func(FrameLandmarks, error) bool) {
		for frame, err := range frames {
			if err != nil {
				yield(FrameLandmarks{}, err)
				return
			}

			landmarks, err := e.detect(frame)
			if err != nil {
				yield(FrameLandmarks{}, fmt.Errorf("frame %d: %w", frame.Index, err))
				return
			}

			if !yield(landmarks, nil) {
				return
			}
		}
	}
}

func (e *Extractor) detect(frame capture.Frame) (FrameLandmarks, error) {
	landmarks, err := e.provider.Detect(frame.Mat)
	switch {
	case errors.Is(err, ErrNoDetection):
		return FrameLandmarks{}, nil
	case errors.Is(err, ErrProviderUnavailable):
		return FrameLandmarks{}, err
	case err != nil:
		return FrameLandmarks{}, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	if e.minVisibility <= 0 {
		return landmarks, nil
	}
	return landmarks.Filter(func(p LandmarkPoint) bool {
		return p.Visibility == nil || *p.Visibility >= e.minVisibility
	}), nil
}
