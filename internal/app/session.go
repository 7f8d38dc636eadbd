package app

import (
	"context"
	"iter"

	"github.com/ayusman/trickcheck/internal/capture"
	"github.com/ayusman/trickcheck/internal/detector"
	"github.com/ayusman/trickcheck/internal/trick"
)

// Session runs the detection pipeline for one video and one trick:
//
//  1. Validate the trick name (no frame is read for an unknown trick)
//  2. Sample frames from the source in native order
//  3. Extract one landmark set per frame through the provider
//  4. Classify the landmark sequence against the trick rule
//
// Stages are pulled lazily, so one frame is resident at a time. Errors from
// any stage are returned unchanged. A Session holds no per-run state and may
// be shared by concurrent runs as long as its Provider allows it.
type Session struct {
	sampler   *capture.Sampler
	extractor *detector.Extractor
}

// NewSession creates a Session from its stages.
func NewSession(sampler *capture.Sampler, extractor *detector.Extractor) *Session {
	return &Session{
		sampler:   sampler,
		extractor: extractor,
	}
}

// Run classifies the video at source against the named trick.
func (s *Session) Run(ctx context.Context, source, trickName string) (trick.Result, error) {
	t, err := trick.Parse(trickName)
	if err != nil {
		return trick.Result{}, err
	}
	return s.RunTrick(ctx, source, t)
}

// RunTrick classifies the video at source against t.
func (s *Session) RunTrick(ctx context.Context, source string, t trick.Trick) (trick.Result, error) {
	if _, err := trick.RuleFor(t); err != nil {
		return trick.Result{}, err
	}

	frames := untilDone(ctx, s.sampler.Frames(source))
	return trick.Classify(t, s.extractor.Extract(frames))
}

// untilDone stops the sequence with ctx.Err() once ctx is canceled.
// Returning early makes the upstream sampler release its source.
func untilDone(ctx context.Context, frames iter.Seq2[capture.Frame, error]) iter.Seq2[capture.Frame, error] {
	return func(yield func(capture.Frame, error) bool) {
		if err := ctx.Err(); err != nil {
			yield(capture.Frame{}, err)
			return
		}
		for frame, err := range frames {
			if err == nil {
				err = ctx.Err()
			}
			if !yield(frame, err) || err != nil {
				return
			}
		}
	}
}
