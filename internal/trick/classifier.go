package trick

import (
	"iter"

	"github.com/ayusman/trickcheck/internal/detector"
)

// scanState tracks one classification pass.
type scanState int

const (
	// stateScanning: no frame has matched yet.
	stateScanning scanState = iota
	// stateMatched: the verdict is fixed; later matches only extend evidence.
	stateMatched
	// stateDone: the sequence is exhausted.
	stateDone
)

// scanner is the single-pass accumulator of a classification call.
type scanner struct {
	rule   Rule
	state  scanState
	result Result
}

func newScanner(t Trick, rule Rule) *scanner {
	return &scanner{
		rule:   rule,
		result: Result{Trick: t, Evidence: []int{}},
	}
}

func (s *scanner) step(f detector.FrameLandmarks) {
	if s.state == stateDone {
		return
	}

	index := s.result.Frames
	s.result.Frames++

	if !s.rule.Satisfied(f) {
		return
	}

	s.result.Evidence = append(s.result.Evidence, index)
	if s.state == stateScanning {
		s.result.Detected = true
		s.state = stateMatched
	}
}

func (s *scanner) finish() Result {
	s.state = stateDone
	return s.result
}

// Classify drains frames and returns the verdict for t. The first satisfying
// frame sets Detected; scanning continues to collect every satisfying index.
// An error from the sequence aborts classification and is returned as is.
// ErrUnknownTrick is returned before any frame is pulled.
func Classify(t Trick, frames iter.Seq2[detector.FrameLandmarks, error]) (Result, error) {
	rule, err := RuleFor(t)
	if err != nil {
		return Result{}, err
	}

	s := newScanner(t, rule)
	for f, err := range frames {
		if err != nil {
			return Result{}, err
		}
		s.step(f)
	}
	return s.finish(), nil
}

// ClassifyFrames classifies an in-memory landmark sequence.
func ClassifyFrames(t Trick, frames []detector.FrameLandmarks) (Result, error) {
	return Classify(t, func(yield func(detector.FrameLandmarks, error) bool) {
		for _, f := range frames {
			if !yield(f, nil) {
				return
			}
		}
	})
}

// ClassifyName parses name and classifies frames against it.
func ClassifyName(name string, frames iter.Seq2[detector.FrameLandmarks, error]) (Result, error) {
	t, err := Parse(name)
	if err != nil {
		return Result{}, err
	}
	return Classify(t, frames)
}
