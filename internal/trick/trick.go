// Package trick classifies skate tricks from per-frame pose landmarks.
package trick

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ayusman/trickcheck/internal/detector"
)

// ErrUnknownTrick is returned for trick names outside the supported set.
var ErrUnknownTrick = errors.New("unknown trick")

// Trick names a skateboarding maneuver.
type Trick string

const (
	Ollie      Trick = "ollie"
	Nollie     Trick = "nollie"
	Kickflip   Trick = "kickflip"
	Boardslide Trick = "boardslide"
)

// Rule is the per-frame predicate for one trick.
type Rule interface {
	// Joints lists the joints the rule reads. A frame missing any of them
	// never satisfies the rule.
	Joints() []detector.Joint

	// Satisfied reports whether the frame matches the trick.
	Satisfied(f detector.FrameLandmarks) bool
}

// rules is the closed set of supported tricks. Adding a trick means adding
// an entry here and its Rule in rules.go.
var rules = map[Trick]Rule{
	Ollie:      ollieRule{},
	Nollie:     nollieRule{},
	Kickflip:   kickflipRule{},
	Boardslide: boardslideRule{},
}

// Parse resolves a trick name, ignoring case and surrounding whitespace.
func Parse(name string) (Trick, error) {
	t := Trick(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := rules[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTrick, name)
	}
	return t, nil
}

// All returns every supported trick in name order.
func All() []Trick {
	out := make([]Trick, 0, len(rules))
	for t := range rules {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RuleFor returns the rule of t.
func RuleFor(t Trick) (Rule, error) {
	r, ok := rules[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTrick, string(t))
	}
	return r, nil
}

// Result is the verdict for one (video, trick) pair. Evidence lists the
// indices of every frame that satisfied the rule, in ascending order.
type Result struct {
	Trick    Trick `json:"trick"`
	Detected bool  `json:"detected"`
	Evidence []int `json:"evidence"`
	Frames   int   `json:"frames"`
}
