package trick

import (
	"math"

	"github.com/ayusman/trickcheck/internal/detector"
)

// Rule thresholds, in normalized image coordinates (y grows downward).
// They are heuristics, not validated detectors of the named tricks.
const (
	// OllieKneeMaxY is the height the front knee must rise above.
	OllieKneeMaxY = 0.5
	// OllieAnkleMaxY is the height the front ankle must rise above.
	OllieAnkleMaxY = 0.8

	// NollieKneeMaxY mirrors OllieKneeMaxY for the back leg.
	NollieKneeMaxY = 0.5
	// NollieAnkleMaxY mirrors OllieAnkleMaxY for the back leg.
	NollieAnkleMaxY = 0.8

	// KickflipAnkleMaxY is the height both ankles must rise above.
	KickflipAnkleMaxY = 0.7

	// BoardslideMaxGap is the largest vertical gap between the left ankle
	// and the right knee for a slide stance.
	BoardslideMaxGap = 0.1
)

// ollieRule: LEFT_KNEE.y < OllieKneeMaxY and LEFT_ANKLE.y < OllieAnkleMaxY.
type ollieRule struct{}

func (ollieRule) Joints() []detector.Joint {
	return []detector.Joint{detector.LeftKnee, detector.LeftAnkle}
}

func (r ollieRule) Satisfied(f detector.FrameLandmarks) bool {
	p, ok := lookup(f, r.Joints())
	if !ok {
		return false
	}
	return p[0].Y < OllieKneeMaxY && p[1].Y < OllieAnkleMaxY
}

// nollieRule: RIGHT_KNEE.y < NollieKneeMaxY and RIGHT_ANKLE.y < NollieAnkleMaxY.
type nollieRule struct{}

func (nollieRule) Joints() []detector.Joint {
	return []detector.Joint{detector.RightKnee, detector.RightAnkle}
}

func (r nollieRule) Satisfied(f detector.FrameLandmarks) bool {
	p, ok := lookup(f, r.Joints())
	if !ok {
		return false
	}
	return p[0].Y < NollieKneeMaxY && p[1].Y < NollieAnkleMaxY
}

// kickflipRule: both ankles above KickflipAnkleMaxY.
type kickflipRule struct{}

func (kickflipRule) Joints() []detector.Joint {
	return []detector.Joint{detector.LeftAnkle, detector.RightAnkle}
}

func (r kickflipRule) Satisfied(f detector.FrameLandmarks) bool {
	p, ok := lookup(f, r.Joints())
	if !ok {
		return false
	}
	return p[0].Y < KickflipAnkleMaxY && p[1].Y < KickflipAnkleMaxY
}

// boardslideRule: |LEFT_ANKLE.y - RIGHT_KNEE.y| < BoardslideMaxGap.
type boardslideRule struct{}

func (boardslideRule) Joints() []detector.Joint {
	return []detector.Joint{detector.LeftAnkle, detector.RightKnee}
}

func (r boardslideRule) Satisfied(f detector.FrameLandmarks) bool {
	p, ok := lookup(f, r.Joints())
	if !ok {
		return false
	}
	return math.Abs(p[0].Y-p[1].Y) < BoardslideMaxGap
}

// lookup returns the points for joints in order, or false if any is absent.
func lookup(f detector.FrameLandmarks, joints []detector.Joint) ([]detector.LandmarkPoint, bool) {
	points := make([]detector.LandmarkPoint, len(joints))
	for i, j := range joints {
		p, ok := f.Get(j)
		if !ok {
			return nil, false
		}
		points[i] = p
	}
	return points, true
}
