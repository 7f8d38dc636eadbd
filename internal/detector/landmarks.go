// Package detector provides pose landmark types, landmark providers and the
// per-frame landmark sequence extractor used for trick detection.
package detector

import (
	"math"
	"sort"
)

// Joint identifies a body landmark following the MediaPipe Pose convention.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
type Joint int

const (
	Nose Joint = iota
	LeftEyeInner
	LeftEye
	LeftEyeOuter
	RightEyeInner
	RightEye
	RightEyeOuter
	LeftEar
	RightEar
	MouthLeft
	MouthRight
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftPinky
	RightPinky
	LeftIndex
	RightIndex
	LeftThumb
	RightThumb
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
	LeftHeel
	RightHeel
	LeftFootIndex
	RightFootIndex
	NumJoints
)

var jointNames = [NumJoints]string{
	"NOSE", "LEFT_EYE_INNER", "LEFT_EYE", "LEFT_EYE_OUTER",
	"RIGHT_EYE_INNER", "RIGHT_EYE", "RIGHT_EYE_OUTER",
	"LEFT_EAR", "RIGHT_EAR", "MOUTH_LEFT", "MOUTH_RIGHT",
	"LEFT_SHOULDER", "RIGHT_SHOULDER", "LEFT_ELBOW", "RIGHT_ELBOW",
	"LEFT_WRIST", "RIGHT_WRIST", "LEFT_PINKY", "RIGHT_PINKY",
	"LEFT_INDEX", "RIGHT_INDEX", "LEFT_THUMB", "RIGHT_THUMB",
	"LEFT_HIP", "RIGHT_HIP", "LEFT_KNEE", "RIGHT_KNEE",
	"LEFT_ANKLE", "RIGHT_ANKLE", "LEFT_HEEL", "RIGHT_HEEL",
	"LEFT_FOOT_INDEX", "RIGHT_FOOT_INDEX",
}

// Valid reports whether j is one of the known joints.
func (j Joint) Valid() bool {
	return j >= 0 && j < NumJoints
}

func (j Joint) String() string {
	if !j.Valid() {
		return "UNKNOWN"
	}
	return jointNames[j]
}

// LandmarkPoint is a single joint position normalized to the frame size.
// Y grows downward. Visibility is nil when the provider does not report it.
type LandmarkPoint struct {
	Joint      Joint    `json:"joint"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Visibility *float64 `json:"visibility,omitempty"`
}

// Point builds a LandmarkPoint without visibility.
func Point(j Joint, x, y float64) LandmarkPoint {
	return LandmarkPoint{Joint: j, X: x, Y: y}
}

// PointWithVisibility builds a LandmarkPoint carrying a visibility score.
func PointWithVisibility(j Joint, x, y, visibility float64) LandmarkPoint {
	return LandmarkPoint{Joint: j, X: x, Y: y, Visibility: &visibility}
}

func (p LandmarkPoint) valid() bool {
	if !p.Joint.Valid() {
		return false
	}
	if !inUnit(p.X) || !inUnit(p.Y) {
		return false
	}
	return p.Visibility == nil || inUnit(*p.Visibility)
}

func inUnit(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

// FrameLandmarks holds the joints detected in one frame. The zero value is an
// empty frame (no person detected). Values are immutable once built.
type FrameLandmarks struct {
	points map[Joint]LandmarkPoint
}

// NewFrameLandmarks builds a FrameLandmarks from the given points.
// Points with an unknown joint or coordinates outside [0,1] are dropped, and
// when a joint repeats only its first occurrence is kept.
func NewFrameLandmarks(points ...LandmarkPoint) FrameLandmarks {
	if len(points) == 0 {
		return FrameLandmarks{}
	}

	m := make(map[Joint]LandmarkPoint, len(points))
	for _, p := range points {
		if !p.valid() {
			continue
		}
		if _, dup := m[p.Joint]; dup {
			continue
		}
		if p.Visibility != nil {
			v := *p.Visibility
			p.Visibility = &v
		}
		m[p.Joint] = p
	}
	return FrameLandmarks{points: m}
}

// Get returns the point for joint j and whether it is present.
func (f FrameLandmarks) Get(j Joint) (LandmarkPoint, bool) {
	p, ok := f.points[j]
	return p, ok
}

// Len returns the number of joints present.
func (f FrameLandmarks) Len() int {
	return len(f.points)
}

// Empty reports whether no joints were detected in the frame.
func (f FrameLandmarks) Empty() bool {
	return len(f.points) == 0
}

// Points returns the present points ordered by joint.
func (f FrameLandmarks) Points() []LandmarkPoint {
	out := make([]LandmarkPoint, 0, len(f.points))
	for _, p := range f.points {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Joint < out[j].Joint
	})
	return out
}

// Filter returns a copy that keeps only the points for which keep is true.
func (f FrameLandmarks) Filter(keep func(LandmarkPoint) bool) FrameLandmarks {
	if len(f.points) == 0 {
		return f
	}

	m := make(map[Joint]LandmarkPoint, len(f.points))
	for j, p := range f.points {
		if keep(p) {
			m[j] = p
		}
	}
	return FrameLandmarks{points: m}
}
