// Package testdata provides scripted landmark clips for end-to-end tests.
package testdata

import "github.com/ayusman/trickcheck/internal/detector"

// Clip is a scripted video: the landmarks a provider reports for each frame
// and the verdict a session should reach for Trick.
type Clip struct {
	Name     string
	Category string
	Trick    string
	Frames   []detector.FrameLandmarks
	Detected bool
	Evidence []int
}

// Clips returns the end-to-end scenarios.
func Clips() []Clip {
	return []Clip{
		{
			Name:     "ollie.mp4",
			Category: "park",
			Trick:    "ollie",
			Frames: []detector.FrameLandmarks{
				frame(0.6, 0.9, 0.72, 0.90),
				frame(0.4, 0.7, 0.72, 0.90),
				{},
			},
			Detected: true,
			Evidence: []int{1},
		},
		{
			Name:     "nollie.mp4",
			Category: "park",
			Trick:    "nollie",
			Frames: []detector.FrameLandmarks{
				detector.StandingPose(),
				frame(0.72, 0.90, 0.45, 0.75),
				detector.AirbornePose(),
			},
			Detected: true,
			Evidence: []int{1, 2},
		},
		{
			Name:     "kickflip.mp4",
			Category: "street",
			Trick:    "kickflip",
			Frames: []detector.FrameLandmarks{
				detector.StandingPose(),
				detector.AirbornePose(),
				detector.StandingPose(),
			},
			Detected: true,
			Evidence: []int{1},
		},
		{
			Name:     "boardslide.mp4",
			Category: "street",
			Trick:    "boardslide",
			Frames: []detector.FrameLandmarks{
				detector.NewFrameLandmarks(
					detector.Point(detector.LeftAnkle, 0.5, 0.9),
					detector.Point(detector.RightKnee, 0.5, 0.6),
				),
			},
			Detected: false,
			Evidence: []int{},
		},
	}
}

// frame builds a frame from left and right knee and ankle heights.
func frame(leftKnee, leftAnkle, rightKnee, rightAnkle float64) detector.FrameLandmarks {
	return detector.NewFrameLandmarks(
		detector.Point(detector.LeftKnee, 0.45, leftKnee),
		detector.Point(detector.LeftAnkle, 0.45, leftAnkle),
		detector.Point(detector.RightKnee, 0.55, rightKnee),
		detector.Point(detector.RightAnkle, 0.55, rightAnkle),
	)
}
