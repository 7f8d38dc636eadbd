package detector

import (
	"errors"

	"gocv.io/x/gocv"
)

var (
	// ErrNoDetection may be returned by a Provider when no person is found in
	// a frame. It is a normal outcome and is turned into an empty frame.
	ErrNoDetection = errors.New("no detection")

	// ErrProviderUnavailable is returned when the landmark provider cannot
	// service requests at all.
	ErrProviderUnavailable = errors.New("landmark provider unavailable")
)

// Provider defines the interface for pose landmark providers.
type Provider interface {
	// Detect analyzes a video frame and returns the landmarks of at most one
	// person. An empty FrameLandmarks (or ErrNoDetection) means no person.
	Detect(frame *gocv.Mat) (FrameLandmarks, error)

	// Close releases any resources held by the provider.
	Close() error
}

// Config holds configuration options for pose detection.
type Config struct {
	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// ScriptPath overrides the location of the pose service script.
	ScriptPath string

	// PythonPath overrides the interpreter used to run the script.
	PythonPath string
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
	}
}
