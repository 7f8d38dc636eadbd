package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockProvider is a test implementation of the Provider interface.
// It returns a scripted landmark sequence, one entry per Detect call, and
// empty frames once the script runs out.
type MockProvider struct {
	mu     sync.Mutex
	script []FrameLandmarks
	next   int
	calls  int
	err    error
	closed bool
}

// NewMockProvider creates a MockProvider that replays the given frames.
func NewMockProvider(frames ...FrameLandmarks) *MockProvider {
	return &MockProvider{script: frames}
}

// SetSequence replaces the scripted frames and rewinds playback.
func (m *MockProvider) SetSequence(frames ...FrameLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = frames
	m.next = 0
}

// SetError sets the error that will be returned by Detect.
func (m *MockProvider) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Rewind restarts playback from the first scripted frame.
func (m *MockProvider) Rewind() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next = 0
}

// Calls returns how many times Detect has been invoked.
func (m *MockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Closed reports whether Close has been called.
func (m *MockProvider) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Detect returns the next scripted frame or the configured error.
func (m *MockProvider) Detect(frame *gocv.Mat) (FrameLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return FrameLandmarks{}, m.err
	}
	if m.next >= len(m.script) {
		return FrameLandmarks{}, nil
	}
	f := m.script[m.next]
	m.next++
	return f, nil
}

// Close marks the provider closed.
func (m *MockProvider) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// StandingPose returns a rider standing on the board near the bottom of the frame.
func StandingPose() FrameLandmarks {
	return NewFrameLandmarks(
		PointWithVisibility(Nose, 0.50, 0.20, 0.99),
		PointWithVisibility(LeftShoulder, 0.45, 0.32, 0.98),
		PointWithVisibility(RightShoulder, 0.55, 0.32, 0.98),
		PointWithVisibility(LeftHip, 0.47, 0.55, 0.97),
		PointWithVisibility(RightHip, 0.53, 0.55, 0.97),
		PointWithVisibility(LeftKnee, 0.46, 0.72, 0.95),
		PointWithVisibility(RightKnee, 0.54, 0.72, 0.95),
		PointWithVisibility(LeftAnkle, 0.45, 0.90, 0.93),
		PointWithVisibility(RightAnkle, 0.55, 0.90, 0.93),
	)
}

// AirbornePose returns a rider with both knees tucked and feet lifted.
func AirbornePose() FrameLandmarks {
	return NewFrameLandmarks(
		PointWithVisibility(Nose, 0.50, 0.08, 0.99),
		PointWithVisibility(LeftShoulder, 0.45, 0.18, 0.98),
		PointWithVisibility(RightShoulder, 0.55, 0.18, 0.98),
		PointWithVisibility(LeftHip, 0.47, 0.38, 0.97),
		PointWithVisibility(RightHip, 0.53, 0.38, 0.97),
		PointWithVisibility(LeftKnee, 0.44, 0.45, 0.95),
		PointWithVisibility(RightKnee, 0.56, 0.45, 0.95),
		PointWithVisibility(LeftAnkle, 0.45, 0.62, 0.93),
		PointWithVisibility(RightAnkle, 0.55, 0.62, 0.93),
	)
}

// GrindPose returns a rider crouched over a rail with the back knee level
// with the front ankle.
func GrindPose() FrameLandmarks {
	return NewFrameLandmarks(
		PointWithVisibility(Nose, 0.50, 0.25, 0.99),
		PointWithVisibility(LeftHip, 0.47, 0.52, 0.97),
		PointWithVisibility(RightHip, 0.53, 0.52, 0.97),
		PointWithVisibility(LeftKnee, 0.40, 0.66, 0.95),
		PointWithVisibility(RightKnee, 0.60, 0.70, 0.95),
		PointWithVisibility(LeftAnkle, 0.35, 0.74, 0.93),
		PointWithVisibility(RightAnkle, 0.65, 0.84, 0.93),
	)
}
