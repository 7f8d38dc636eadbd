package capture

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// MockLibrary serves scripted video sources for testing. Each source has a
// fixed frame count and may be held open by one reader at a time, so a leaked
// handle shows up as a failed reopen.
type MockLibrary struct {
	mu     sync.Mutex
	frames map[string]int
	open   map[string]bool
	opens  int
	closes int
}

// NewMockLibrary creates an empty MockLibrary.
func NewMockLibrary() *MockLibrary {
	return &MockLibrary{
		frames: make(map[string]int),
		open:   make(map[string]bool),
	}
}

// Add registers a source with the given number of frames.
func (l *MockLibrary) Add(source string, frames int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frames[source] = frames
}

// Open implements OpenFunc.
func (l *MockLibrary) Open(source string) (VideoSource, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n, ok := l.frames[source]
	if !ok {
		return nil, fmt.Errorf("no such source %q", source)
	}
	if l.open[source] {
		return nil, fmt.Errorf("source %q is busy", source)
	}

	l.open[source] = true
	l.opens++
	return &mockVideo{lib: l, source: source, remaining: n}, nil
}

// OpenHandles returns the number of sources currently held open.
func (l *MockLibrary) OpenHandles() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, isOpen := range l.open {
		if isOpen {
			n++
		}
	}
	return n
}

// Opens returns how many times any source was opened.
func (l *MockLibrary) Opens() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.opens
}

func (l *MockLibrary) release(source string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.open[source] {
		l.open[source] = false
		l.closes++
	}
}

// mockVideo plays back blank frames without touching the Mat.
type mockVideo struct {
	lib       *MockLibrary
	source    string
	remaining int
	closed    bool
}

func (v *mockVideo) Read(m *gocv.Mat) bool {
	if v.closed || v.remaining <= 0 {
		return false
	}
	v.remaining--
	return true
}

func (v *mockVideo) Close() error {
	if v.closed {
		return nil
	}
	v.closed = true
	v.lib.release(v.source)
	return nil
}
