// Package capture provides video frame sampling using GoCV (OpenCV).
package capture

import (
	"errors"
	"fmt"
	"iter"

	"gocv.io/x/gocv"
)

// ErrSourceUnreadable is returned when a video source cannot be opened or decoded.
var ErrSourceUnreadable = errors.New("video source unreadable")

// Frame is one decoded video frame and its position in the source.
// Mat is owned by the Sampler and is only valid until the consumer pulls the
// next frame; callers that need to keep it must Clone it.
type Frame struct {
	Index int
	Mat   *gocv.Mat
}

// VideoSource is an open, readable video stream. *gocv.VideoCapture satisfies it.
type VideoSource interface {
	Read(m *gocv.Mat) bool
	Close() error
}

// OpenFunc opens the video at source.
type OpenFunc func(source string) (VideoSource, error)

// OpenVideoFile opens a video file with OpenCV.
func OpenVideoFile(source string) (VideoSource, error) {
	video, err := gocv.VideoCaptureFile(source)
	if err != nil {
		return nil, err
	}
	if !video.IsOpened() {
		video.Close()
		return nil, errors.New("capture not opened")
	}
	return video, nil
}

// Sampler yields the frames of a video source in native order.
type Sampler struct {
	open OpenFunc
}

// NewSampler creates a Sampler that opens sources with open.
// A nil open uses OpenVideoFile.
func NewSampler(open OpenFunc) *Sampler {
	if open == nil {
		open = OpenVideoFile
	}
	return &Sampler{open: open}
}

// Frames returns a single-pass lazy sequence over every frame of source.
// The source is opened when iteration starts and closed when the sequence is
// exhausted, fails, or the consumer stops early. A source that cannot be
// opened, or that decodes no frames at all, yields ErrSourceUnreadable.
func (s *Sampler) Frames(source string) iter.Seq2[Frame, error] {
	return func(yield func(Frame, error) bool) {
		video, err := s.open(source)
		if err != nil {
			yield(Frame{}, fmt.Errorf("%w: %s: %v", ErrSourceUnreadable, source, err))
			return
		}
		defer video.Close()

		mat := gocv.NewMat()
		defer mat.Close()

		index := 0
		for video.Read(&mat) {
			if !yield(Frame{Index: index, Mat: &mat}, nil) {
				return
			}
			index++
		}

		if index == 0 {
			yield(Frame{}, fmt.Errorf("%w: %s: no decodable frames", ErrSourceUnreadable, source))
		}
	}
}
