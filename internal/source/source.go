// Package source supplies per-frame facial landmark observations to the tracker.
package source

import (
	"github.com/ayusman/kathakali/internal/detector"
)

// Frame is a single landmark observation from a camera frame.
type Frame struct {
	Width     int
	Height    int
	Landmarks *detector.FaceLandmarks // nil when no face was detected
}

// HasFace reports whether the frame contains a detected face.
func (f Frame) HasFace() bool {
	return f.Landmarks != nil
}

// Source is a stream of landmark frames. NextFrame blocks until a frame is
// available; it returns an error when the stream has ended or the underlying
// device failed, which terminates the consumer's processing loop. A frame
// with no detected face is NOT an error.
type Source interface {
	Open() error
	NextFrame() (Frame, error)
	Close() error
}
