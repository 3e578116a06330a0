package source

import (
	"errors"
	"io"
	"sync"
	"time"
)

// ErrSourceNotOpen is returned by NextFrame before Open or after Close.
var ErrSourceNotOpen = errors.New("source is not open")

// MockSource plays back a scripted sequence of frames for testing.
// When the script runs out it either keeps repeating the last frame or
// returns io.EOF, depending on loopLast.
type MockSource struct {
	frames   []Frame
	loopLast bool
	delay    time.Duration

	mu        sync.Mutex
	open      bool
	index     int
	reads     int
	openCount int
	failOpen  error
}

// NewMockSource creates a MockSource over the given frame script.
func NewMockSource(frames []Frame, loopLast bool) *MockSource {
	return &MockSource{
		frames:   frames,
		loopLast: loopLast,
	}
}

// SetDelay makes every NextFrame call sleep to simulate camera pacing.
func (s *MockSource) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// FailOpen makes subsequent Open calls return err.
func (s *MockSource) FailOpen(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOpen = err
}

func (s *MockSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failOpen != nil {
		return s.failOpen
	}
	s.open = true
	s.index = 0
	s.openCount++
	return nil
}

func (s *MockSource) NextFrame() (Frame, error) {
	s.mu.Lock()
	if !s.open {
		s.mu.Unlock()
		return Frame{}, ErrSourceNotOpen
	}

	if s.index >= len(s.frames) {
		if !s.loopLast || len(s.frames) == 0 {
			s.mu.Unlock()
			return Frame{}, io.EOF
		}
		s.index = len(s.frames) - 1
	}

	frame := s.frames[s.index]
	s.index++
	s.reads++
	delay := s.delay
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	return frame, nil
}

func (s *MockSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = false
	return nil
}

// Reads returns how many frames have been consumed.
func (s *MockSource) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

// IsOpen reports whether the source is currently open.
func (s *MockSource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// OpenCount returns how many times Open has succeeded.
func (s *MockSource) OpenCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openCount
}
