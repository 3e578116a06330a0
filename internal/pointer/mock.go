package pointer

import "sync"

// MockScreen is a fixed-size Screen for testing.
type MockScreen struct {
	Width  int
	Height int
}

// Size returns the configured dimensions.
func (s MockScreen) Size() (int, int) {
	return s.Width, s.Height
}

// Move records a single pointer move.
type Move struct {
	X, Y int
}

// MockMover records pointer moves for testing and can simulate failures.
type MockMover struct {
	mu    sync.Mutex
	moves []Move
	err   error
}

// NewMockMover creates an empty MockMover.
func NewMockMover() *MockMover {
	return &MockMover{}
}

// SetError makes subsequent MoveTo calls return err.
func (m *MockMover) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// MoveTo records the move, or fails if an error is configured.
func (m *MockMover) MoveTo(x, y int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.moves = append(m.moves, Move{X: x, Y: y})
	return nil
}

// Moves returns a copy of the recorded moves.
func (m *MockMover) Moves() []Move {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Move, len(m.moves))
	copy(out, m.moves)
	return out
}

// Last returns the most recent move, or false when none were recorded.
func (m *MockMover) Last() (Move, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.moves) == 0 {
		return Move{}, false
	}
	return m.moves[len(m.moves)-1], true
}
