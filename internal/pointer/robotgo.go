package pointer

import "github.com/go-vgo/robotgo"

// SystemScreen reads the primary display size via robotgo.
type SystemScreen struct{}

// Size returns the primary display dimensions in pixels.
func (SystemScreen) Size() (int, int) {
	return robotgo.GetScreenSize()
}

// SystemMover moves the OS pointer via robotgo.
type SystemMover struct{}

// MoveTo moves the pointer to the given screen coordinate.
func (SystemMover) MoveTo(x, y int) error {
	robotgo.Move(x, y)
	return nil
}
