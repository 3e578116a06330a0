// Package pointer abstracts screen geometry and pointer actuation.
package pointer

// Screen reports the geometry of the display the cursor is mapped onto.
type Screen interface {
	// Size returns the screen dimensions in pixels.
	Size() (width, height int)
}

// Mover issues absolute pointer moves.
type Mover interface {
	// MoveTo moves the pointer to the given screen coordinate.
	MoveTo(x, y int) error
}
