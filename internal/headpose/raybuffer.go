package headpose

// DefaultRayBufferLen is the number of recent rays averaged together.
const DefaultRayBufferLen = 40

// RayBuffer is a fixed-capacity ring buffer of gaze rays. Once full, each
// push evicts the oldest entry. Averaging the stored rays suppresses
// per-frame landmark jitter before the angles are computed.
type RayBuffer struct {
	origins    []Vec3
	directions []Vec3
	pos        int
	full       bool
}

// NewRayBuffer creates a ray buffer holding up to capacity rays.
// Non-positive capacities fall back to DefaultRayBufferLen.
func NewRayBuffer(capacity int) *RayBuffer {
	if capacity <= 0 {
		capacity = DefaultRayBufferLen
	}
	return &RayBuffer{
		origins:    make([]Vec3, 0, capacity),
		directions: make([]Vec3, 0, capacity),
	}
}

// Push appends a ray, evicting the oldest one when the buffer is full.
func (b *RayBuffer) Push(origin, direction Vec3) {
	if !b.full {
		b.origins = append(b.origins, origin)
		b.directions = append(b.directions, direction)
		if len(b.origins) == cap(b.origins) {
			b.full = true
		}
		return
	}
	b.origins[b.pos] = origin
	b.directions[b.pos] = direction
	b.pos = (b.pos + 1) % cap(b.origins)
}

// Len returns the number of rays currently stored.
func (b *RayBuffer) Len() int {
	return len(b.origins)
}

// Cap returns the buffer capacity.
func (b *RayBuffer) Cap() int {
	return cap(b.origins)
}

// Mean returns the component-wise average of the stored origins and
// directions. The averaged direction is not renormalized. ok is false
// when the buffer is empty.
func (b *RayBuffer) Mean() (origin, direction Vec3, ok bool) {
	n := len(b.origins)
	if n == 0 {
		return Vec3{}, Vec3{}, false
	}
	for i := 0; i < n; i++ {
		origin = origin.Add(b.origins[i])
		direction = direction.Add(b.directions[i])
	}
	inv := 1.0 / float64(n)
	return origin.Scale(inv), direction.Scale(inv), true
}

// Reset discards all stored rays.
func (b *RayBuffer) Reset() {
	b.origins = b.origins[:0]
	b.directions = b.directions[:0]
	b.pos = 0
	b.full = false
}
