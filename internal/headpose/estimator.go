package headpose

import (
	"errors"
	"math"
)

// ErrDegenerateGeometry is returned when the supplied landmarks are too
// close together or collinear to define a head frame.
var ErrDegenerateGeometry = errors.New("degenerate face geometry")

// refForward is the reference gaze direction of a camera-facing head in
// image coordinates.
var refForward = Vec3{0, 0, -1}

// FacePoints are the five key landmarks used to build the head frame,
// in pixel coordinates.
type FacePoints struct {
	Left   Vec3
	Right  Vec3
	Top    Vec3
	Bottom Vec3
	Front  Vec3
}

// Pose holds folded orientation angles in degrees. A head facing the
// camera straight on reads 180 degrees on both axes.
type Pose struct {
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
}

// Estimator turns per-frame face landmarks into a temporally smoothed
// head pose. It keeps a ring buffer of recent gaze rays and reports the
// angles of the averaged ray.
type Estimator struct {
	rays *RayBuffer
}

// NewEstimator creates an estimator whose ray buffer holds bufferLen
// frames. Non-positive lengths fall back to DefaultRayBufferLen.
func NewEstimator(bufferLen int) *Estimator {
	return &Estimator{rays: NewRayBuffer(bufferLen)}
}

// Estimate folds the given landmarks into the ray buffer and returns the
// pose of the averaged ray. Degenerate landmark sets return
// ErrDegenerateGeometry and leave the buffer untouched.
func (e *Estimator) Estimate(p FacePoints) (Pose, error) {
	right, ok := p.Right.Sub(p.Left).Normalize()
	if !ok {
		return Pose{}, ErrDegenerateGeometry
	}
	up, ok := p.Top.Sub(p.Bottom).Normalize()
	if !ok {
		return Pose{}, ErrDegenerateGeometry
	}
	forward, ok := right.Cross(up).Normalize()
	if !ok {
		return Pose{}, ErrDegenerateGeometry
	}
	forward = forward.Scale(-1)

	center := p.Left.Add(p.Right).Add(p.Top).Add(p.Bottom).Add(p.Front).Scale(1.0 / 5.0)

	e.rays.Push(center, forward)

	_, direction, _ := e.rays.Mean()
	direction, ok = direction.Normalize()
	if !ok {
		return Pose{}, ErrDegenerateGeometry
	}

	yaw, pitch := anglesFromDirection(direction)
	return Pose{Yaw: yaw, Pitch: pitch}, nil
}

// Ray returns the underlying ray buffer.
func (e *Estimator) Ray() *RayBuffer {
	return e.rays
}

// Reset discards all buffered rays.
func (e *Estimator) Reset() {
	e.rays.Reset()
}

// anglesFromDirection computes folded yaw and pitch angles for a unit
// gaze direction. Yaw is measured in the horizontal plane, pitch in the
// vertical plane, each against the reference forward direction.
func anglesFromDirection(d Vec3) (yaw, pitch float64) {
	xz := Vec3{d.X, 0, d.Z}
	if n, ok := xz.Normalize(); ok {
		yaw = math.Acos(clamp(n.Dot(refForward), -1, 1)) * 180 / math.Pi
	}
	if d.X < 0 {
		yaw = -yaw
	}

	yz := Vec3{0, d.Y, d.Z}
	if n, ok := yz.Normalize(); ok {
		pitch = math.Acos(clamp(n.Dot(refForward), -1, 1)) * 180 / math.Pi
	}
	if d.Y > 0 {
		pitch = -pitch
	}

	return FoldYaw(yaw), FoldPitch(pitch)
}

// FoldYaw maps a signed yaw angle onto the folded 0..360 scale where a
// centered head reads 180.
func FoldYaw(yaw float64) float64 {
	if yaw < 0 {
		yaw = math.Abs(yaw)
	} else if yaw < 180 {
		yaw = 360 - yaw
	}
	return yaw
}

// FoldPitch maps a signed pitch angle onto the folded 0..360 scale where
// a centered head reads 180.
func FoldPitch(pitch float64) float64 {
	if pitch < 0 {
		pitch += 360
	}
	return pitch
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
