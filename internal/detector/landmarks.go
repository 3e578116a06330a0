// Package detector provides face landmark detection interfaces and types for head tracking.
package detector

// Face mesh landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/face_landmarker
//
// Only five named indices are needed to span the head coordinate frame; the
// detector still delivers the full mesh so callers can pick others later.
const (
	FaceFront    = 1   // nose tip
	FaceTop      = 10  // forehead
	FaceBottom   = 152 // chin
	FaceLeft     = 234 // left cheek edge
	FaceRight    = 454 // right cheek edge
	NumLandmarks = 468
)

// Point3D represents a 3D point in space with x, y, z coordinates.
// Landmark coordinates are normalized: x and y in [0,1] relative to the frame,
// z roughly at x scale with negative values toward the camera.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// FaceLandmarks represents the face mesh landmarks detected by MediaPipe.
type FaceLandmarks struct {
	Points [NumLandmarks]Point3D `json:"points"`
	Score  float64               `json:"score"`
}

// KeyPoint returns the landmark at the given index scaled into a consistent
// unit of length for a w×h frame: x·w, y·h, z·w. Head geometry needs all
// three axes in the same unit, and the normalized z is already at x scale.
func (f *FaceLandmarks) KeyPoint(index, w, h int) Point3D {
	p := f.Points[index]
	return Point3D{
		X: p.X * float64(w),
		Y: p.Y * float64(h),
		Z: p.Z * float64(w),
	}
}
