package detector

import (
	"math"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	face *FaceLandmarks
	err  error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetFace sets the face that will be returned by Detect.
// Passing nil simulates frames with no detected face.
func (m *MockDetector) SetFace(face *FaceLandmarks) {
	m.face = face
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured face or error.
func (m *MockDetector) Detect(frame *gocv.Mat) (*FaceLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.face, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Preset face geometry in pixel units at the default 640x480 capture size,
// centered on the frame. The rotation happens in pixel space because that is
// the space the orientation math runs in (x and z scale by width, y by
// height); the result is normalized back into landmark coordinates.
const (
	presetHalfWidth  = 96.0 // cheek-to-cheek half span
	presetHalfHeight = 96.0 // forehead-to-chin half span
	presetNoseDepth  = 64.0 // nose tip offset toward the camera
	presetFrameW     = 640.0
	presetFrameH     = 480.0
)

// CenteredFaceLandmarks returns a preset FaceLandmarks for a head looking
// straight at the camera from the frame center. Run through the orientation
// estimator at 640x480 it yields yaw=180, pitch=180.
func CenteredFaceLandmarks() FaceLandmarks {
	return TurnedFaceLandmarks(0, 0)
}

// TurnedFaceLandmarks returns a preset FaceLandmarks for a head rotated away
// from the camera, exact for 640x480 frames. Positive yawDeg increases the
// folded yaw angle by that amount (cursor right); positive pitchDeg nods the
// head downward, decreasing the folded pitch angle by that amount (cursor
// down).
func TurnedFaceLandmarks(yawDeg, pitchDeg float64) FaceLandmarks {
	landmarks := FaceLandmarks{Score: 0.95}

	offsets := map[int]Point3D{
		FaceLeft:   {X: -presetHalfWidth},
		FaceRight:  {X: presetHalfWidth},
		FaceTop:    {Y: -presetHalfHeight},
		FaceBottom: {Y: presetHalfHeight},
		FaceFront:  {Z: -presetNoseDepth},
	}

	sinY, cosY := math.Sincos(yawDeg * math.Pi / 180)
	sinP, cosP := math.Sincos(pitchDeg * math.Pi / 180)

	for idx, off := range offsets {
		// Rotate about the vertical axis (yaw), then the lateral axis (pitch).
		x := off.X*cosY + off.Z*sinY
		z := -off.X*sinY + off.Z*cosY
		y := off.Y*cosP - z*sinP
		z = off.Y*sinP + z*cosP

		landmarks.Points[idx] = Point3D{
			X: 0.5 + x/presetFrameW,
			Y: 0.5 + y/presetFrameH,
			Z: z / presetFrameW,
		}
	}

	return landmarks
}
