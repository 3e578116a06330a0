package source

import (
	"fmt"
	"log"

	"github.com/ayusman/kathakali/internal/capture"
	"github.com/ayusman/kathakali/internal/detector"
)

// CameraSource combines a camera and a face detector into a landmark stream.
type CameraSource struct {
	camera   capture.Camera
	detector detector.Detector
}

// NewCameraSource creates a CameraSource over the given camera and detector.
func NewCameraSource(cam capture.Camera, det detector.Detector) *CameraSource {
	return &CameraSource{
		camera:   cam,
		detector: det,
	}
}

// Open opens the camera. The detector starts lazily on first detection.
func (s *CameraSource) Open() error {
	if err := s.camera.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	return nil
}

// NextFrame reads one camera frame and runs face detection on it.
// Camera failures are returned as errors and end the stream; detector
// failures are transient (the MediaPipe service may be restarting) and are
// logged and reported as a no-face frame instead.
func (s *CameraSource) NextFrame() (Frame, error) {
	mat, err := s.camera.ReadFrame()
	if err != nil {
		return Frame{}, err
	}
	defer mat.Close()

	frame := Frame{
		Width:  mat.Cols(),
		Height: mat.Rows(),
	}

	face, err := s.detector.Detect(mat)
	if err != nil {
		log.Printf("face detection failed, treating as no face: %v", err)
		return frame, nil
	}

	frame.Landmarks = face
	return frame, nil
}

// Close releases the detector and the camera.
func (s *CameraSource) Close() error {
	detErr := s.detector.Close()
	camErr := s.camera.Close()
	if camErr != nil {
		return camErr
	}
	return detErr
}
