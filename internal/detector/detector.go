// Package detector finds faces and eyes in video frames and draws the
// detection overlay.
package detector

import (
	"image"

	"gocv.io/x/gocv"
)

// Detector defines the interface for face detection implementations.
type Detector interface {
	// Detect analyzes a single-channel intensity frame and returns the
	// faces found, each with the eyes found inside it. Returns an empty
	// slice if nothing is detected.
	Detect(gray gocv.Mat) ([]Face, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Face is a detected face and the eyes detected within it.
// All rectangles are in frame coordinates.
type Face struct {
	Bounds image.Rectangle
	Eyes   []image.Rectangle
}

// Config holds configuration options for cascade detection.
type Config struct {
	// CascadeDir is the directory holding the pretrained cascade files.
	CascadeDir string

	// FaceModel and EyeModel are file names inside CascadeDir.
	FaceModel string
	EyeModel  string

	// FaceScaleFactor and FaceMinNeighbors tune the face pass.
	FaceScaleFactor  float64
	FaceMinNeighbors int

	// EyeScaleFactor and EyeMinNeighbors tune the eye pass inside each face.
	EyeScaleFactor  float64
	EyeMinNeighbors int
}

// DefaultConfig returns the detection parameters for the given cascade directory.
func DefaultConfig(cascadeDir string) Config {
	return Config{
		CascadeDir:       cascadeDir,
		FaceModel:        "haarcascade_frontalface_default.xml",
		EyeModel:         "haarcascade_eye.xml",
		FaceScaleFactor:  1.1,
		FaceMinNeighbors: 5,
		EyeScaleFactor:   1.1,
		EyeMinNeighbors:  3,
	}
}
