package detector

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu     sync.Mutex
	faces  []Face
	err    error
	calls  int
	closes int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetFaces sets the faces that will be returned by Detect.
func (m *MockDetector) SetFaces(faces []Face) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faces = faces
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the pre-configured faces or error.
func (m *MockDetector) Detect(gray gocv.Mat) ([]Face, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.faces, nil
}

// Calls returns how many times Detect was invoked.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Close records the call.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closes++
	return nil
}

// Closes returns how many times Close was invoked.
func (m *MockDetector) Closes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closes
}

// CenteredFace returns a face in the middle of a width x height frame with
// two eyes in its upper half.
func CenteredFace(width, height int) Face {
	w, h := width/3, height/3
	x, y := (width-w)/2, (height-h)/2
	eyeW, eyeH := w/4, h/5
	return Face{
		Bounds: image.Rect(x, y, x+w, y+h),
		Eyes: []image.Rectangle{
			image.Rect(x+w/8, y+h/4, x+w/8+eyeW, y+h/4+eyeH),
			image.Rect(x+w-w/8-eyeW, y+h/4, x+w-w/8, y+h/4+eyeH),
		},
	}
}
