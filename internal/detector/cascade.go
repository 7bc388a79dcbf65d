package detector

import (
	"image"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// ErrModelLoad is returned when a cascade model cannot be read.
var ErrModelLoad = errors.New("cascade model could not be loaded")

// CascadeDetector implements Detector with two Haar cascade classifiers.
type CascadeDetector struct {
	config Config
	face   gocv.CascadeClassifier
	eye    gocv.CascadeClassifier
	mu     sync.Mutex
	closed bool
}

// NewCascadeDetector loads the face and eye models named in config.
func NewCascadeDetector(config Config) (*CascadeDetector, error) {
	facePath := filepath.Join(config.CascadeDir, config.FaceModel)
	eyePath := filepath.Join(config.CascadeDir, config.EyeModel)

	for _, p := range []string{facePath, eyePath} {
		if _, err := os.Stat(p); err != nil {
			return nil, errors.Wrapf(ErrModelLoad, "%s: %v", p, err)
		}
	}

	d := &CascadeDetector{
		config: config,
		face:   gocv.NewCascadeClassifier(),
		eye:    gocv.NewCascadeClassifier(),
	}

	if !d.face.Load(facePath) {
		d.Close()
		return nil, errors.Wrapf(ErrModelLoad, "%s", facePath)
	}
	if !d.eye.Load(eyePath) {
		d.Close()
		return nil, errors.Wrapf(ErrModelLoad, "%s", eyePath)
	}

	return d, nil
}

// Detect runs the face pass over the whole frame and the eye pass inside
// each face.
func (d *CascadeDetector) Detect(gray gocv.Mat) ([]Face, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, errors.New("detector is closed")
	}
	if gray.Empty() || gray.Channels() != 1 {
		return nil, errors.New("detector expects a single-channel frame")
	}

	rects := d.face.DetectMultiScaleWithParams(gray,
		d.config.FaceScaleFactor, d.config.FaceMinNeighbors, 0,
		image.Point{}, image.Point{})

	bounds := image.Rect(0, 0, gray.Cols(), gray.Rows())
	faces := make([]Face, 0, len(rects))
	for _, r := range rects {
		r = r.Intersect(bounds)
		if r.Empty() {
			continue
		}

		roi := gray.Region(r)
		eyes := d.eye.DetectMultiScaleWithParams(roi,
			d.config.EyeScaleFactor, d.config.EyeMinNeighbors, 0,
			image.Point{}, image.Point{})
		roi.Close()

		// Eye rectangles come back relative to the face
		for i := range eyes {
			eyes[i] = eyes[i].Add(r.Min)
		}

		faces = append(faces, Face{Bounds: r, Eyes: eyes})
	}

	return faces, nil
}

// Close releases both classifiers. Safe to call more than once.
func (d *CascadeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	d.face.Close()
	d.eye.Close()
	return nil
}
