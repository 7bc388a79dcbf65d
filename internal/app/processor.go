package app

import (
	"github.com/ayusman/chromacam/internal/detector"
	"github.com/ayusman/chromacam/internal/hsv"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Result is the per-frame output of a Processor.
type Result struct {
	// Processed is owned by the caller, who must close it.
	Processed gocv.Mat
	Regions   []detector.Region
}

// Processor derives the processed image from a camera frame.
type Processor interface {
	// Process may draw on frame; whatever frame holds afterwards is what
	// gets published as the original image.
	Process(frame *gocv.Mat, adj hsv.Adjustment) (Result, error)
	Close() error
}

// NewProcessor returns the processor for mode. Detect mode requires det.
func NewProcessor(mode Mode, det detector.Detector) (Processor, error) {
	switch mode {
	case ModeDetect:
		if det == nil {
			return nil, errors.Wrap(ErrResourceLoad, "detect mode needs a detector")
		}
		return &detectProcessor{detector: det}, nil
	case ModeMask:
		return maskProcessor{}, nil
	}
	return nil, errors.Errorf("unknown mode %q", mode)
}

// detectProcessor draws the face/eye overlay onto the frame, then applies
// the HSV adjustment to the annotated frame. Both panes show the overlay.
type detectProcessor struct {
	detector detector.Detector
}

func (p *detectProcessor) Process(frame *gocv.Mat, adj hsv.Adjustment) (Result, error) {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)

	faces, err := p.detector.Detect(gray)
	if err != nil {
		return Result{}, errors.Wrap(err, "detect faces")
	}
	detector.Annotate(frame, faces)

	processed := gocv.NewMat()
	if err := hsv.Adjust(*frame, &processed, adj); err != nil {
		processed.Close()
		return Result{}, errors.Wrap(err, "adjust hsv")
	}

	return Result{Processed: processed, Regions: detector.Regions(faces)}, nil
}

func (p *detectProcessor) Close() error {
	return p.detector.Close()
}

// maskProcessor leaves the frame untouched and renders the HSV range mask.
type maskProcessor struct{}

func (maskProcessor) Process(frame *gocv.Mat, adj hsv.Adjustment) (Result, error) {
	processed := gocv.NewMat()
	if err := hsv.Mask(*frame, &processed, adj); err != nil {
		processed.Close()
		return Result{}, errors.Wrap(err, "build mask")
	}
	return Result{Processed: processed}, nil
}

func (maskProcessor) Close() error { return nil }
