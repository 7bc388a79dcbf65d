package detector

import (
	"image/color"

	"gocv.io/x/gocv"
)

// Overlay colours and stroke width.
var (
	FaceColor = color.RGBA{R: 0, G: 0, B: 255, A: 0}
	EyeColor  = color.RGBA{R: 0, G: 255, B: 0, A: 0}
)

// OverlayThickness is the rectangle stroke width in pixels.
const OverlayThickness = 2

// Annotate draws a rectangle around every face and eye onto frame.
func Annotate(frame *gocv.Mat, faces []Face) {
	for _, f := range faces {
		gocv.Rectangle(frame, f.Bounds, FaceColor, OverlayThickness)
		for _, e := range f.Eyes {
			gocv.Rectangle(frame, e, EyeColor, OverlayThickness)
		}
	}
}
