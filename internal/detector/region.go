package detector

import "image"

// Kind identifies what a Region outlines.
type Kind string

const (
	KindFace Kind = "face"
	KindEye  Kind = "eye"
)

// Region is one detection rectangle, flattened for reporting.
type Region struct {
	Kind   Kind `json:"kind"`
	X      int  `json:"x"`
	Y      int  `json:"y"`
	Width  int  `json:"width"`
	Height int  `json:"height"`
}

// Rect returns the region as an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

func newRegion(kind Kind, r image.Rectangle) Region {
	return Region{Kind: kind, X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Regions flattens faces into a list where each face is followed by its eyes.
func Regions(faces []Face) []Region {
	if len(faces) == 0 {
		return nil
	}

	regions := make([]Region, 0, len(faces)*3)
	for _, f := range faces {
		regions = append(regions, newRegion(KindFace, f.Bounds))
		for _, e := range f.Eyes {
			regions = append(regions, newRegion(KindEye, e))
		}
	}
	return regions
}
