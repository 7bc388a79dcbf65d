package hsv

import "gocv.io/x/gocv"

// Mask window half-widths around the adjustment centre.
const (
	HueWindow        = 10
	SaturationWindow = 50
	ValueWindow      = 50
)

// boundMax is applied to every channel, hue included. Hue bounds can
// therefore exceed 179; OpenCV never produces such hues so the upper
// bound simply never binds there.
const boundMax = 255

// Bounds is the inclusive per-channel range used to build a mask.
type Bounds struct {
	Lower [3]int `json:"lower"`
	Upper [3]int `json:"upper"`
}

// NewBounds computes the mask window centred on a.
func NewBounds(a Adjustment) Bounds {
	return Bounds{
		Lower: [3]int{
			clamp(a.Hue-HueWindow, 0, boundMax),
			clamp(a.Saturation-SaturationWindow, 0, boundMax),
			clamp(a.Value-ValueWindow, 0, boundMax),
		},
		Upper: [3]int{
			clamp(a.Hue+HueWindow, 0, boundMax),
			clamp(a.Saturation+SaturationWindow, 0, boundMax),
			clamp(a.Value+ValueWindow, 0, boundMax),
		},
	}
}

// Contains reports whether an HSV pixel falls inside the bounds.
func (b Bounds) Contains(h, s, v uint8) bool {
	px := [3]int{int(h), int(s), int(v)}
	for i := range px {
		if px[i] < b.Lower[i] || px[i] > b.Upper[i] {
			return false
		}
	}
	return true
}

// Scalars returns the bounds in the form gocv.InRangeWithScalar expects.
func (b Bounds) Scalars() (lower, upper gocv.Scalar) {
	lower = gocv.NewScalar(float64(b.Lower[0]), float64(b.Lower[1]), float64(b.Lower[2]), 0)
	upper = gocv.NewScalar(float64(b.Upper[0]), float64(b.Upper[1]), float64(b.Upper[2]), 0)
	return lower, upper
}
