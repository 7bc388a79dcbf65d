// Package hsv holds the HSV adjustment record shared between the display
// and the capture loop, and the per-frame colour transforms built on it.
package hsv

import (
	"fmt"

	"github.com/pkg/errors"
)

// Channel domains, matching OpenCV's 8-bit HSV encoding.
const (
	HueMax        = 179
	SaturationMax = 255
	ValueMax      = 255
)

// ErrInvalidAdjustment reports an adjustment with a channel outside its domain.
var ErrInvalidAdjustment = errors.New("hsv adjustment out of range")

// Adjustment is the user-controlled HSV triple.
//
// In detect mode Hue is an offset added to every pixel and Saturation/Value
// are scale factors expressed in 255ths. In mask mode the triple is the
// centre of the accepted colour window.
type Adjustment struct {
	Hue        int `json:"hue"`
	Saturation int `json:"saturation"`
	Value      int `json:"value"`
}

// Neutral leaves pixels unchanged in detect mode.
var Neutral = Adjustment{Hue: 0, Saturation: SaturationMax, Value: ValueMax}

// Clamp returns a copy with every channel forced into its domain.
func (a Adjustment) Clamp() Adjustment {
	return Adjustment{
		Hue:        clamp(a.Hue, 0, HueMax),
		Saturation: clamp(a.Saturation, 0, SaturationMax),
		Value:      clamp(a.Value, 0, ValueMax),
	}
}

// Validate returns ErrInvalidAdjustment if any channel is out of its domain.
func (a Adjustment) Validate() error {
	if a != a.Clamp() {
		return errors.Wrapf(ErrInvalidAdjustment, "%s", a)
	}
	return nil
}

func (a Adjustment) String() string {
	return fmt.Sprintf("h=%d s=%d v=%d", a.Hue, a.Saturation, a.Value)
}

// Slider describes one user control bound to a channel.
type Slider struct {
	Name string `json:"name"`
	Min  int    `json:"min"`
	Max  int    `json:"max"`
	Tick int    `json:"tick"`
}

// Sliders returns the three channel controls with the given tick intervals.
func Sliders(hueTick, satTick, valTick int) []Slider {
	return []Slider{
		{Name: "Hue", Min: 0, Max: HueMax, Tick: hueTick},
		{Name: "Saturation", Min: 0, Max: SaturationMax, Tick: satTick},
		{Name: "Value", Min: 0, Max: ValueMax, Tick: valTick},
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
