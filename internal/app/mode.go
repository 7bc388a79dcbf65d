package app

import (
	"github.com/ayusman/chromacam/internal/hsv"
	"github.com/pkg/errors"
)

// Mode selects what the processed pane shows.
type Mode string

const (
	// ModeDetect overlays face/eye detection and applies the HSV adjustment.
	ModeDetect Mode = "detect"
	// ModeMask shows the pixels whose HSV value lies inside the adjustment window.
	ModeMask Mode = "mask"
)

// ParseMode converts a mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDetect, ModeMask:
		return Mode(s), nil
	}
	return "", errors.Errorf("unknown mode %q", s)
}

// DefaultAdjustment is the adjustment a worker starts with.
func (m Mode) DefaultAdjustment() hsv.Adjustment {
	if m == ModeMask {
		return hsv.Adjustment{}
	}
	return hsv.Neutral
}

// Sliders describes the three controls for this mode.
func (m Mode) Sliders() []hsv.Slider {
	if m == ModeMask {
		return hsv.Sliders(1, 1, 1)
	}
	return hsv.Sliders(3, 10, 5)
}
