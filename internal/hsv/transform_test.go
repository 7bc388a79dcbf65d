package hsv

import (
	"bytes"
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

// gradientFrame builds a deterministic BGR frame covering many hues.
func gradientFrame(t *testing.T, rows, cols int) gocv.Mat {
	t.Helper()

	data := make([]byte, rows*cols*3)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			i := (r*cols + c) * 3
			data[i] = byte(c * 255 / cols)
			data[i+1] = byte(r * 255 / rows)
			data[i+2] = byte((r + c) * 7)
		}
	}

	m, err := gocv.NewMatFromBytes(rows, cols, gocv.MatTypeCV8UC3, data)
	if err != nil {
		t.Fatalf("NewMatFromBytes() error = %v", err)
	}
	return m
}

// hsvPixel builds a one-pixel BGR frame whose HSV value is close to (h, s, v).
func hsvPixel(t *testing.T, h, s, v uint8) gocv.Mat {
	t.Helper()

	src, err := gocv.NewMatFromBytes(1, 1, gocv.MatTypeCV8UC3, []byte{h, s, v})
	if err != nil {
		t.Fatalf("NewMatFromBytes() error = %v", err)
	}
	defer src.Close()

	bgr := gocv.NewMat()
	gocv.CvtColor(src, &bgr, gocv.ColorHSVToBGR)
	return bgr
}

func TestAdjust_NeutralEqualsRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := gradientFrame(t, 48, 64)
	defer frame.Close()

	// BGR -> HSV -> BGR with no adjustment
	hsvMat := gocv.NewMat()
	defer hsvMat.Close()
	gocv.CvtColor(frame, &hsvMat, gocv.ColorBGRToHSV)
	roundTrip := gocv.NewMat()
	defer roundTrip.Close()
	gocv.CvtColor(hsvMat, &roundTrip, gocv.ColorHSVToBGR)

	out := gocv.NewMat()
	defer out.Close()
	if err := Adjust(frame, &out, Neutral); err != nil {
		t.Fatalf("Adjust() error = %v", err)
	}

	if !bytes.Equal(out.ToBytes(), roundTrip.ToBytes()) {
		t.Error("neutral adjustment should equal the plain colour-space round trip")
	}
}

func TestAdjust_Deterministic(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := gradientFrame(t, 32, 32)
	defer frame.Close()
	adj := Adjustment{Hue: 37, Saturation: 120, Value: 200}

	first := gocv.NewMat()
	defer first.Close()
	second := gocv.NewMat()
	defer second.Close()

	if err := Adjust(frame, &first, adj); err != nil {
		t.Fatalf("Adjust() error = %v", err)
	}
	if err := Adjust(frame, &second, adj); err != nil {
		t.Fatalf("Adjust() error = %v", err)
	}

	if !bytes.Equal(first.ToBytes(), second.ToBytes()) {
		t.Error("Adjust() should be bit-identical across runs")
	}
}

func TestAdjust_HueShiftClampsAt179(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := gradientFrame(t, 16, 16)
	defer frame.Close()

	out := gocv.NewMat()
	defer out.Close()
	if err := Adjust(frame, &out, Adjustment{Hue: 179, Saturation: 255, Value: 255}); err != nil {
		t.Fatalf("Adjust() error = %v", err)
	}

	// Every adjusted pixel decodes back to the top of the hue range, or to
	// an achromatic pixel whose hue OpenCV reports as 0.
	hsvOut := gocv.NewMat()
	defer hsvOut.Close()
	gocv.CvtColor(out, &hsvOut, gocv.ColorBGRToHSV)
	data := hsvOut.ToBytes()
	for i := 0; i < len(data); i += 3 {
		if data[i] > HueMax {
			t.Fatalf("pixel %d hue = %d, exceeds %d", i/3, data[i], HueMax)
		}
	}
}

func TestAdjust_RejectsUnsupportedFrames(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	gray := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC1)
	defer gray.Close()
	out := gocv.NewMat()
	defer out.Close()

	if err := Adjust(gray, &out, Neutral); !errors.Is(err, ErrUnsupportedFrame) {
		t.Errorf("Adjust(gray) error = %v, want ErrUnsupportedFrame", err)
	}

	empty := gocv.NewMat()
	defer empty.Close()
	if err := Mask(empty, &out, Neutral); !errors.Is(err, ErrUnsupportedFrame) {
		t.Errorf("Mask(empty) error = %v, want ErrUnsupportedFrame", err)
	}
}

func TestMask_Classification(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	adj := Adjustment{Hue: 60, Saturation: 100, Value: 100}

	tests := []struct {
		name    string
		h, s, v uint8
		want    uint8
	}{
		{"inside window", 60, 100, 100, 255},
		{"saturation outside window", 60, 200, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := hsvPixel(t, tt.h, tt.s, tt.v)
			defer src.Close()

			out := gocv.NewMat()
			defer out.Close()
			if err := Mask(src, &out, adj); err != nil {
				t.Fatalf("Mask() error = %v", err)
			}

			if out.Channels() != 3 {
				t.Fatalf("mask channels = %d, want 3", out.Channels())
			}
			px := out.ToBytes()
			for c := 0; c < 3; c++ {
				if px[c] != tt.want {
					t.Errorf("mask channel %d = %d, want %d", c, px[c], tt.want)
				}
			}
		})
	}
}
