package app

import (
	"image"
	"image/color"
	"testing"
	"time"

	"gocv.io/x/gocv"
)

// hsvFrame builds a BGR frame whose every pixel converts from the given HSV.
func hsvFrame(t *testing.T, rows, cols int, h, s, v uint8) gocv.Mat {
	t.Helper()

	data := make([]byte, rows*cols*3)
	for i := 0; i < len(data); i += 3 {
		data[i], data[i+1], data[i+2] = h, s, v
	}
	src, err := gocv.NewMatFromBytes(rows, cols, gocv.MatTypeCV8UC3, data)
	if err != nil {
		t.Fatalf("NewMatFromBytes() error = %v", err)
	}
	defer src.Close()

	bgr := gocv.NewMat()
	gocv.CvtColor(src, &bgr, gocv.ColorHSVToBGR)
	return bgr
}

func recvPair(t *testing.T, ch <-chan Pair) Pair {
	t.Helper()

	select {
	case p, ok := <-ch:
		if !ok {
			t.Fatal("pair channel closed")
		}
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a pair")
	}
	return Pair{}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func rgbaAt(img image.Image, x, y int) color.RGBA {
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}
