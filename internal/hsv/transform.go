package hsv

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// ErrUnsupportedFrame is returned for frames that are not 8-bit, 3-channel.
var ErrUnsupportedFrame = errors.New("frame must be 8-bit 3-channel BGR")

func checkFrame(src gocv.Mat) error {
	if src.Empty() || src.Type() != gocv.MatTypeCV8UC3 {
		return ErrUnsupportedFrame
	}
	return nil
}

// Adjust converts a BGR frame to HSV, applies the adjustment table and
// converts back to BGR into dst. The source is not modified.
func Adjust(src gocv.Mat, dst *gocv.Mat, a Adjustment) error {
	if err := checkFrame(src); err != nil {
		return err
	}

	hsvMat := gocv.NewMat()
	defer hsvMat.Close()
	gocv.CvtColor(src, &hsvMat, gocv.ColorBGRToHSV)

	// CvtColor output is always continuous, so the pointer covers every pixel.
	data, err := hsvMat.DataPtrUint8()
	if err != nil {
		return errors.Wrap(err, "access hsv pixels")
	}
	NewTable(a).ApplyInterleaved(data)

	gocv.CvtColor(hsvMat, dst, gocv.ColorHSVToBGR)
	return nil
}

// Mask writes into dst a 3-channel image that is white where the HSV value
// of src lies inside NewBounds(a) and black elsewhere.
func Mask(src gocv.Mat, dst *gocv.Mat, a Adjustment) error {
	if err := checkFrame(src); err != nil {
		return err
	}

	hsvMat := gocv.NewMat()
	defer hsvMat.Close()
	gocv.CvtColor(src, &hsvMat, gocv.ColorBGRToHSV)

	lower, upper := NewBounds(a).Scalars()
	mask := gocv.NewMat()
	defer mask.Close()
	gocv.InRangeWithScalar(hsvMat, lower, upper, &mask)

	gocv.CvtColor(mask, dst, gocv.ColorGrayToBGR)
	return nil
}
