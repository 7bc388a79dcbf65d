//go:build linux

package capture

import (
	"sync"

	"github.com/blackjack/webcam"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// formatMJPEG is the V4L2 fourcc for motion JPEG.
const formatMJPEG webcam.PixelFormat = 0x47504A4D

// V4L2 frame geometry requested from the driver.
const (
	V4L2Width  = 640
	V4L2Height = 480
)

// v4l2WaitTimeout is how long ReadFrame waits for the driver, in seconds.
const v4l2WaitTimeout = 1

// v4l2Camera reads MJPEG frames straight from a V4L2 device node and
// decodes them with OpenCV.
type v4l2Camera struct {
	path    string
	cam     *webcam.Webcam
	mu      sync.Mutex
	running bool
}

// NewV4L2Camera creates a Camera for a device node such as /dev/video0.
func NewV4L2Camera(path string) Camera {
	return &v4l2Camera{path: path}
}

func (c *v4l2Camera) Open() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	cam, err := webcam.Open(c.path)
	if err != nil {
		return errors.Wrapf(err, "open %s", c.path)
	}

	if _, ok := cam.GetSupportedFormats()[formatMJPEG]; !ok {
		cam.Close()
		return errors.Errorf("%s does not support MJPEG", c.path)
	}

	if _, _, _, err := cam.SetImageFormat(formatMJPEG, V4L2Width, V4L2Height); err != nil {
		cam.Close()
		return errors.Wrap(err, "set image format")
	}

	if err := cam.StartStreaming(); err != nil {
		cam.Close()
		return errors.Wrap(err, "start streaming")
	}

	c.cam = cam
	c.running = true
	return nil
}

func (c *v4l2Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.cam == nil {
		c.running = false
		return nil
	}

	c.cam.StopStreaming()
	err := c.cam.Close()
	c.cam = nil
	c.running = false
	return err
}

func (c *v4l2Camera) ReadFrame() (*gocv.Mat, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running || c.cam == nil {
		return nil, ErrCameraNotOpen
	}

	err := c.cam.WaitForFrame(v4l2WaitTimeout)
	switch err.(type) {
	case nil:
	case *webcam.Timeout:
		return nil, errors.Wrap(ErrReadFailed, "timed out waiting for frame")
	default:
		return nil, errors.Wrap(err, "frame wait failed")
	}

	data, err := c.cam.ReadFrame()
	if err != nil {
		return nil, errors.Wrap(err, "read frame failed")
	}
	if len(data) == 0 {
		return nil, errors.Wrap(ErrReadFailed, "captured frame is empty")
	}

	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, errors.Wrap(err, "decode frame")
	}
	if mat.Empty() {
		mat.Close()
		return nil, errors.Wrap(ErrReadFailed, "decoded frame is empty")
	}

	return &mat, nil
}

func (c *v4l2Camera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *v4l2Camera) String() string {
	return "v4l2:" + c.path
}
