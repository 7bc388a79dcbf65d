//go:build !linux

package capture

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// NewV4L2Camera creates a Camera for a device node such as /dev/video0.
// V4L2 is only available on Linux; elsewhere Open always fails.
func NewV4L2Camera(path string) Camera {
	return &v4l2Camera{path: path}
}

type v4l2Camera struct {
	path string
}

func (c *v4l2Camera) Open() error {
	return errors.Errorf("v4l2 capture is not supported on this platform (%s)", c.path)
}

func (c *v4l2Camera) Close() error                 { return nil }
func (c *v4l2Camera) ReadFrame() (*gocv.Mat, error) { return nil, ErrCameraNotOpen }
func (c *v4l2Camera) IsOpen() bool                 { return false }
func (c *v4l2Camera) String() string               { return "v4l2:" + c.path }
