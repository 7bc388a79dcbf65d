// Package config holds the runtime configuration for chromacam.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Processing modes.
const (
	ModeDetect = "detect"
	ModeMask   = "mask"
)

// Camera backends.
const (
	BackendGoCV = "gocv"
	BackendV4L2 = "v4l2"
)

// Display surfaces.
const (
	DisplayHTTP   = "http"
	DisplayWindow = "window"
	DisplayBoth   = "both"
)

// Defaults.
const (
	DefaultCascadeDir     = "/usr/share/opencv4/haarcascades"
	DefaultAddr           = "127.0.0.1:8080"
	DefaultV4L2Device     = "/dev/video0"
	DefaultReadRetryDelay = 50 * time.Millisecond
)

// Config holds configuration options for the application.
type Config struct {
	Mode           string
	Backend        string
	Device         int
	DevicePath     string
	CascadeDir     string
	Addr           string
	WebDir         string
	Display        string
	Tray           bool
	LogLevel       string
	ReadRetryDelay time.Duration
}

// Default returns a Config with every field at its default.
func Default() Config {
	return Config{
		Mode:           ModeDetect,
		Backend:        BackendGoCV,
		Device:         0,
		DevicePath:     DefaultV4L2Device,
		CascadeDir:     DefaultCascadeDir,
		Addr:           DefaultAddr,
		Display:        DisplayHTTP,
		LogLevel:       "info",
		ReadRetryDelay: DefaultReadRetryDelay,
	}
}

// FromEnv overlays CHROMACAM_* environment variables onto c.
// Malformed numeric values are reported and leave the field unchanged.
func (c Config) FromEnv(getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}

	str("CHROMACAM_MODE", &c.Mode)
	str("CHROMACAM_BACKEND", &c.Backend)
	str("CHROMACAM_DEVICE_PATH", &c.DevicePath)
	str("CHROMACAM_CASCADE_DIR", &c.CascadeDir)
	str("CHROMACAM_ADDR", &c.Addr)
	str("CHROMACAM_WEB_DIR", &c.WebDir)
	str("CHROMACAM_DISPLAY", &c.Display)
	str("CHROMACAM_LOG_LEVEL", &c.LogLevel)

	if v := getenv("CHROMACAM_DEVICE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, errors.Wrapf(err, "CHROMACAM_DEVICE=%q", v)
		}
		c.Device = n
	}

	if v := getenv("CHROMACAM_TRAY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return c, errors.Wrapf(err, "CHROMACAM_TRAY=%q", v)
		}
		c.Tray = b
	}

	if v := getenv("CHROMACAM_READ_RETRY_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return c, errors.Wrapf(err, "CHROMACAM_READ_RETRY_DELAY=%q", v)
		}
		c.ReadRetryDelay = d
	}

	return c, nil
}

// Validate checks enumerated fields and ranges.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeDetect, ModeMask:
	default:
		return errors.Errorf("unknown mode %q (want %s or %s)", c.Mode, ModeDetect, ModeMask)
	}

	switch c.Backend {
	case BackendGoCV:
		if c.Device < 0 {
			return errors.Errorf("device index must be >= 0, got %d", c.Device)
		}
	case BackendV4L2:
		if c.DevicePath == "" {
			return errors.New("v4l2 backend needs a device path")
		}
	default:
		return errors.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendGoCV, BackendV4L2)
	}

	switch c.Display {
	case DisplayHTTP, DisplayWindow, DisplayBoth:
	default:
		return errors.Errorf("unknown display %q", c.Display)
	}

	if c.ServesHTTP() && c.Addr == "" {
		return errors.New("http display needs a listen address")
	}

	if c.Mode == ModeDetect && c.CascadeDir == "" {
		return errors.New("detect mode needs a cascade directory")
	}

	if c.ReadRetryDelay < 0 {
		return errors.Errorf("read retry delay must not be negative, got %s", c.ReadRetryDelay)
	}

	return nil
}

// ServesHTTP reports whether the HTTP viewer should run.
func (c Config) ServesHTTP() bool {
	return c.Display == DisplayHTTP || c.Display == DisplayBoth
}

// ShowsWindow reports whether the native window should open.
func (c Config) ShowsWindow() bool {
	return c.Display == DisplayWindow || c.Display == DisplayBoth
}
