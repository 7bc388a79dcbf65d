package app

import (
	"github.com/ayusman/chromacam/internal/detector"
	"github.com/pkg/errors"
)

var (
	// ErrDeviceUnavailable is returned by Start when the camera cannot be opened.
	ErrDeviceUnavailable = errors.New("camera device unavailable")

	// ErrResourceLoad is returned by NewWorker when detection models are missing.
	ErrResourceLoad = detector.ErrModelLoad

	// ErrStopped is returned when starting a worker that was already stopped.
	ErrStopped = errors.New("worker already stopped")
)
