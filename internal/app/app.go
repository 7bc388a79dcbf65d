// Package app runs the capture worker: it owns the camera and the HSV
// adjustment, processes every frame and publishes original/processed pairs.
package app

import (
	"image"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/ayusman/chromacam/internal/capture"
	"github.com/ayusman/chromacam/internal/detector"
	"github.com/ayusman/chromacam/internal/hsv"
	"github.com/ayusman/chromacam/internal/log"
)

// DefaultReadRetryDelay is the pause after a failed frame read.
const DefaultReadRetryDelay = 50 * time.Millisecond

// Config holds configuration options for a Worker.
type Config struct {
	Mode   Mode
	Camera capture.Camera

	// Detector is used in detect mode. When nil, the cascades in
	// CascadeDir are loaded instead.
	Detector   detector.Detector
	CascadeDir string

	// ReadRetryDelay is the pause after a failed read.
	// Zero means DefaultReadRetryDelay.
	ReadRetryDelay time.Duration
}

// Pair is one published iteration: the original frame and its processed
// counterpart, taken from the same camera frame.
type Pair struct {
	Seq        uint64
	Session    string
	CapturedAt time.Time
	Mode       Mode
	Adjustment hsv.Adjustment
	Original   image.Image
	Processed  image.Image
	Regions    []detector.Region
}

// Stats is a point-in-time view of worker counters.
type Stats struct {
	Session         string `json:"session"`
	Mode            Mode   `json:"mode"`
	Running         bool   `json:"running"`
	Stopped         bool   `json:"stopped"`
	FramesRead      uint64 `json:"frames_read"`
	FramesPublished uint64 `json:"frames_published"`
	ReadFailures    uint64 `json:"read_failures"`
	ProcessFailures uint64 `json:"process_failures"`
	Subscribers     int    `json:"subscribers"`
}

type state int

const (
	stateIdle state = iota
	stateRunning
	stateStopped
)

// Worker acquires frames on its own goroutine until stopped.
type Worker struct {
	config  Config
	camera  capture.Camera
	proc    Processor
	adj     *hsv.Store
	boxes   *mailboxes
	session string
	log     *slog.Logger

	mu     sync.Mutex
	state  state
	stopCh chan struct{}
	done   chan struct{}

	seq             atomic.Uint64
	framesRead      atomic.Uint64
	framesPublished atomic.Uint64
	readFailures    atomic.Uint64
	processFailures atomic.Uint64
}

// NewWorker builds a worker for config. In detect mode it loads the
// cascade models; a missing model yields ErrResourceLoad.
func NewWorker(config Config) (*Worker, error) {
	if config.Camera == nil {
		return nil, errors.New("worker needs a camera")
	}
	if config.Mode == "" {
		config.Mode = ModeDetect
	}
	if config.ReadRetryDelay <= 0 {
		config.ReadRetryDelay = DefaultReadRetryDelay
	}

	det := config.Detector
	if config.Mode == ModeDetect && det == nil {
		cd, err := detector.NewCascadeDetector(detector.DefaultConfig(config.CascadeDir))
		if err != nil {
			return nil, err
		}
		det = cd
	}

	proc, err := NewProcessor(config.Mode, det)
	if err != nil {
		return nil, err
	}

	session := uuid.NewString()
	return &Worker{
		config:  config,
		camera:  config.Camera,
		proc:    proc,
		adj:     hsv.NewStore(config.Mode.DefaultAdjustment()),
		boxes:   newMailboxes(),
		session: session,
		log:     log.Component("worker").With("session", session, "mode", config.Mode),
		done:    make(chan struct{}),
	}, nil
}

// Start opens the camera and launches the acquisition loop.
// Starting a running worker is a no-op.
func (w *Worker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.state {
	case stateRunning:
		return nil
	case stateStopped:
		return ErrStopped
	}

	if err := w.camera.Open(); err != nil {
		w.log.Error("camera unavailable", "camera", w.camera.String(), "error", err)
		return errors.Wrapf(ErrDeviceUnavailable, "%s: %v", w.camera, err)
	}

	w.stopCh = make(chan struct{})
	w.state = stateRunning
	go w.run(w.stopCh)

	w.log.Info("capture started", "camera", w.camera.String())
	return nil
}

// Stop ends the loop and blocks until the current iteration has finished,
// the camera has been released and the processor closed. Subscriber
// channels are closed and Done is signalled. Safe to call repeatedly.
func (w *Worker) Stop() {
	w.mu.Lock()
	switch w.state {
	case stateIdle:
		w.state = stateStopped
		w.mu.Unlock()
		w.teardown(false)
		return
	case stateRunning:
		w.state = stateStopped
		close(w.stopCh)
	}
	w.mu.Unlock()

	<-w.done
}

// Done is closed once the worker has fully stopped.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Update replaces the HSV adjustment. Values are clamped to their domains.
// The change applies from the next iteration.
func (w *Worker) Update(hue, saturation, value int) hsv.Adjustment {
	a := w.adj.Set(hsv.Adjustment{Hue: hue, Saturation: saturation, Value: value})
	w.log.Debug("adjustment updated", "adjustment", a.String())
	return a
}

// Adjustment returns the current HSV adjustment.
func (w *Worker) Adjustment() hsv.Adjustment {
	return w.adj.Load()
}

// Subscribe registers a consumer of published pairs. The channel holds at
// most one pending pair and is closed when the worker stops or the returned
// cancel func is called.
func (w *Worker) Subscribe() (<-chan Pair, func()) {
	return w.boxes.subscribe()
}

// Mode returns the worker's processing mode.
func (w *Worker) Mode() Mode {
	return w.config.Mode
}

// Session identifies this worker run.
func (w *Worker) Session() string {
	return w.session
}

// Running reports whether the loop is active.
func (w *Worker) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state == stateRunning
}

// Stats returns the worker counters.
func (w *Worker) Stats() Stats {
	w.mu.Lock()
	st := w.state
	w.mu.Unlock()

	return Stats{
		Session:         w.session,
		Mode:            w.config.Mode,
		Running:         st == stateRunning,
		Stopped:         st == stateStopped,
		FramesRead:      w.framesRead.Load(),
		FramesPublished: w.framesPublished.Load(),
		ReadFailures:    w.readFailures.Load(),
		ProcessFailures: w.processFailures.Load(),
		Subscribers:     w.boxes.count(),
	}
}

// teardown releases everything the worker owns. It runs exactly once,
// either from the loop on exit or from Stop on a never-started worker.
func (w *Worker) teardown(cameraOpen bool) {
	if cameraOpen {
		if err := w.camera.Close(); err != nil {
			w.log.Error("error closing camera", "error", err)
		}
	}
	if err := w.proc.Close(); err != nil {
		w.log.Error("error closing processor", "error", err)
	}
	w.boxes.close()
	close(w.done)
	w.log.Info("capture stopped",
		"frames_read", w.framesRead.Load(),
		"frames_published", w.framesPublished.Load(),
		"read_failures", w.readFailures.Load())
}
