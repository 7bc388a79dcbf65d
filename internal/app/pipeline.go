package app

import (
	"time"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// run is the acquisition loop. Each iteration reads one frame, processes
// it and publishes the pair. A failed read publishes nothing and the loop
// tries again after ReadRetryDelay.
func (w *Worker) run(stop <-chan struct{}) {
	defer w.teardown(true)

	failing := false

	for {
		select {
		case <-stop:
			return
		default:
		}

		frame, err := w.camera.ReadFrame()
		if err != nil {
			w.readFailures.Add(1)
			if !failing {
				w.log.Warn("frame read failed", "error", err)
				failing = true
			} else {
				w.log.Debug("frame read failed", "error", err)
			}
			if !w.pause(stop, w.config.ReadRetryDelay) {
				return
			}
			continue
		}
		if failing {
			w.log.Info("frame reads recovered")
			failing = false
		}
		w.framesRead.Add(1)

		pair, err := w.process(frame)
		frame.Close()
		if err != nil {
			w.processFailures.Add(1)
			w.log.Warn("frame processing failed", "error", err)
			continue
		}

		w.boxes.publish(pair)
		w.framesPublished.Add(1)
	}
}

// pause waits for d or until stop is closed. It reports false on stop.
func (w *Worker) pause(stop <-chan struct{}, d time.Duration) bool {
	if d <= 0 {
		select {
		case <-stop:
			return false
		default:
			return true
		}
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-stop:
		return false
	case <-timer.C:
		return true
	}
}

// process runs the processor on frame with a single adjustment snapshot
// and copies both results into display images the worker no longer touches.
func (w *Worker) process(frame *gocv.Mat) (Pair, error) {
	capturedAt := time.Now()
	adj := w.adj.Load()

	res, err := w.proc.Process(frame, adj)
	if err != nil {
		return Pair{}, err
	}
	defer res.Processed.Close()

	original, err := frame.ToImage()
	if err != nil {
		return Pair{}, errors.Wrap(err, "convert original")
	}
	processed, err := res.Processed.ToImage()
	if err != nil {
		return Pair{}, errors.Wrap(err, "convert processed")
	}

	return Pair{
		Seq:        w.seq.Add(1),
		Session:    w.session,
		CapturedAt: capturedAt,
		Mode:       w.config.Mode,
		Adjustment: adj,
		Original:   original,
		Processed:  processed,
		Regions:    res.Regions,
	}, nil
}
