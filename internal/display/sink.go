// Package display owns the viewer state: it starts the capture worker,
// relays slider changes to it and hands published pairs to renderers.
package display

import (
	"log/slog"
	"sync"

	"github.com/ayusman/chromacam/internal/app"
	"github.com/ayusman/chromacam/internal/hsv"
	"github.com/ayusman/chromacam/internal/log"
)

// Worker is the part of app.Worker the sink drives.
type Worker interface {
	Start() error
	Stop()
	Done() <-chan struct{}
	Update(hue, saturation, value int) hsv.Adjustment
	Adjustment() hsv.Adjustment
	Subscribe() (<-chan app.Pair, func())
	Mode() app.Mode
	Stats() app.Stats
}

// Renderer paints a pair. Render runs on the sink's delivery goroutine and
// must return quickly.
type Renderer interface {
	Render(p app.Pair)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(p app.Pair)

// Render calls f(p).
func (f RendererFunc) Render(p app.Pair) { f(p) }

// Sink keeps the latest pair and forwards user input to the worker.
type Sink struct {
	worker Worker
	log    *slog.Logger

	mu        sync.RWMutex
	renderers []Renderer
	latest    app.Pair
	hasPair   bool
	started   bool
	cancelSub func()
	delivered chan struct{}
}

// NewSink creates a sink for worker. Renderers may also be added later
// with AddRenderer.
func NewSink(worker Worker, renderers ...Renderer) *Sink {
	return &Sink{
		worker:    worker,
		renderers: renderers,
		log:       log.Component("display"),
		delivered: make(chan struct{}),
	}
}

// AddRenderer registers r for subsequent pairs.
func (s *Sink) AddRenderer(r Renderer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderers = append(s.renderers, r)
}

// Start subscribes to the worker and starts it. Only the first call has
// any effect.
func (s *Sink) Start() error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	ch, cancel := s.worker.Subscribe()
	s.cancelSub = cancel
	s.mu.Unlock()

	go s.deliver(ch)

	if err := s.worker.Start(); err != nil {
		cancel()
		return err
	}
	return nil
}

// deliver drains the subscription until the worker closes it.
func (s *Sink) deliver(ch <-chan app.Pair) {
	defer close(s.delivered)

	for p := range ch {
		s.mu.Lock()
		s.latest = p
		s.hasPair = true
		renderers := append([]Renderer(nil), s.renderers...)
		s.mu.Unlock()

		for _, r := range renderers {
			r.Render(p)
		}
	}
	s.log.Debug("pair delivery ended")
}

// SetHSV clamps the slider values to their ranges and applies them.
func (s *Sink) SetHSV(hue, saturation, value int) hsv.Adjustment {
	a := hsv.Adjustment{Hue: hue, Saturation: saturation, Value: value}.Clamp()
	return s.worker.Update(a.Hue, a.Saturation, a.Value)
}

// Adjustment returns the worker's current adjustment.
func (s *Sink) Adjustment() hsv.Adjustment {
	return s.worker.Adjustment()
}

// Sliders describes the controls for the worker's mode.
func (s *Sink) Sliders() []hsv.Slider {
	return s.worker.Mode().Sliders()
}

// Mode returns the worker's processing mode.
func (s *Sink) Mode() app.Mode {
	return s.worker.Mode()
}

// Stats returns the worker counters.
func (s *Sink) Stats() app.Stats {
	return s.worker.Stats()
}

// Cancel stops the worker. The last pair stays available through Latest.
func (s *Sink) Cancel() {
	s.log.Info("capture cancelled")
	s.worker.Stop()
}

// Stopped is closed when the worker has stopped.
func (s *Sink) Stopped() <-chan struct{} {
	return s.worker.Done()
}

// Latest returns the most recent pair, if any has arrived.
func (s *Sink) Latest() (app.Pair, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.hasPair
}

// Close cancels capture and waits for pair delivery to finish.
func (s *Sink) Close() {
	s.worker.Stop()

	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if started {
		<-s.delivered
	}
}
