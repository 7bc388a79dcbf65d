package display

import (
	"context"
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/ayusman/chromacam/internal/app"
	"github.com/ayusman/chromacam/internal/hsv"
)

// Keys that cancel capture. The window stays open on the frozen pair.
const (
	keyCancel = 'q'
	keyEsc    = 27
)

// pollDelayMs is how long each WaitKey call pumps HighGUI events.
const pollDelayMs = 10

// Window renders pairs side by side in a native OpenCV window with one
// trackbar per HSV channel.
type Window struct {
	sink    *Sink
	title   string
	pending chan app.Pair
}

// NewWindow creates a window renderer bound to sink. Register it with
// sink.AddRenderer and drive it with Run.
func NewWindow(sink *Sink, title string) *Window {
	return &Window{
		sink:    sink,
		title:   title,
		pending: make(chan app.Pair, 1),
	}
}

// Render queues p for the next paint, replacing an unpainted pair.
func (w *Window) Render(p app.Pair) {
	select {
	case w.pending <- p:
		return
	default:
	}
	select {
	case <-w.pending:
	default:
	}
	select {
	case w.pending <- p:
	default:
	}
}

// Run owns the HighGUI event loop and returns when the window is closed
// or ctx is done. HighGUI requires this to run on
// the main goroutine on some platforms.
func (w *Window) Run(ctx context.Context) error {
	win := gocv.NewWindow(w.title)
	defer win.Close()

	sliders := w.sink.Sliders()
	adj := w.sink.Adjustment()
	current := [3]int{adj.Hue, adj.Saturation, adj.Value}

	bars := make([]*gocv.Trackbar, len(sliders))
	for i, s := range sliders {
		bars[i] = win.CreateTrackbar(s.Name, s.Max)
		bars[i].SetPos(current[i])
	}

	canvas := gocv.NewMat()
	defer canvas.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case p := <-w.pending:
			if err := composeInto(&canvas, p); err != nil {
				w.sink.log.Warn("window paint failed", "error", err)
			} else {
				win.IMShow(canvas)
			}
		default:
		}

		switch win.WaitKey(pollDelayMs) {
		case keyCancel, keyEsc:
			w.sink.Cancel()
		}

		if win.GetWindowProperty(gocv.WindowPropertyVisible) < 1 {
			return nil
		}

		var pos [3]int
		for i, b := range bars {
			pos[i] = b.GetPos()
		}
		if next, changed := trackbarChange(current, pos); changed {
			current = next
			w.sink.SetHSV(pos[0], pos[1], pos[2])
		}
	}
}

// trackbarChange reports whether the trackbar positions moved.
func trackbarChange(prev, pos [3]int) ([3]int, bool) {
	if prev == pos {
		return prev, false
	}
	a := hsv.Adjustment{Hue: pos[0], Saturation: pos[1], Value: pos[2]}.Clamp()
	return [3]int{a.Hue, a.Saturation, a.Value}, true
}

// composeInto writes the original and processed panes next to each other.
func composeInto(dst *gocv.Mat, p app.Pair) error {
	left, err := toMat(p.Original)
	if err != nil {
		return errors.Wrap(err, "original pane")
	}
	defer left.Close()

	right, err := toMat(p.Processed)
	if err != nil {
		return errors.Wrap(err, "processed pane")
	}
	defer right.Close()

	if left.Rows() != right.Rows() {
		return errors.Errorf("pane heights differ: %d vs %d", left.Rows(), right.Rows())
	}

	gocv.Hconcat(left, right, dst)
	return nil
}

func toMat(img image.Image) (gocv.Mat, error) {
	if img == nil {
		return gocv.NewMat(), errors.New("missing image")
	}
	return gocv.ImageToMatRGB(img)
}
