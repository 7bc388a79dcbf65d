package server

import (
	"fmt"
	"image"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/ayusman/chromacam/internal/app"
)

// Pane names one half of a published pair.
type Pane string

const (
	PaneOriginal  Pane = "original"
	PaneProcessed Pane = "processed"
)

// streamInterval paces MJPEG polling, about 15 FPS.
const streamInterval = 66 * time.Millisecond

// parsePane extracts the pane from a path such as /api/frame/original.
func parsePane(path, prefix string) (Pane, bool) {
	switch p := Pane(strings.TrimPrefix(path, prefix)); p {
	case PaneOriginal, PaneProcessed:
		return p, true
	}
	return "", false
}

// Image selects the pane's image from pair.
func (p Pane) Image(pair app.Pair) image.Image {
	if p == PaneOriginal {
		return pair.Original
	}
	return pair.Processed
}

// encodeJPEG compresses img through OpenCV.
func encodeJPEG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, errors.New("no image")
	}
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, errors.Wrap(err, "convert image")
	}
	defer mat.Close()

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, mat)
	if err != nil {
		return nil, errors.Wrap(err, "encode jpeg")
	}
	defer buf.Close()

	// The native buffer is freed on Close.
	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}

// FrameHandler serves the latest pane as a single JPEG.
type FrameHandler struct {
	sink Sink
}

// NewFrameHandler creates a FrameHandler reading from sink.
func NewFrameHandler(sink Sink) *FrameHandler {
	return &FrameHandler{sink: sink}
}

// ServeHTTP writes one JPEG, or 404 before the first pair arrives.
func (h *FrameHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	pane, ok := parsePane(r.URL.Path, "/api/frame/")
	if !ok {
		http.NotFound(w, r)
		return
	}

	pair, ok := h.sink.Latest()
	if !ok {
		http.Error(w, "No frame yet", http.StatusNotFound)
		return
	}

	buf, err := encodeJPEG(pane.Image(pair))
	if err != nil {
		http.Error(w, "Failed to encode frame", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Frame-Seq", fmt.Sprint(pair.Seq))
	w.Write(buf)
}

// StreamHandler serves one pane of the latest pairs as MJPEG.
type StreamHandler struct {
	sink     Sink
	interval time.Duration
}

// NewStreamHandler creates a new StreamHandler reading from sink.
func NewStreamHandler(sink Sink) *StreamHandler {
	return &StreamHandler{sink: sink, interval: streamInterval}
}

// ServeHTTP streams MJPEG frames to connected clients. A pair is written
// once; after capture stops the stream idles on the frozen view.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	pane, ok := parsePane(r.URL.Path, "/api/stream/")
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var lastSeq uint64
	var lastSession string
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		pair, ok := h.sink.Latest()
		if !ok || (pair.Seq == lastSeq && pair.Session == lastSession) {
			continue
		}
		lastSeq, lastSession = pair.Seq, pair.Session

		buf, err := encodeJPEG(pane.Image(pair))
		if err != nil {
			continue
		}

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(buf))
		if _, err := w.Write(buf); err != nil {
			return
		}
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}
