package server

import (
	"bufio"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/chromacam/internal/app"
	"github.com/ayusman/chromacam/internal/detector"
	"github.com/ayusman/chromacam/internal/display"
	"github.com/ayusman/chromacam/internal/hsv"
)

// fakeSink is an in-memory Sink.
type fakeSink struct {
	mu        sync.Mutex
	adj       hsv.Adjustment
	running   bool
	latest    app.Pair
	hasPair   bool
	renderers []display.Renderer
	cancels   int
}

func newFakeSink() *fakeSink {
	return &fakeSink{adj: hsv.Neutral, running: true}
}

func (f *fakeSink) Adjustment() hsv.Adjustment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.adj
}

func (f *fakeSink) SetHSV(h, s, v int) hsv.Adjustment {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.adj = hsv.Adjustment{Hue: h, Saturation: s, Value: v}.Clamp()
	return f.adj
}

func (f *fakeSink) Sliders() []hsv.Slider { return app.ModeDetect.Sliders() }
func (f *fakeSink) Mode() app.Mode        { return app.ModeDetect }

func (f *fakeSink) Stats() app.Stats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return app.Stats{Mode: app.ModeDetect, Running: f.running}
}

func (f *fakeSink) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancels++
	f.running = false
}

func (f *fakeSink) Latest() (app.Pair, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest, f.hasPair
}

func (f *fakeSink) AddRenderer(r display.Renderer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renderers = append(f.renderers, r)
}

// push stores p as latest and renders it like the display sink does.
func (f *fakeSink) push(p app.Pair) {
	f.mu.Lock()
	f.latest, f.hasPair = p, true
	renderers := append([]display.Renderer(nil), f.renderers...)
	f.mu.Unlock()
	for _, r := range renderers {
		r.Render(p)
	}
}

func solidPair(seq uint64, c color.RGBA) app.Pair {
	img := image.NewRGBA(image.Rect(0, 0, 16, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 16; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return app.Pair{
		Seq:        seq,
		Session:    "test-session",
		CapturedAt: time.Now(),
		Mode:       app.ModeDetect,
		Adjustment: hsv.Neutral,
		Original:   img,
		Processed:  img,
		Regions:    []detector.Region{{Kind: detector.KindFace, X: 1, Y: 2, Width: 3, Height: 4}},
	}
}

func TestServer_Health(t *testing.T) {
	s := New(Config{})

	t.Run("returns 200 with JSON response", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		contentType := rec.Header().Get("Content-Type")
		if contentType != "application/json" {
			t.Errorf("expected Content-Type application/json, got %s", contentType)
		}

		var response map[string]interface{}
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if response["status"] != "ok" {
			t.Errorf("expected status 'ok', got %v", response["status"])
		}
		if _, exists := response["uptime"]; !exists {
			t.Error("expected 'uptime' field in response")
		}
		if response["running"] != false {
			t.Errorf("expected running false without a sink, got %v", response["running"])
		}
	})

	t.Run("only allows GET method", func(t *testing.T) {
		methods := []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch}

		for _, method := range methods {
			req := httptest.NewRequest(method, "/api/health", nil)
			rec := httptest.NewRecorder()

			s.ServeHTTP(rec, req)

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("method %s: expected status %d, got %d", method, http.StatusMethodNotAllowed, rec.Code)
			}
		}
	})
}

func TestServer_HealthReportsRunning(t *testing.T) {
	sink := newFakeSink()
	s := New(Config{Sink: sink})

	running := func() interface{} {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		var response map[string]interface{}
		json.NewDecoder(rec.Body).Decode(&response)
		return response["running"]
	}

	if got := running(); got != true {
		t.Errorf("running = %v, want true", got)
	}

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/cancel", nil))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("cancel status = %d, want %d", rec.Code, http.StatusAccepted)
	}

	if got := running(); got != false {
		t.Errorf("running after cancel = %v, want false", got)
	}
}

func TestServer_RegistersEventRenderer(t *testing.T) {
	sink := newFakeSink()
	New(Config{Sink: sink})

	if len(sink.renderers) != 1 {
		t.Errorf("renderers = %d, want 1", len(sink.renderers))
	}
}

func TestServer_NotFound(t *testing.T) {
	s := New(Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/nonexistent", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestServer_Frame(t *testing.T) {
	sink := newFakeSink()
	s := New(Config{Sink: sink})

	t.Run("404 before first pair", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/frame/original", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})

	t.Run("unknown pane", func(t *testing.T) {
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/frame/sideways", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})

	t.Run("serves latest pane as jpeg", func(t *testing.T) {
		if testing.Short() {
			t.Skip("skipping test that requires GoCV encoding")
		}

		sink.push(solidPair(3, color.RGBA{R: 200, A: 255}))

		for _, pane := range []string{"original", "processed"} {
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/frame/"+pane, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("%s: status = %d, want %d", pane, rec.Code, http.StatusOK)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "image/jpeg" {
				t.Errorf("%s: Content-Type = %s", pane, ct)
			}
			if seq := rec.Header().Get("X-Frame-Seq"); seq != "3" {
				t.Errorf("%s: X-Frame-Seq = %s, want 3", pane, seq)
			}
			if b := rec.Body.Bytes(); len(b) < 2 || b[0] != 0xFF || b[1] != 0xD8 {
				t.Errorf("%s: body is not a JPEG", pane)
			}
		}
	})
}

func TestServer_Stream(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV encoding")
	}

	sink := newFakeSink()
	sink.push(solidPair(1, color.RGBA{G: 200, A: 255}))

	ts := httptest.NewServer(New(Config{Sink: sink}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/stream/processed", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET stream error = %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "multipart/x-mixed-replace") {
		t.Fatalf("Content-Type = %s", ct)
	}

	r := bufio.NewReader(resp.Body)
	line, err := r.ReadString('\n')
	if err != nil {
		t.Fatalf("read boundary: %v", err)
	}
	if line != "--frame\r\n" {
		t.Errorf("first line = %q, want boundary", line)
	}
	line, _ = r.ReadString('\n')
	if line != "Content-Type: image/jpeg\r\n" {
		t.Errorf("part header = %q", line)
	}
}

func TestServer_Events(t *testing.T) {
	sink := newFakeSink()
	s := New(Config{Sink: sink})
	ts := httptest.NewServer(s)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial error = %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for s.events.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	t.Run("pushes rendered pairs", func(t *testing.T) {
		sink.push(solidPair(42, color.RGBA{A: 255}))

		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("read event: %v", err)
		}
		if ev.Seq != 42 || ev.Session != "test-session" || ev.Mode != app.ModeDetect {
			t.Errorf("event = %+v", ev)
		}
		if len(ev.Regions) != 1 || ev.Regions[0].Kind != detector.KindFace {
			t.Errorf("regions = %+v", ev.Regions)
		}
	})

	t.Run("accepts adjustment updates", func(t *testing.T) {
		if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := conn.WriteJSON(map[string]int{"hue": 500, "value": 10}); err != nil {
			t.Fatalf("write: %v", err)
		}

		want := hsv.Adjustment{Hue: 179, Saturation: 255, Value: 10}
		deadline := time.Now().Add(2 * time.Second)
		for sink.Adjustment() != want {
			if time.Now().After(deadline) {
				t.Fatalf("adjustment = %v, want %v", sink.Adjustment(), want)
			}
			time.Sleep(5 * time.Millisecond)
		}
	})
}

func TestServer_StaticFiles(t *testing.T) {
	tmpDir := t.TempDir()

	testContent := "<html><body>chromacam</body></html>"
	if err := os.WriteFile(filepath.Join(tmpDir, "index.html"), []byte(testContent), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	s := New(Config{StaticDir: tmpDir})

	t.Run("serves index.html at root path", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		if rec.Body.String() != testContent {
			t.Errorf("expected body %q, got %q", testContent, rec.Body.String())
		}
	})

	t.Run("returns 404 for non-existent static files", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/nonexistent.html", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
		}
	})
}

func TestServer_NoStaticDir(t *testing.T) {
	s := New(Config{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestParsePane(t *testing.T) {
	tests := []struct {
		path string
		want Pane
		ok   bool
	}{
		{"/api/frame/original", PaneOriginal, true},
		{"/api/frame/processed", PaneProcessed, true},
		{"/api/frame/", "", false},
		{"/api/frame/original/extra", "", false},
	}

	for _, tt := range tests {
		got, ok := parsePane(tt.path, "/api/frame/")
		if got != tt.want || ok != tt.ok {
			t.Errorf("parsePane(%q) = %q, %v; want %q, %v", tt.path, got, ok, tt.want, tt.ok)
		}
	}
}
