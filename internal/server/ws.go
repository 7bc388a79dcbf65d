package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/chromacam/internal/app"
	"github.com/ayusman/chromacam/internal/detector"
	"github.com/ayusman/chromacam/internal/hsv"
	"github.com/ayusman/chromacam/internal/log"
	"github.com/ayusman/chromacam/internal/server/api"
)

const writeTimeout = 2 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// Event describes one rendered pair.
type Event struct {
	Seq        uint64            `json:"seq"`
	Session    string            `json:"session"`
	Mode       app.Mode          `json:"mode"`
	Adjustment hsv.Adjustment    `json:"adjustment"`
	Regions    []detector.Region `json:"regions"`
	Timestamp  int64             `json:"timestamp"`
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// EventsHub pushes pair metadata to websocket clients and accepts
// adjustment updates from them.
type EventsHub struct {
	ctrl api.Controller
	log  *slog.Logger

	mu      sync.RWMutex
	clients map[*wsClient]struct{}
}

// NewEventsHub creates a hub that relays client updates to ctrl.
func NewEventsHub(ctrl api.Controller) *EventsHub {
	return &EventsHub{
		ctrl:    ctrl,
		log:     log.Component("events"),
		clients: make(map[*wsClient]struct{}),
	}
}

// Render broadcasts p to every client. A client that has not drained its
// previous message loses it in favour of p.
func (h *EventsHub) Render(p app.Pair) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.clients) == 0 {
		return
	}

	msg, err := json.Marshal(Event{
		Seq:        p.Seq,
		Session:    p.Session,
		Mode:       p.Mode,
		Adjustment: p.Adjustment,
		Regions:    p.Regions,
		Timestamp:  p.CapturedAt.UnixMilli(),
	})
	if err != nil {
		h.log.Warn("encode event failed", "error", err)
		return
	}

	for c := range h.clients {
		select {
		case c.send <- msg:
			continue
		default:
		}
		select {
		case <-c.send:
		default:
		}
		select {
		case c.send <- msg:
		default:
		}
	}
}

// Clients returns the number of connected clients.
func (h *EventsHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *EventsHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &wsClient{conn: conn, send: make(chan []byte, 1)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(c)
	defer h.remove(c)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var req api.UpdateRequest
		if err := json.Unmarshal(data, &req); err != nil {
			h.log.Debug("ignoring malformed update", "error", err)
			continue
		}
		a := req.Apply(h.ctrl.Adjustment())
		h.ctrl.SetHSV(a.Hue, a.Saturation, a.Value)
	}
}

func (h *EventsHub) writeLoop(c *wsClient) {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			c.conn.Close()
			return
		}
	}
	c.conn.Close()
}

func (h *EventsHub) remove(c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

// Close disconnects all clients.
func (h *EventsHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
