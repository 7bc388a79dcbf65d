// Package server provides the local HTTP viewer for chromacam.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/chromacam/internal/app"
	"github.com/ayusman/chromacam/internal/display"
	"github.com/ayusman/chromacam/internal/server/api"
)

// Sink is the viewer state the server renders from. *display.Sink
// implements it.
type Sink interface {
	api.Controller
	Latest() (app.Pair, bool)
	AddRenderer(r display.Renderer)
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Sink      Sink
}

// Server represents the HTTP viewer.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
	events *EventsHub
}

// New creates a new Server with the given configuration. When a sink is
// configured the server registers its event hub as a renderer.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if sink := s.config.Sink; sink != nil {
		s.mux.Handle("/api/stream/", NewStreamHandler(sink))
		s.mux.Handle("/api/frame/", NewFrameHandler(sink))
		s.mux.Handle("/api/adjustment", api.NewAdjustmentHandler(sink))
		s.mux.Handle("/api/cancel", api.NewCancelHandler(sink))
		s.mux.Handle("/api/stats", api.NewStatsHandler(sink))

		s.events = NewEventsHub(sink)
		sink.AddRenderer(s.events)
		s.mux.Handle("/api/events", s.events)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status":  "ok",
		"uptime":  time.Since(s.start).String(),
		"running": s.config.Sink != nil && s.config.Sink.Stats().Running,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// Close disconnects websocket clients.
func (s *Server) Close() {
	if s.events != nil {
		s.events.Close()
	}
}
