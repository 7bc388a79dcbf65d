package api

import (
	"net/http"
)

// CancelHandler stops capture on POST /api/cancel. The request returns
// once the worker has released the camera.
type CancelHandler struct {
	ctrl Controller
}

// NewCancelHandler creates a CancelHandler for ctrl.
func NewCancelHandler(ctrl Controller) *CancelHandler {
	return &CancelHandler{ctrl: ctrl}
}

// ServeHTTP implements the http.Handler interface.
func (h *CancelHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.ctrl.Cancel()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "stopped"})
}

// StatsHandler reports worker counters on GET /api/stats.
type StatsHandler struct {
	ctrl Controller
}

// NewStatsHandler creates a StatsHandler for ctrl.
func NewStatsHandler(ctrl Controller) *StatsHandler {
	return &StatsHandler{ctrl: ctrl}
}

// ServeHTTP implements the http.Handler interface.
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.ctrl.Stats())
}
