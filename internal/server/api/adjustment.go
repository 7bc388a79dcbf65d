package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/chromacam/internal/app"
	"github.com/ayusman/chromacam/internal/hsv"
)

// AdjustmentHandler serves GET and PUT on /api/adjustment.
type AdjustmentHandler struct {
	ctrl Controller
}

// NewAdjustmentHandler creates an AdjustmentHandler for ctrl.
func NewAdjustmentHandler(ctrl Controller) *AdjustmentHandler {
	return &AdjustmentHandler{ctrl: ctrl}
}

// ServeHTTP implements the http.Handler interface.
func (h *AdjustmentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// UpdateRequest carries new slider values. Omitted fields keep their
// current value.
type UpdateRequest struct {
	Hue        *int `json:"hue"`
	Saturation *int `json:"saturation"`
	Value      *int `json:"value"`
}

// Apply merges the request over cur.
func (req UpdateRequest) Apply(cur hsv.Adjustment) hsv.Adjustment {
	if req.Hue != nil {
		cur.Hue = *req.Hue
	}
	if req.Saturation != nil {
		cur.Saturation = *req.Saturation
	}
	if req.Value != nil {
		cur.Value = *req.Value
	}
	return cur
}

type adjustmentResponse struct {
	hsv.Adjustment
	Mode    app.Mode     `json:"mode"`
	Sliders []hsv.Slider `json:"sliders"`
	Warning string       `json:"warning,omitempty"`
}

func (h *AdjustmentHandler) get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, adjustmentResponse{
		Adjustment: h.ctrl.Adjustment(),
		Mode:       h.ctrl.Mode(),
		Sliders:    h.ctrl.Sliders(),
	})
}

func (h *AdjustmentHandler) update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	want := req.Apply(h.ctrl.Adjustment())
	resp := adjustmentResponse{Mode: h.ctrl.Mode(), Sliders: h.ctrl.Sliders()}
	if err := want.Validate(); err != nil {
		resp.Warning = err.Error()
	}
	resp.Adjustment = h.ctrl.SetHSV(want.Hue, want.Saturation, want.Value)

	writeJSON(w, http.StatusOK, resp)
}
