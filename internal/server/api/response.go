// Package api implements the JSON endpoints of the viewer.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/chromacam/internal/app"
	"github.com/ayusman/chromacam/internal/hsv"
)

// Controller is the viewer state the endpoints read and drive.
type Controller interface {
	Adjustment() hsv.Adjustment
	SetHSV(hue, saturation, value int) hsv.Adjustment
	Sliders() []hsv.Slider
	Mode() app.Mode
	Stats() app.Stats
	Cancel()
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
