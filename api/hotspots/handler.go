package hotspots

import (
	"encoding/json"
	"net/http"

	"github.com/communityshield/dispatch/core/hotspot"
)

// NewHandler returns an HTTP handler exposing predictive hotspots via
// GET /api/hotspots. Each call recomputes the risk scores.
func NewHandler(pred *hotspot.Predictor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(pred.Hotspots()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
