package units

import (
	"encoding/json"
	"net/http"

	"github.com/communityshield/dispatch/core/fleet"
)

// NewListHandler returns an HTTP handler exposing the patrol roster via
// GET /api/units. Each entry is a snapshot; routes are included when set.
func NewListHandler(reg fleet.Registry) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(reg.List()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
