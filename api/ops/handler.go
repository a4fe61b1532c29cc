package ops

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/communityshield/dispatch/core/dispatch"
	"github.com/communityshield/dispatch/core/events"
	"github.com/communityshield/dispatch/core/incident"
	"github.com/communityshield/dispatch/internal/eventbus"
)

// MapView is a named camera position returned by the zoom endpoint.
type MapView struct {
	Location string  `json:"location"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Zoom     int     `json:"zoom"`
}

// mapViews is the static zoom table. Unknown locations return 404.
var mapViews = map[string]MapView{
	"cbd":       {Location: "cbd", Lat: -1.2834, Lng: 36.8235, Zoom: 15},
	"westlands": {Location: "westlands", Lat: -1.2635, Lng: 36.8024, Zoom: 15},
	"karen":     {Location: "karen", Lat: -1.3200, Lng: 36.7050, Zoom: 14},
	"kibera":    {Location: "kibera", Lat: -1.3120, Lng: 36.7890, Zoom: 15},
}

// NewDispatchHandler returns an HTTP handler triggering an immediate
// assignment sweep over every unassigned active incident via
// POST /api/dispatch. The response carries the number of new assignments.
func NewDispatchHandler(policy *dispatch.Policy) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		n := policy.ForceDispatch()
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]any{
			"status":     "dispatch complete",
			"dispatched": n,
		}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

// NewEmergencyHandler returns an HTTP handler for the emergency protocol via
// POST /api/emergency. Every active incident is escalated to Critical.
func NewEmergencyHandler(store incident.Store, bus eventbus.EventBus) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		n := store.EscalateActive()
		if bus != nil {
			bus.Publish(events.EscalationEvent{Escalated: n, Time: time.Now()})
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]any{
			"status":    "emergency protocol activated",
			"escalated": n,
		}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

// NewMapZoomHandler returns an HTTP handler resolving named map views via
// POST /api/map/zoom/{location}.
func NewMapZoomHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		loc := strings.ToLower(strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/map/zoom"), "/"))
		view, ok := mapViews[loc]
		if !ok {
			http.Error(w, "unknown location", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(view); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
