package incidents

import (
	"net/http"

	"github.com/communityshield/dispatch/core/incident"
	"github.com/communityshield/dispatch/pkg/export"
)

// NewListHandler returns an HTTP handler exposing the incident register via
// GET /api/incidents. Incidents are returned newest first; format=csv selects
// a CSV export instead of JSON.
func NewListHandler(store incident.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		list := store.List()
		if r.URL.Query().Get("active") == "true" {
			list = store.ListActive()
		}
		if r.URL.Query().Get("format") == "csv" {
			w.Header().Set("Content-Type", "text/csv")
			if err := export.WriteCSV(w, list); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
			}
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := export.WriteJSON(w, list); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
