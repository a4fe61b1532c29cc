// Package journal exposes the persistent dispatch journal over HTTP so
// operators can audit past cycles and assignments.
package journal

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/communityshield/dispatch/core/dispatch/logging"
)

// NewQueryHandler returns an HTTP handler serving dispatch journal records
// via GET /api/journal. Records filter on the start, end (RFC3339), kind,
// outcome and unit_id query parameters; absent parameters match everything.
func NewQueryHandler(store logging.LogStore) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		q := logging.LogQuery{}
		if s := r.URL.Query().Get("start"); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				q.Start = t
			}
		}
		if s := r.URL.Query().Get("end"); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				q.End = t
			}
		}
		q.Kind = r.URL.Query().Get("kind")
		q.Outcome = r.URL.Query().Get("outcome")
		q.UnitID = r.URL.Query().Get("unit_id")

		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(records); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
