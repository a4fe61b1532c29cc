package logs

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/communityshield/dispatch/core/events"
	"github.com/communityshield/dispatch/internal/eventbus"
)

// Entry is one rendered line of the system log feed.
type Entry struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

// Feed renders bus events into a bounded in-memory log. The oldest entries
// are evicted once capacity is reached.
type Feed struct {
	mu      sync.RWMutex
	entries []Entry
	cap     int
	done    chan struct{}
}

// NewFeed subscribes to the bus and starts consuming events. Call Close to
// stop the consumer goroutine.
func NewFeed(bus eventbus.EventBus, capacity int) *Feed {
	if capacity < 1 {
		capacity = 50
	}
	f := &Feed{cap: capacity, done: make(chan struct{})}
	sub := bus.SubscribeBuffered(capacity)
	go func() {
		for {
			select {
			case e, ok := <-sub:
				if !ok {
					return
				}
				if line, at, ok := render(e); ok {
					f.append(Entry{Time: at, Message: line})
				}
			case <-f.done:
				bus.Unsubscribe(sub)
				return
			}
		}
	}()
	return f
}

// Close stops the consumer goroutine.
func (f *Feed) Close() { close(f.done) }

// Entries returns a snapshot of the log, newest last.
func (f *Feed) Entries() []Entry {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Entry, len(f.entries))
	copy(out, f.entries)
	return out
}

func (f *Feed) append(e Entry) {
	f.mu.Lock()
	f.entries = append(f.entries, e)
	if len(f.entries) > f.cap {
		f.entries = f.entries[len(f.entries)-f.cap:]
	}
	f.mu.Unlock()
}

func render(e eventbus.Event) (string, time.Time, bool) {
	switch ev := e.(type) {
	case events.CycleEvent:
		switch ev.Outcome {
		case events.CycleSkipped:
			return "cycle idle: sampling gate closed", ev.Time, true
		case events.CycleDiscarded:
			return fmt.Sprintf("report %s discarded: location unresolved", ev.ReportID), ev.Time, true
		case events.CycleAssigned:
			return fmt.Sprintf("incident %s at %s: %s dispatched", ev.IncidentID, ev.Location, ev.UnitName), ev.Time, true
		case events.CycleNoUnits:
			return fmt.Sprintf("incident %s at %s: no units available", ev.IncidentID, ev.Location), ev.Time, true
		case events.CycleError:
			return fmt.Sprintf("cycle error: %v", ev.Err), ev.Time, true
		}
		return "", time.Time{}, false
	case events.AssignmentEvent:
		if ev.Forced {
			return fmt.Sprintf("force dispatch: %s assigned to incident %s", ev.UnitName, ev.IncidentID), ev.Time, true
		}
		return "", time.Time{}, false
	case events.EscalationEvent:
		return fmt.Sprintf("emergency protocol: %d incidents escalated to Critical", ev.Escalated), ev.Time, true
	default:
		return "", time.Time{}, false
	}
}

// NewLogHandler returns an HTTP handler exposing the system log feed via
// GET /api/logs.
func NewLogHandler(feed *Feed) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(feed.Entries()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
