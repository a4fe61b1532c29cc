// Package events defines the payloads published on the internal event bus.
// The dispatch loop emits exactly one CycleEvent per cycle so any downstream
// sink (system log feed, metrics, tests) observes the engine uniformly.
package events

import "time"

// CycleOutcome classifies what a dispatch cycle did.
type CycleOutcome int

const (
	// CycleSkipped means the sampling gate decided not to run extraction.
	CycleSkipped CycleOutcome = iota
	// CycleDiscarded means extraction could not resolve coordinates and the
	// report was dropped. This is an expected outcome, not an error.
	CycleDiscarded
	// CycleAssigned means an incident was created and a unit dispatched.
	CycleAssigned
	// CycleNoUnits means an incident was created but no idle unit exists.
	CycleNoUnits
	// CycleError means the cycle body failed; the loop keeps running.
	CycleError
)

// String returns a human-readable representation of the outcome.
func (o CycleOutcome) String() string {
	switch o {
	case CycleSkipped:
		return "skipped"
	case CycleDiscarded:
		return "discarded"
	case CycleAssigned:
		return "assigned"
	case CycleNoUnits:
		return "no_units_available"
	case CycleError:
		return "error"
	default:
		return "unknown"
	}
}

// CycleEvent is the single structured event emitted per dispatch cycle.
type CycleEvent struct {
	Outcome    CycleOutcome
	ReportID   string
	Source     string
	IncidentID string
	UnitID     string
	UnitName   string
	Location   string
	Err        error
	Time       time.Time
}

// AssignmentEvent is published when the assignment policy links a unit to an
// incident, including assignments outside the loop (forced dispatch).
type AssignmentEvent struct {
	IncidentID string
	UnitID     string
	UnitName   string
	Location   string
	Forced     bool
	Time       time.Time
}

// EscalationEvent is published when the emergency protocol raises active
// incidents to Critical.
type EscalationEvent struct {
	Escalated int
	Time      time.Time
}
