// Package logging persists the engine's dispatch decisions so operators can
// audit what happened after the fact. The in-memory system log feed keeps only
// the most recent entries; this store keeps everything.
package logging

import (
	"context"
	"time"
)

// Record kinds.
const (
	KindCycle      = "cycle"
	KindAssignment = "assignment"
)

// LogRecord captures one dispatch decision.
type LogRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	Kind       string    `json:"kind"`
	Outcome    string    `json:"outcome,omitempty"`
	ReportID   string    `json:"report_id,omitempty"`
	Source     string    `json:"source,omitempty"`
	IncidentID string    `json:"incident_id,omitempty"`
	UnitID     string    `json:"unit_id,omitempty"`
	Distance   float64   `json:"distance,omitempty"`
	Forced     bool      `json:"forced,omitempty"`
}

// LogQuery defines filters for retrieving records. Zero values match
// everything.
type LogQuery struct {
	Start   time.Time
	End     time.Time
	Kind    string
	Outcome string
	UnitID  string
}

// Matches reports whether the record passes the query filters.
func (q LogQuery) Matches(r LogRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Kind != "" && r.Kind != q.Kind {
		return false
	}
	if q.Outcome != "" && r.Outcome != q.Outcome {
		return false
	}
	if q.UnitID != "" && r.UnitID != q.UnitID {
		return false
	}
	return true
}

// LogStore persists LogRecords and supports querying.
type LogStore interface {
	Append(ctx context.Context, rec LogRecord) error
	Query(ctx context.Context, q LogQuery) ([]LogRecord, error)
	Close() error
}
