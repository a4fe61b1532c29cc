package metrics

import (
	"context"

	"github.com/communityshield/dispatch/core/dispatch/logging"
	coremetrics "github.com/communityshield/dispatch/core/metrics"
)

// JournalConfig defines the persistent dispatch journal settings.
type JournalConfig struct {
	Path string `json:"path"`
}

// JournalSink appends every cycle and assignment to a LogStore, giving
// operators a complete audit trail beyond the bounded in-memory feed.
type JournalSink struct {
	store logging.LogStore
}

// NewJournalSink creates a sink over the given store.
func NewJournalSink(store logging.LogStore) *JournalSink {
	return &JournalSink{store: store}
}

// RecordCycle appends the cycle outcome to the journal.
func (s *JournalSink) RecordCycle(rec coremetrics.CycleRecord) error {
	return s.store.Append(context.Background(), logging.LogRecord{
		Timestamp:  rec.Time,
		Kind:       logging.KindCycle,
		Outcome:    rec.Outcome,
		ReportID:   rec.ReportID,
		Source:     rec.Source,
		IncidentID: rec.IncidentID,
		UnitID:     rec.UnitID,
	})
}

// RecordAssignment appends the assignment to the journal.
func (s *JournalSink) RecordAssignment(rec coremetrics.AssignmentRecord) error {
	return s.store.Append(context.Background(), logging.LogRecord{
		Timestamp:  rec.Time,
		Kind:       logging.KindAssignment,
		IncidentID: rec.IncidentID,
		UnitID:     rec.UnitID,
		Distance:   rec.Distance,
		Forced:     rec.Forced,
	})
}

// Close closes the underlying store.
func (s *JournalSink) Close() error { return s.store.Close() }
