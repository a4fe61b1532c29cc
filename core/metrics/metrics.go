package metrics

import "time"

// CycleRecord captures the structured outcome of one dispatch loop cycle.
type CycleRecord struct {
	Outcome    string
	ReportID   string
	Source     string
	IncidentID string
	UnitID     string
	Time       time.Time
}

// Sink records dispatch cycle outcomes for observability purposes.
type Sink interface {
	RecordCycle(rec CycleRecord) error
}

// AssignmentRecord captures a unit-to-incident assignment.
type AssignmentRecord struct {
	IncidentID string
	UnitID     string
	Distance   float64
	Forced     bool
	Time       time.Time
}

// AssignmentRecorder is implemented by sinks able to record assignments.
type AssignmentRecorder interface {
	RecordAssignment(rec AssignmentRecord) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordCycle(CycleRecord) error { return nil }

// Ensure NopSink implements AssignmentRecorder.
func (NopSink) RecordAssignment(AssignmentRecord) error { return nil }

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordCycle forwards the record to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordCycle(rec CycleRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordCycle(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordAssignment forwards assignment records to sinks that support them.
func (m *MultiSink) RecordAssignment(rec AssignmentRecord) error {
	for _, s := range m.Sinks {
		if r, ok := s.(AssignmentRecorder); ok {
			if err := r.RecordAssignment(rec); err != nil {
				return err
			}
		}
	}
	return nil
}
