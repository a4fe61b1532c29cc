package metrics

import (
	coremetrics "github.com/communityshield/dispatch/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records dispatch cycle events in Prometheus metrics.
type PromSink struct {
	cycles      *prometheus.CounterVec
	assignments *prometheus.CounterVec
}

// NewPromSink registers cycle metrics on the default Prometheus registerer.
// The Prometheus server is started separately using the configured port.
func NewPromSink() (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	cycles := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cycle_events_total",
		Help: "Total number of dispatch cycle events by outcome and source",
	}, []string{"outcome", "source"})
	assignments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assignment_events_total",
		Help: "Total number of assignment events per unit",
	}, []string{"unit_id", "forced"})

	if err := reg.Register(cycles); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			cycles = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(assignments); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			assignments = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	return &PromSink{cycles: cycles, assignments: assignments}, nil
}

// RecordCycle increments the counter for the cycle outcome.
func (s *PromSink) RecordCycle(rec coremetrics.CycleRecord) error {
	s.cycles.WithLabelValues(rec.Outcome, rec.Source).Inc()
	return nil
}

// RecordAssignment increments the per-unit assignment counter.
func (s *PromSink) RecordAssignment(rec coremetrics.AssignmentRecord) error {
	forced := "false"
	if rec.Forced {
		forced = "true"
	}
	s.assignments.WithLabelValues(rec.UnitID, forced).Inc()
	return nil
}
