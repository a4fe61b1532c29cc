package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	cyclesTotal        *prometheus.CounterVec
	assignmentsTotal   *prometheus.CounterVec
	extractionFailures prometheus.Counter
	idleUnits          prometheus.Gauge
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, *prometheus.CounterVec, prometheus.Counter, prometheus.Gauge) {
	cycles := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_cycles_total",
			Help: "Number of dispatch loop cycles by outcome",
		},
		[]string{"outcome"},
	)
	asn := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "unit_assignments_total",
			Help: "Number of incidents assigned per unit",
		},
		[]string{"unit_id"},
	)
	fails := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "extraction_failures_total",
			Help: "Number of reports discarded because extraction could not resolve coordinates",
		},
	)
	idle := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "idle_units",
			Help: "Number of patrol units currently idle",
		},
	)
	return cycles, asn, fails, idle
}

func init() {
	cyclesTotal, assignmentsTotal, extractionFailures, idleUnits = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers dispatch metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(cyclesTotal, assignmentsTotal, extractionFailures, idleUnits)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	cyclesTotal, assignmentsTotal, extractionFailures, idleUnits = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
