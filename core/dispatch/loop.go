package dispatch

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/communityshield/dispatch/core/events"
	"github.com/communityshield/dispatch/core/fleet"
	"github.com/communityshield/dispatch/core/incident"
	"github.com/communityshield/dispatch/core/logger"
	coremetrics "github.com/communityshield/dispatch/core/metrics"
	"github.com/communityshield/dispatch/core/pipeline"
	"github.com/communityshield/dispatch/internal/eventbus"
)

const (
	defaultPeriod     = 5 * time.Second
	defaultSampleRate = 0.3
)

// LoopConfig defines the cadence of the dispatch loop.
type LoopConfig struct {
	// PeriodSeconds is the fixed cycle period. Defaults to 5.
	PeriodSeconds float64 `json:"period_seconds"`
	// SampleRate is the probability that a cycle runs extraction. The gate
	// throttles load on the extractor. Defaults to 0.3.
	SampleRate float64 `json:"sample_rate"`
}

// SetDefaults applies sane defaults.
func (c *LoopConfig) SetDefaults() {
	if c.PeriodSeconds <= 0 {
		c.PeriodSeconds = defaultPeriod.Seconds()
	}
	if c.SampleRate <= 0 {
		c.SampleRate = defaultSampleRate
	}
}

// Validate checks the configuration bounds.
func (c LoopConfig) Validate() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("sample_rate must be within [0,1], got %v", c.SampleRate)
	}
	return nil
}

// Period returns the cycle period as a duration.
func (c LoopConfig) Period() time.Duration {
	return time.Duration(c.PeriodSeconds * float64(time.Second))
}

// Loop drives ingestion, extraction, bias annotation and assignment on a
// fixed cadence. Cycles are strictly sequential: cycle N+1 never starts
// before cycle N's body completes, which is what prevents two cycles from
// racing to assign the same unit. Errors inside a cycle are logged at the
// cycle boundary and never terminate the loop.
type Loop struct {
	cfg       LoopConfig
	source    pipeline.Source
	extractor pipeline.Extractor
	annotator pipeline.Annotator
	incidents incident.Store
	registry  fleet.Registry
	policy    *Policy
	bus       eventbus.EventBus
	sink      coremetrics.Sink
	log       logger.Logger
	rng       *rand.Rand
}

// NewLoop assembles a dispatch loop. The rng drives the sampling gate and is
// injected so tests can force both branches deterministically; a nil rng
// falls back to a time-seeded source. The bus and sink are optional.
func NewLoop(cfg LoopConfig, src pipeline.Source, ex pipeline.Extractor, an pipeline.Annotator,
	store incident.Store, reg fleet.Registry, policy *Policy, bus eventbus.EventBus,
	sink coremetrics.Sink, log logger.Logger, rng *rand.Rand) (*Loop, error) {
	if src == nil || ex == nil || an == nil || store == nil || reg == nil || policy == nil || log == nil {
		return nil, fmt.Errorf("dispatch: nil parameter provided to NewLoop")
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	return &Loop{
		cfg:       cfg,
		source:    src,
		extractor: ex,
		annotator: an,
		incidents: store,
		registry:  reg,
		policy:    policy,
		bus:       bus,
		sink:      sink,
		log:       log,
		rng:       rng,
	}, nil
}

// Run executes cycles until the context is canceled. The in-flight cycle is
// allowed to finish; no lock is held across the inter-cycle sleep.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.cfg.Period())
	defer ticker.Stop()
	l.log.Infof("dispatch loop running (period %s, sample rate %.0f%%)", l.cfg.Period(), l.cfg.SampleRate*100)
	for {
		l.Cycle(ctx)
		select {
		case <-ctx.Done():
			l.log.Infof("dispatch loop stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// Cycle runs exactly one loop iteration. It is exported so the CLI and tests
// can drive the engine without the timer.
func (l *Loop) Cycle(ctx context.Context) events.CycleEvent {
	ev := l.runCycle(ctx)
	ev.Time = time.Now()
	cyclesTotal.WithLabelValues(ev.Outcome.String()).Inc()
	idleUnits.Set(float64(len(l.registry.Idle())))
	if err := l.sink.RecordCycle(coremetrics.CycleRecord{
		Outcome:    ev.Outcome.String(),
		ReportID:   ev.ReportID,
		Source:     ev.Source,
		IncidentID: ev.IncidentID,
		UnitID:     ev.UnitID,
		Time:       ev.Time,
	}); err != nil {
		l.log.Errorf("cycle metrics error: %v", err)
	}
	if l.bus != nil {
		l.bus.Publish(ev)
	}
	return ev
}

func (l *Loop) runCycle(ctx context.Context) events.CycleEvent {
	raw, err := l.source.Next(ctx)
	if err != nil {
		l.log.Errorf("report source: %v", err)
		return events.CycleEvent{Outcome: events.CycleError, Err: err}
	}
	ev := events.CycleEvent{ReportID: raw.ID, Source: raw.Source}
	l.log.Debugw("signal picked up", map[string]any{"report_id": raw.ID, "source": raw.Source})

	// Sampling gate: independent per cycle, no shared state beyond the rng.
	if l.rng.Float64() >= l.cfg.SampleRate {
		ev.Outcome = events.CycleSkipped
		return ev
	}

	ex := l.extractor.Extract(ctx, raw)
	if !ex.Resolved {
		extractionFailures.Inc()
		l.log.Infof("could not determine location for report %s, discarding", raw.ID)
		ev.Outcome = events.CycleDiscarded
		return ev
	}
	report := ex.Report
	ev.Location = report.Location

	bias := l.annotator.Annotate(ctx, report)
	inc, err := l.incidents.Create(incident.CreateParams{
		ID:        raw.ID,
		Type:      report.Type,
		Summary:   report.Summary,
		Location:  report.Location,
		Lat:       report.Lat,
		Lng:       report.Lng,
		Severity:  report.Severity,
		Source:    raw.Source,
		RawText:   raw.RawText,
		Timestamp: raw.Timestamp,
		Bias:      &bias,
	})
	if err != nil {
		l.log.Errorf("create incident from report %s: %v", raw.ID, err)
		ev.Outcome = events.CycleError
		ev.Err = err
		return ev
	}
	ev.IncidentID = inc.ID
	l.log.Infof("new incident: %s at %s (severity %s, bias %s)", inc.Type, inc.Location, inc.Severity, bias.Status)

	asn, ok := l.policy.Assign(inc)
	if !ok {
		ev.Outcome = events.CycleNoUnits
		return ev
	}
	ev.Outcome = events.CycleAssigned
	ev.UnitID = asn.UnitID
	ev.UnitName = asn.UnitName
	l.log.Infof("dispatched %s to %s", asn.UnitName, inc.Location)
	return ev
}
