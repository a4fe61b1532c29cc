package dispatch

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/communityshield/dispatch/core/events"
	"github.com/communityshield/dispatch/core/fleet"
	"github.com/communityshield/dispatch/core/incident"
	"github.com/communityshield/dispatch/core/model"
	"github.com/communityshield/dispatch/core/pipeline"
	"github.com/communityshield/dispatch/internal/eventbus"
)

// fixedSource drives rand.Rand deterministically so both branches of the
// sampling gate can be forced. Int63=0 yields Float64()=0 (gate open);
// Int63=1<<62 yields Float64()=0.5 (gate closed for the default rate).
type fixedSource struct{ v int64 }

func (s fixedSource) Int63() int64 { return s.v }
func (s fixedSource) Seed(int64)   {}

func gateOpenRand() *rand.Rand   { return rand.New(fixedSource{v: 0}) }
func gateClosedRand() *rand.Rand { return rand.New(fixedSource{v: 1 << 62}) }

type stubSource struct {
	report model.RawReport
	err    error
}

func (s stubSource) Next(context.Context) (model.RawReport, error) { return s.report, s.err }

type stubExtractor struct{ result pipeline.Extraction }

func (s stubExtractor) Extract(context.Context, model.RawReport) pipeline.Extraction {
	return s.result
}

type stubAnnotator struct{ ann model.BiasAnnotation }

func (s stubAnnotator) Annotate(context.Context, model.StructuredReport) model.BiasAnnotation {
	return s.ann
}

func resolvedExtraction() pipeline.Extraction {
	lat, lng := -1.282, 36.821
	return pipeline.Resolved(model.StructuredReport{
		Type:     "Robbery",
		Severity: model.SeverityHigh,
		Location: "CBD",
		Lat:      &lat,
		Lng:      &lng,
		Summary:  "Robbery reported at CBD",
	})
}

func testLoop(t *testing.T, src pipeline.Source, ex pipeline.Extractor, rng *rand.Rand,
	roster []model.PatrolUnit, bus eventbus.EventBus) (*Loop, incident.Store, fleet.Registry) {
	t.Helper()
	store := incident.NewMemoryStore()
	reg := fleet.NewMemoryRegistry(roster)
	policy, err := NewPolicy(reg, store, bus, nil, nopLog{})
	require.NoError(t, err)
	loop, err := NewLoop(LoopConfig{PeriodSeconds: 0.01, SampleRate: 0.3}, src, ex,
		stubAnnotator{ann: model.BiasAnnotation{Status: model.BiasClear, Method: "keyword"}},
		store, reg, policy, bus, nil, nopLog{}, rng)
	require.NoError(t, err)
	return loop, store, reg
}

func defaultRoster() []model.PatrolUnit {
	return []model.PatrolUnit{{ID: "U-A", Name: "Alpha", Lat: -1.28, Lng: 36.82}}
}

func TestCycleSkippedBySamplingGate(t *testing.T) {
	src := stubSource{report: model.RawReport{ID: "R-1", RawText: "robbery at cbd", Source: "Test"}}
	loop, store, _ := testLoop(t, src, stubExtractor{result: resolvedExtraction()}, gateClosedRand(), defaultRoster(), nil)

	ev := loop.Cycle(context.Background())
	assert.Equal(t, events.CycleSkipped, ev.Outcome)
	assert.Equal(t, "R-1", ev.ReportID)
	assert.Empty(t, store.List(), "skipped cycles must not create incidents")
}

func TestCycleDiscardsUnresolvedReport(t *testing.T) {
	src := stubSource{report: model.RawReport{ID: "R-1", RawText: "something somewhere", Source: "Test"}}
	loop, store, reg := testLoop(t, src, stubExtractor{result: pipeline.Failed()}, gateOpenRand(), defaultRoster(), nil)

	ev := loop.Cycle(context.Background())
	assert.Equal(t, events.CycleDiscarded, ev.Outcome)
	assert.Empty(t, store.List(), "discarded reports must not create incidents")
	assert.Len(t, reg.Idle(), 1)
}

func TestCycleAssignsIncident(t *testing.T) {
	src := stubSource{report: model.RawReport{ID: "R-1", RawText: "robbery at cbd", Source: "Police Radio"}}
	loop, store, reg := testLoop(t, src, stubExtractor{result: resolvedExtraction()}, gateOpenRand(), defaultRoster(), nil)

	ev := loop.Cycle(context.Background())
	assert.Equal(t, events.CycleAssigned, ev.Outcome)
	assert.Equal(t, "R-1", ev.IncidentID)
	assert.Equal(t, "U-A", ev.UnitID)
	assert.Equal(t, "Alpha", ev.UnitName)

	inc, err := store.Get("R-1")
	require.NoError(t, err)
	assert.Equal(t, model.IncidentAssigned, inc.Status)
	require.NotNil(t, inc.Bias)
	assert.Equal(t, "keyword", inc.Bias.Method)
	assert.Empty(t, reg.Idle())
}

func TestCycleNoUnitsAvailable(t *testing.T) {
	src := stubSource{report: model.RawReport{ID: "R-1", RawText: "robbery at cbd", Source: "Test"}}
	loop, store, _ := testLoop(t, src, stubExtractor{result: resolvedExtraction()}, gateOpenRand(), nil, nil)

	ev := loop.Cycle(context.Background())
	assert.Equal(t, events.CycleNoUnits, ev.Outcome)

	// The incident exists and stays pending.
	inc, err := store.Get("R-1")
	require.NoError(t, err)
	assert.Equal(t, model.IncidentNew, inc.Status)
}

func TestCycleSourceError(t *testing.T) {
	src := stubSource{err: errors.New("broker down")}
	loop, _, _ := testLoop(t, src, stubExtractor{result: resolvedExtraction()}, gateOpenRand(), defaultRoster(), nil)

	ev := loop.Cycle(context.Background())
	assert.Equal(t, events.CycleError, ev.Outcome)
	assert.Error(t, ev.Err)
}

func TestCyclePublishesEvent(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	sub := bus.SubscribeBuffered(4)

	src := stubSource{report: model.RawReport{ID: "R-1", RawText: "robbery at cbd", Source: "Test"}}
	loop, _, _ := testLoop(t, src, stubExtractor{result: resolvedExtraction()}, gateOpenRand(), defaultRoster(), bus)

	loop.Cycle(context.Background())

	var cycle *events.CycleEvent
	timeout := time.After(time.Second)
	for cycle == nil {
		select {
		case e := <-sub:
			if ev, ok := e.(events.CycleEvent); ok {
				cycle = &ev
			}
		case <-timeout:
			t.Fatal("no cycle event published")
		}
	}
	assert.Equal(t, events.CycleAssigned, cycle.Outcome)
	assert.Equal(t, "U-A", cycle.UnitID)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	src := stubSource{report: model.RawReport{ID: "R-1", RawText: "robbery at cbd", Source: "Test"}}
	loop, _, _ := testLoop(t, src, stubExtractor{result: pipeline.Failed()}, gateClosedRand(), defaultRoster(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop after cancel")
	}
}

func TestLoopConfigValidate(t *testing.T) {
	cfg := LoopConfig{SampleRate: 1.5}
	assert.Error(t, cfg.Validate())

	cfg = LoopConfig{}
	cfg.SetDefaults()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 5*time.Second, cfg.Period())
	assert.Equal(t, 0.3, cfg.SampleRate)
}
