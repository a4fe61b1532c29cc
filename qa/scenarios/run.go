package scenarios

import (
	"context"
	"testing"

	"github.com/communityshield/dispatch/core/dispatch"
	"github.com/communityshield/dispatch/core/events"
	"github.com/communityshield/dispatch/core/fleet"
	"github.com/communityshield/dispatch/core/incident"
	"github.com/communityshield/dispatch/core/model"
	"github.com/communityshield/dispatch/infra/bias"
	"github.com/communityshield/dispatch/infra/extract"
	"github.com/communityshield/dispatch/infra/logger"
	"github.com/communityshield/dispatch/internal/eventbus"
)

// scriptedSource replays the scenario reports in order.
type scriptedSource struct {
	reports []model.RawReport
	next    int
}

func (s *scriptedSource) Next(context.Context) (model.RawReport, error) {
	r := s.reports[s.next]
	s.next++
	return r, nil
}

// RunScenario drives one cycle per scripted report through the real pipeline
// (heuristic extraction, keyword bias check, nearest-unit policy) and checks
// the outcome counts. The sampling gate is held open so every report is
// processed.
func RunScenario(t *testing.T, sc *Scenario) {
	units := make([]model.PatrolUnit, len(sc.Units))
	for i, u := range sc.Units {
		units[i] = u.ToModel()
	}
	reg := fleet.NewMemoryRegistry(units)
	store := incident.NewMemoryStore()
	bus := eventbus.New()
	defer bus.Close()

	policy, err := dispatch.NewPolicy(reg, store, bus, nil, logger.NopLogger{})
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	src := &scriptedSource{reports: make([]model.RawReport, len(sc.Reports))}
	for i, r := range sc.Reports {
		src.reports[i] = r.ToModel()
	}
	loop, err := dispatch.NewLoop(
		dispatch.LoopConfig{PeriodSeconds: 1, SampleRate: 1.0},
		src, extract.HeuristicExtractor{}, bias.KeywordAnnotator{},
		store, reg, policy, bus, nil, logger.NopLogger{}, nil,
	)
	if err != nil {
		t.Fatalf("loop: %v", err)
	}

	counts := map[events.CycleOutcome]int{}
	for range sc.Reports {
		ev := loop.Cycle(context.Background())
		counts[ev.Outcome]++
	}

	if got := counts[events.CycleAssigned]; got != sc.Expected.Assigned {
		t.Errorf("scenario %s: assigned %d, want %d", sc.Name, got, sc.Expected.Assigned)
	}
	if got := counts[events.CycleNoUnits]; got != sc.Expected.NoUnits {
		t.Errorf("scenario %s: no_units %d, want %d", sc.Name, got, sc.Expected.NoUnits)
	}
	if got := counts[events.CycleDiscarded]; got != sc.Expected.Discarded {
		t.Errorf("scenario %s: discarded %d, want %d", sc.Name, got, sc.Expected.Discarded)
	}

	flagged := 0
	for _, inc := range store.List() {
		if inc.Bias != nil && inc.Bias.Status == model.BiasFlagged {
			flagged++
		}
	}
	if flagged != sc.Expected.Flagged {
		t.Errorf("scenario %s: flagged %d, want %d", sc.Name, flagged, sc.Expected.Flagged)
	}
}
