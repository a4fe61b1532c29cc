package logging

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestJSONLStoreAppendQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dispatch.log")
	store, err := NewJSONLStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer func() { _ = store.Close() }()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []LogRecord{
		{Timestamp: base, Kind: KindCycle, Outcome: "skipped", ReportID: "R-1"},
		{Timestamp: base.Add(time.Minute), Kind: KindCycle, Outcome: "assigned", ReportID: "R-2", IncidentID: "R-2", UnitID: "U-001"},
		{Timestamp: base.Add(2 * time.Minute), Kind: KindAssignment, IncidentID: "R-2", UnitID: "U-001", Distance: 0.002, Forced: false},
		{Timestamp: base.Add(3 * time.Minute), Kind: KindAssignment, IncidentID: "R-3", UnitID: "U-002", Forced: true},
	}
	ctx := context.Background()
	for _, r := range records {
		if err := store.Append(ctx, r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := store.Query(ctx, LogQuery{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("got %d records, want 4", len(all))
	}

	byUnit, err := store.Query(ctx, LogQuery{UnitID: "U-001"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(byUnit) != 2 {
		t.Errorf("unit filter: got %d, want 2", len(byUnit))
	}

	assignments, err := store.Query(ctx, LogQuery{Kind: KindAssignment, Start: base.Add(3 * time.Minute)})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(assignments) != 1 || !assignments[0].Forced {
		t.Errorf("kind+start filter: %+v", assignments)
	}

	outcome, err := store.Query(ctx, LogQuery{Outcome: "assigned"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(outcome) != 1 || outcome[0].ReportID != "R-2" {
		t.Errorf("outcome filter: %+v", outcome)
	}
}
