package ingest

import (
	"context"
	"testing"

	"github.com/communityshield/dispatch/core/model"
)

type stubBuffered struct {
	reports []model.RawReport
}

func (s *stubBuffered) TryNext() (model.RawReport, bool) {
	if len(s.reports) == 0 {
		return model.RawReport{}, false
	}
	r := s.reports[0]
	s.reports = s.reports[1:]
	return r, true
}

func TestFeedPrefersPrimary(t *testing.T) {
	primary := &stubBuffered{reports: []model.RawReport{{ID: "live-1", Source: "MQTT"}}}
	feed := NewFeed(primary, NewSimulator(nil))

	rep, err := feed.Next(context.Background())
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if rep.ID != "live-1" {
		t.Errorf("got %s, want the buffered report", rep.ID)
	}

	// Primary drained: the generator takes over instead of blocking.
	rep, err = feed.Next(context.Background())
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if rep.ID == "" || rep.ID == "live-1" {
		t.Errorf("fallback report invalid: %+v", rep)
	}
}

func TestFeedNilPrimary(t *testing.T) {
	feed := NewFeed(nil, NewSimulator(nil))
	rep, err := feed.Next(context.Background())
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if rep.RawText == "" {
		t.Error("fallback produced empty report")
	}
}
