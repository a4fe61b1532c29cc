package hotspot

import (
	"math/rand"
	"testing"
	"time"

	"github.com/communityshield/dispatch/core/incident"
	"github.com/communityshield/dispatch/core/model"
)

func ptr(f float64) *float64 { return &f }

func TestHotspotsScoreBounds(t *testing.T) {
	p := New(DefaultZones(), nil, rand.New(rand.NewSource(42)))
	for i := 0; i < 50; i++ {
		for _, h := range p.Hotspots() {
			if h.RiskScore <= riskThreshold || h.RiskScore > 1 {
				t.Fatalf("score %v outside (%v, 1]", h.RiskScore, riskThreshold)
			}
			if h.Reason == "" || h.RecommendedAction == "" {
				t.Fatalf("prediction missing advisory text: %+v", h)
			}
		}
	}
}

func TestHotspotsCriticalIncidentsRaiseRisk(t *testing.T) {
	zone := Zone{Name: "Test Zone", Lat: -1.2850, Lng: 36.8280, RiskFactor: "History"}
	store := incident.NewMemoryStore()
	for _, id := range []string{"INC-1", "INC-2", "INC-3"} {
		if _, err := store.Create(incident.CreateParams{
			ID:        id,
			Type:      "Gunfire",
			Location:  "River Road",
			Lat:       ptr(zone.Lat),
			Lng:       ptr(zone.Lng),
			Severity:  model.SeverityCritical,
			Timestamp: time.Now(),
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	// Critical incidents weigh 1.0, so the blended score is at least
	// 0.7*0.6 + 0.3*1.0 = 0.72 and the zone is always hot.
	p := New([]Zone{zone}, store, rand.New(rand.NewSource(7)))
	for i := 0; i < 20; i++ {
		hot := p.Hotspots()
		if len(hot) != 1 {
			t.Fatalf("iteration %d: got %d hotspots, want 1", i, len(hot))
		}
		if hot[0].RiskScore < 0.72 {
			t.Fatalf("score %v below critical floor", hot[0].RiskScore)
		}
	}
}

func TestHotspotsIgnoreDistantIncidents(t *testing.T) {
	zone := Zone{Name: "Test Zone", Lat: -1.2850, Lng: 36.8280, RiskFactor: "History"}
	store := incident.NewMemoryStore()
	// Far outside the zone radius.
	if _, err := store.Create(incident.CreateParams{
		ID:        "INC-1",
		Type:      "Gunfire",
		Location:  "Thika Road",
		Lat:       ptr(-1.2200),
		Lng:       ptr(36.8900),
		Severity:  model.SeverityCritical,
		Timestamp: time.Now(),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	rng := rand.New(rand.NewSource(7))
	withStore := New([]Zone{zone}, store, rng)
	without := New([]Zone{zone}, nil, rand.New(rand.NewSource(7)))
	for i := 0; i < 20; i++ {
		a := withStore.Hotspots()
		b := without.Hotspots()
		if len(a) != len(b) {
			t.Fatalf("distant incident changed hotspot count: %d vs %d", len(a), len(b))
		}
		for j := range a {
			if a[j].RiskScore != b[j].RiskScore {
				t.Fatalf("distant incident changed score: %v vs %v", a[j].RiskScore, b[j].RiskScore)
			}
		}
	}
}
