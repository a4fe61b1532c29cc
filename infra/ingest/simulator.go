// Package ingest provides the report sources feeding the dispatch loop: a
// template-driven simulator and an MQTT subscription for externally
// published reports.
package ingest

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/communityshield/dispatch/core/model"
)

var crimeTypes = []string{
	"Robbery", "Assault", "Traffic Accident", "Gunfire", "Suspicious Activity", "Medical Emergency",
}

type landmark struct {
	name string
	lat  float64
	lng  float64
}

var landmarks = []landmark{
	{"CBD near Archives", -1.2834, 36.8235},
	{"Westlands near Sarit", -1.2635, 36.8024},
	{"Kibera near DC", -1.3120, 36.7890},
	{"Eastleigh 1st Ave", -1.2760, 36.8480},
	{"Karen Shopping Center", -1.3200, 36.7050},
	{"Thika Road Mall", -1.2200, 36.8900},
}

var sources = []string{"Police Radio", "Twitter", "ShotSpotter", "Anonymous Tip"}

// Simulator generates raw unstructured reports mimicking real-world alerts
// over the service area. It implements pipeline.Source and never fails.
type Simulator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulator creates a simulator. A nil rng falls back to a time-seeded
// source; tests inject a fixed seed for reproducible reports.
func NewSimulator(rng *rand.Rand) *Simulator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Simulator{rng: rng}
}

// Next produces one raw report.
func (s *Simulator) Next(_ context.Context) (model.RawReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	crime := crimeTypes[s.rng.Intn(len(crimeTypes))]
	loc := landmarks[s.rng.Intn(len(landmarks))]
	source := sources[s.rng.Intn(len(sources))]

	templates := []string{
		fmt.Sprintf("Report of %s at %s. Units respond.", crime, loc.name),
		fmt.Sprintf("ALERT: %s reporting %s in progress near %s.", source, crime, loc.name),
		fmt.Sprintf("Citizen report: Saw %s happening at %s. Please help.", crime, loc.name),
		fmt.Sprintf("Sensor triggered: Possible %s detected at %s coordinates %v, %v.", crime, loc.name, loc.lat, loc.lng),
		fmt.Sprintf("Urgent: %s spotted. Location: %s.", crime, loc.name),
	}

	return model.RawReport{
		ID:        uuid.NewString(),
		RawText:   templates[s.rng.Intn(len(templates))],
		Source:    source,
		Timestamp: time.Now(),
	}, nil
}
