// Package incident owns the set of incidents and their lifecycle state.
// Incidents are created by the ingestion pipeline, mutated by the assignment
// policy and by emergency escalation, and never deleted.
package incident

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/communityshield/dispatch/core/model"
)

var (
	// ErrNotFound is returned when the incident id is unknown.
	ErrNotFound = errors.New("incident: not found")
	// ErrValidation is returned when incident creation is rejected.
	ErrValidation = errors.New("incident: validation failed")
)

// CreateParams carries the fields required to create an incident. Lat and Lng
// are pointers so that a report with unresolved coordinates is rejected
// rather than silently stored at the origin.
type CreateParams struct {
	ID        string
	Type      string
	Summary   string
	Location  string
	Lat       *float64
	Lng       *float64
	Severity  model.Severity
	Source    string
	RawText   string
	Timestamp time.Time
	Bias      *model.BiasAnnotation
}

// Store provides snapshot reads and per-incident atomic mutations.
type Store interface {
	// Create validates and stores a new incident with status New.
	Create(p CreateParams) (model.Incident, error)
	// Get returns a snapshot of a single incident.
	Get(id string) (model.Incident, error)
	// List returns all incidents, newest first.
	List() []model.Incident
	// ListActive returns the incidents not yet resolved, newest first.
	ListActive() []model.Incident
	// SetStatus updates the lifecycle status.
	SetStatus(id string, st model.IncidentStatus) error
	// AttachUnit records the unit assigned to the incident.
	AttachUnit(id, unitID string) error
	// EscalateActive raises every non-resolved incident to Critical and
	// returns the number of incidents touched.
	EscalateActive() int
}

// MemoryStore is the in-memory Store used in production and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]*model.Incident
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]*model.Incident)}
}

// Create validates the parameters and stores the incident with status New.
func (s *MemoryStore) Create(p CreateParams) (model.Incident, error) {
	if p.ID == "" {
		return model.Incident{}, fmt.Errorf("%w: missing id", ErrValidation)
	}
	if p.Lat == nil || p.Lng == nil {
		return model.Incident{}, fmt.Errorf("%w: missing coordinates", ErrValidation)
	}
	if p.Severity < model.SeverityLow || p.Severity > model.SeverityCritical {
		return model.Incident{}, fmt.Errorf("%w: unknown severity", ErrValidation)
	}
	ts := p.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	inc := model.Incident{
		ID:          p.ID,
		Type:        p.Type,
		Description: p.Summary,
		Location:    p.Location,
		Lat:         *p.Lat,
		Lng:         *p.Lng,
		Severity:    p.Severity,
		Timestamp:   ts,
		Status:      model.IncidentNew,
		Source:      p.Source,
		RawText:     p.RawText,
		Bias:        p.Bias,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[inc.ID]; ok {
		return model.Incident{}, fmt.Errorf("%w: duplicate id %s", ErrValidation, inc.ID)
	}
	cp := inc
	s.data[inc.ID] = &cp
	return inc, nil
}

// Get returns a snapshot of the incident with the given id.
func (s *MemoryStore) Get(id string) (model.Incident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inc, ok := s.data[id]
	if !ok {
		return model.Incident{}, ErrNotFound
	}
	return *inc, nil
}

func (s *MemoryStore) list(filter func(model.Incident) bool) []model.Incident {
	s.mu.RLock()
	out := make([]model.Incident, 0, len(s.data))
	for _, inc := range s.data {
		if filter == nil || filter(*inc) {
			out = append(out, *inc)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// List returns all incidents, newest first.
func (s *MemoryStore) List() []model.Incident { return s.list(nil) }

// ListActive returns the non-resolved incidents, newest first.
func (s *MemoryStore) ListActive() []model.Incident {
	return s.list(model.Incident.Active)
}

// SetStatus updates the lifecycle status of a single incident.
func (s *MemoryStore) SetStatus(id string, st model.IncidentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inc, ok := s.data[id]
	if !ok {
		return ErrNotFound
	}
	inc.Status = st
	return nil
}

// AttachUnit records the assigned unit on the incident.
func (s *MemoryStore) AttachUnit(id, unitID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inc, ok := s.data[id]
	if !ok {
		return ErrNotFound
	}
	inc.AssignedUnitID = unitID
	return nil
}

// EscalateActive raises every non-resolved incident to Critical severity.
// Resolved incidents are untouched.
func (s *MemoryStore) EscalateActive() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, inc := range s.data {
		if inc.Status == model.IncidentResolved {
			continue
		}
		inc.Severity = model.SeverityCritical
		n++
	}
	return n
}
