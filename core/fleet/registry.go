// Package fleet owns the patrol unit roster and its availability state. The
// roster is seeded once at startup and never grows or shrinks during a run.
package fleet

import (
	"errors"
	"sync"

	"github.com/communityshield/dispatch/core/geo"
	"github.com/communityshield/dispatch/core/model"
)

var (
	// ErrNotFound is returned when the unit id is not part of the roster.
	ErrNotFound = errors.New("fleet: unit not found")
	// ErrNotIdle is returned when an assignment targets a unit that is
	// already engaged.
	ErrNotIdle = errors.New("fleet: unit not idle")
)

// Registry provides snapshot reads and atomic mutations over the unit roster.
// Implementations must guarantee that a concurrent reader never observes a
// non-Idle unit without its incident reference set, or vice versa.
type Registry interface {
	// List returns a stable-ordered snapshot of the roster.
	List() []model.PatrolUnit
	// Idle returns the subset of units currently available, in roster order.
	Idle() []model.PatrolUnit
	// Get returns a snapshot of a single unit.
	Get(id string) (model.PatrolUnit, error)
	// Assign marks the unit EnRoute towards the incident and stores the
	// advisory route. Fails with ErrNotFound or ErrNotIdle.
	Assign(id, incidentID string, route []geo.Point) error
	// MarkIdle returns the unit to the available pool, clearing its
	// incident reference and route.
	MarkIdle(id string) error
}

// MemoryRegistry is the in-memory Registry used in production and tests.
type MemoryRegistry struct {
	mu    sync.RWMutex
	units map[string]*model.PatrolUnit
	order []string
}

// NewMemoryRegistry seeds a registry with the given roster. Iteration order
// follows the roster slice, which makes nearest-unit tie-breaking
// deterministic for a fixed configuration.
func NewMemoryRegistry(roster []model.PatrolUnit) *MemoryRegistry {
	r := &MemoryRegistry{units: make(map[string]*model.PatrolUnit, len(roster))}
	for _, u := range roster {
		if _, ok := r.units[u.ID]; ok {
			continue
		}
		cp := u
		r.units[u.ID] = &cp
		r.order = append(r.order, u.ID)
	}
	return r
}

func (r *MemoryRegistry) snapshot(u *model.PatrolUnit) model.PatrolUnit {
	cp := *u
	if u.Route != nil {
		cp.Route = append([]geo.Point(nil), u.Route...)
	}
	return cp
}

// List returns a stable-ordered snapshot of the roster.
func (r *MemoryRegistry) List() []model.PatrolUnit {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.PatrolUnit, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.snapshot(r.units[id]))
	}
	return out
}

// Idle returns the available units in roster order.
func (r *MemoryRegistry) Idle() []model.PatrolUnit {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.PatrolUnit, 0, len(r.order))
	for _, id := range r.order {
		if u := r.units[id]; u.Status == model.UnitIdle {
			out = append(out, r.snapshot(u))
		}
	}
	return out
}

// Get returns a snapshot of the unit with the given id.
func (r *MemoryRegistry) Get(id string) (model.PatrolUnit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.units[id]
	if !ok {
		return model.PatrolUnit{}, ErrNotFound
	}
	return r.snapshot(u), nil
}

// Assign transitions the unit to EnRoute and attaches the incident reference
// and advisory route in a single critical section.
func (r *MemoryRegistry) Assign(id, incidentID string, route []geo.Point) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.units[id]
	if !ok {
		return ErrNotFound
	}
	if u.Status != model.UnitIdle {
		return ErrNotIdle
	}
	u.Status = model.UnitEnRoute
	u.CurrentIncidentID = incidentID
	u.Route = append([]geo.Point(nil), route...)
	return nil
}

// MarkIdle is the inverse of Assign.
func (r *MemoryRegistry) MarkIdle(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.units[id]
	if !ok {
		return ErrNotFound
	}
	u.Status = model.UnitIdle
	u.CurrentIncidentID = ""
	u.Route = nil
	return nil
}

// IDs returns the roster ids in iteration order. Mainly useful in tests.
func (r *MemoryRegistry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}
