package dispatch

import (
	"fmt"
	"time"

	"github.com/communityshield/dispatch/core/events"
	"github.com/communityshield/dispatch/core/fleet"
	"github.com/communityshield/dispatch/core/geo"
	"github.com/communityshield/dispatch/core/incident"
	"github.com/communityshield/dispatch/core/logger"
	coremetrics "github.com/communityshield/dispatch/core/metrics"
	"github.com/communityshield/dispatch/core/model"
	"github.com/communityshield/dispatch/internal/eventbus"
)

// Assignment describes a successful unit-to-incident link.
type Assignment struct {
	IncidentID string
	UnitID     string
	UnitName   string
	Distance   float64
}

// Policy implements nearest-available-unit matching. It is the only code
// path allowed to transition an incident to Assigned, which is what keeps
// the unit/incident relationship injective.
type Policy struct {
	registry  fleet.Registry
	incidents incident.Store
	bus       eventbus.EventBus
	sink      coremetrics.Sink
	log       logger.Logger
}

// NewPolicy creates an assignment policy over the given stores. The bus and
// sink are optional.
func NewPolicy(reg fleet.Registry, store incident.Store, bus eventbus.EventBus, sink coremetrics.Sink, log logger.Logger) (*Policy, error) {
	if reg == nil || store == nil || log == nil {
		return nil, fmt.Errorf("dispatch: nil parameter provided to NewPolicy")
	}
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	return &Policy{registry: reg, incidents: store, bus: bus, sink: sink, log: log}, nil
}

// Assign selects the nearest idle unit for the incident and transitions both
// entities. The boolean result distinguishes the two normal outcomes:
//
//   - (assignment, true): a unit was dispatched.
//   - (zero, false): no assignment happened, either because the incident is
//     not eligible (already assigned or resolved) or because no idle unit
//     exists. Neither case mutates any state.
//
// Calling Assign twice on the same incident is therefore a no-op the second
// time. Ties on distance go to the first unit in registry order, which is
// deterministic for a fixed roster.
func (p *Policy) Assign(inc model.Incident) (Assignment, bool) {
	return p.assign(inc, false)
}

func (p *Policy) assign(inc model.Incident, forced bool) (Assignment, bool) {
	// Eligibility is judged on the stored incident, not the caller's
	// snapshot, so a stale snapshot cannot consume a second unit.
	cur, err := p.incidents.Get(inc.ID)
	if err != nil {
		p.log.Warnf("incident %s not assignable: %v", inc.ID, err)
		return Assignment{}, false
	}
	inc = cur
	if !p.eligible(inc) {
		p.log.Debugf("incident %s not eligible for assignment (status %s)", inc.ID, inc.Status)
		return Assignment{}, false
	}

	target := geo.Point{Lat: inc.Lat, Lng: inc.Lng}
	var (
		nearest model.PatrolUnit
		minDist float64
		found   bool
	)
	for _, u := range p.registry.Idle() {
		d := geo.Distance(u.Position(), target)
		if !found || d < minDist {
			nearest, minDist, found = u, d, true
		}
	}
	if !found {
		p.log.Warnf("no units available for incident %s at %s", inc.ID, inc.Location)
		return Assignment{}, false
	}

	route := geo.Route(nearest.Position(), target)
	if err := p.registry.Assign(nearest.ID, inc.ID, route); err != nil {
		// Lost a race with a concurrent assignment; treat as no unit.
		p.log.Warnf("unit %s no longer assignable: %v", nearest.ID, err)
		return Assignment{}, false
	}
	if err := p.incidents.AttachUnit(inc.ID, nearest.ID); err != nil {
		p.log.Errorf("attach unit to incident %s: %v", inc.ID, err)
	}
	if err := p.incidents.SetStatus(inc.ID, model.IncidentAssigned); err != nil {
		p.log.Errorf("set incident %s status: %v", inc.ID, err)
	}

	asn := Assignment{IncidentID: inc.ID, UnitID: nearest.ID, UnitName: nearest.Name, Distance: minDist}
	assignmentsTotal.WithLabelValues(nearest.ID).Inc()
	if rec, ok := p.sink.(coremetrics.AssignmentRecorder); ok {
		if err := rec.RecordAssignment(coremetrics.AssignmentRecord{
			IncidentID: inc.ID,
			UnitID:     nearest.ID,
			Distance:   minDist,
			Forced:     forced,
			Time:       time.Now(),
		}); err != nil {
			p.log.Errorf("assignment metrics error: %v", err)
		}
	}
	if p.bus != nil {
		p.bus.Publish(events.AssignmentEvent{
			IncidentID: inc.ID,
			UnitID:     nearest.ID,
			UnitName:   nearest.Name,
			Location:   inc.Location,
			Forced:     forced,
			Time:       time.Now(),
		})
	}
	return asn, true
}

// eligible reports whether the incident may receive a unit: status New, or
// active but never assigned (the forced-dispatch path).
func (p *Policy) eligible(inc model.Incident) bool {
	if inc.Status == model.IncidentNew {
		return true
	}
	return inc.Status != model.IncidentResolved && inc.AssignedUnitID == ""
}

// ForceDispatch runs the policy over every active incident lacking a unit
// and returns the number of incidents newly assigned. Incidents are visited
// newest first; each consumes at most one idle unit.
func (p *Policy) ForceDispatch() int {
	count := 0
	for _, inc := range p.incidents.ListActive() {
		if inc.AssignedUnitID != "" {
			continue
		}
		if asn, ok := p.assign(inc, true); ok {
			count++
			p.log.Infof("force-dispatched %s to %s", asn.UnitName, inc.Location)
		}
	}
	return count
}
