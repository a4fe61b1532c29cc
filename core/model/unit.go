package model

import (
	"fmt"

	"github.com/communityshield/dispatch/core/geo"
)

// UnitStatus tracks a patrol unit's availability.
type UnitStatus int

const (
	UnitIdle UnitStatus = iota
	UnitEnRoute
	UnitBusy
)

// String returns a human-readable representation of the status.
func (s UnitStatus) String() string {
	switch s {
	case UnitIdle:
		return "Idle"
	case UnitEnRoute:
		return "EnRoute"
	case UnitBusy:
		return "Busy"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s UnitStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *UnitStatus) UnmarshalText(b []byte) error {
	switch string(b) {
	case "Idle":
		*s = UnitIdle
	case "EnRoute":
		*s = UnitEnRoute
	case "Busy":
		*s = UnitBusy
	default:
		return fmt.Errorf("unknown unit status %q", b)
	}
	return nil
}

// PatrolUnit is a response asset with a position and availability status.
// The roster is fixed for the lifetime of the process; only status, the
// incident reference and the advisory route mutate.
type PatrolUnit struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Lat               float64     `json:"lat"`
	Lng               float64     `json:"lng"`
	Status            UnitStatus  `json:"status"`
	CurrentIncidentID string      `json:"current_incident_id,omitempty"`
	Route             []geo.Point `json:"current_route,omitempty"`
}

// Position returns the unit's current coordinates.
func (u PatrolUnit) Position() geo.Point { return geo.Point{Lat: u.Lat, Lng: u.Lng} }
