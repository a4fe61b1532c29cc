package model

import (
	"fmt"
	"time"
)

// IncidentStatus tracks an incident through its lifecycle.
type IncidentStatus int

const (
	IncidentNew IncidentStatus = iota
	IncidentAssigned
	IncidentResolved
)

// String returns a human-readable representation of the status.
func (s IncidentStatus) String() string {
	switch s {
	case IncidentNew:
		return "New"
	case IncidentAssigned:
		return "Assigned"
	case IncidentResolved:
		return "Resolved"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so the status serializes as its name.
func (s IncidentStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *IncidentStatus) UnmarshalText(b []byte) error {
	switch string(b) {
	case "New":
		*s = IncidentNew
	case "Assigned":
		*s = IncidentAssigned
	case "Resolved":
		*s = IncidentResolved
	default:
		return fmt.Errorf("unknown incident status %q", b)
	}
	return nil
}

// Severity orders incidents by urgency.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

// String returns a human-readable representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "Low"
	case SeverityMedium:
		return "Medium"
	case SeverityHigh:
		return "High"
	case SeverityCritical:
		return "Critical"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(b []byte) error {
	sev, ok := ParseSeverity(string(b))
	if !ok {
		return fmt.Errorf("unknown severity %q", b)
	}
	*s = sev
	return nil
}

// ParseSeverity maps a severity name to its enum value.
func ParseSeverity(s string) (Severity, bool) {
	switch s {
	case "Low":
		return SeverityLow, true
	case "Medium":
		return SeverityMedium, true
	case "High":
		return SeverityHigh, true
	case "Critical":
		return SeverityCritical, true
	default:
		return 0, false
	}
}

// Incident is a structured record of a reported event requiring response.
// The ID is immutable once created; incidents are never deleted, only resolved.
type Incident struct {
	ID             string          `json:"id"`
	Type           string          `json:"type"`
	Description    string          `json:"description"`
	Location       string          `json:"location"`
	Lat            float64         `json:"lat"`
	Lng            float64         `json:"lng"`
	Severity       Severity        `json:"severity"`
	Timestamp      time.Time       `json:"timestamp"`
	Status         IncidentStatus  `json:"status"`
	Source         string          `json:"source"`
	RawText        string          `json:"raw_text,omitempty"`
	AssignedUnitID string          `json:"assigned_unit_id,omitempty"`
	Bias           *BiasAnnotation `json:"bias_check,omitempty"`
}

// Active reports whether the incident still requires a response.
func (i Incident) Active() bool { return i.Status != IncidentResolved }
