package config

import "fmt"

// UnitConfig declares one patrol unit in the roster.
type UnitConfig struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// FleetConfig defines the patrol unit roster seeded at startup.
type FleetConfig struct {
	Units []UnitConfig `json:"units"`
}

// SetDefaults seeds the standard Nairobi roster when no units are declared.
func (c *FleetConfig) SetDefaults() {
	if len(c.Units) > 0 {
		return
	}
	c.Units = []UnitConfig{
		{ID: "U-001", Name: "Alpha 1", Lat: -1.2834, Lng: 36.8235},
		{ID: "U-002", Name: "Bravo 2", Lat: -1.2635, Lng: 36.8024},
		{ID: "U-003", Name: "Charlie 3", Lat: -1.3120, Lng: 36.7890},
		{ID: "U-004", Name: "Delta 4", Lat: -1.2760, Lng: 36.8480},
		{ID: "U-005", Name: "Echo 5", Lat: -1.2921, Lng: 36.8219},
	}
}

// Validate checks roster integrity.
func (c FleetConfig) Validate() error {
	seen := make(map[string]struct{}, len(c.Units))
	for _, u := range c.Units {
		if u.ID == "" {
			return fmt.Errorf("unit id is required")
		}
		if _, dup := seen[u.ID]; dup {
			return fmt.Errorf("duplicate unit id %s", u.ID)
		}
		seen[u.ID] = struct{}{}
	}
	return nil
}
