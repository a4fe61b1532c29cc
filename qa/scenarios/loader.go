// Package scenarios runs YAML-described end-to-end checks against the
// dispatch engine: a fixed roster, a scripted report stream and the expected
// cycle outcomes.
package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/communityshield/dispatch/core/model"
)

type UnitDef struct {
	ID   string  `yaml:"id"`
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lng  float64 `yaml:"lng"`
}

func (u UnitDef) ToModel() model.PatrolUnit {
	return model.PatrolUnit{ID: u.ID, Name: u.Name, Lat: u.Lat, Lng: u.Lng}
}

type ReportDef struct {
	ID     string `yaml:"id"`
	Text   string `yaml:"text"`
	Source string `yaml:"source"`
}

func (r ReportDef) ToModel() model.RawReport {
	return model.RawReport{ID: r.ID, RawText: r.Text, Source: r.Source}
}

type Expected struct {
	Assigned  int `yaml:"assigned"`
	NoUnits   int `yaml:"no_units"`
	Discarded int `yaml:"discarded"`
	Flagged   int `yaml:"flagged"`
}

type Scenario struct {
	Name        string      `yaml:"name"`
	Description string      `yaml:"description,omitempty"`
	Units       []UnitDef   `yaml:"units"`
	Reports     []ReportDef `yaml:"reports"`
	Expected    Expected    `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
