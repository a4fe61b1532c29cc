package model

import "time"

// RawReport is an unstructured report as produced by an ingestion source.
type RawReport struct {
	ID        string    `json:"id"`
	RawText   string    `json:"raw_text"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// StructuredReport is the extractor's view of a raw report. Lat and Lng are
// pointers because extraction may fail to resolve coordinates; a report with
// nil coordinates must never become an incident.
type StructuredReport struct {
	Type     string   `json:"type"`
	Severity Severity `json:"severity"`
	Location string   `json:"location"`
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
	Summary  string   `json:"summary"`
}

// BiasStatus is the verdict of a bias check.
type BiasStatus string

const (
	BiasClear   BiasStatus = "Clear"
	BiasFlagged BiasStatus = "Flagged"
)

// BiasAnnotation scores a structured report for potentially biased reporting.
// Both the AI and the keyword paths produce this exact shape; Method records
// which path ran so downstream code never needs to branch on it.
type BiasAnnotation struct {
	Score     float64    `json:"score"`
	Status    BiasStatus `json:"status"`
	Warnings  []string   `json:"warnings"`
	Reasoning string     `json:"reasoning,omitempty"`
	Method    string     `json:"method"`
}
