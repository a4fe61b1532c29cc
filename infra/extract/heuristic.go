package extract

import (
	"context"
	"strings"

	"github.com/communityshield/dispatch/core/model"
	"github.com/communityshield/dispatch/core/pipeline"
)

// landmark maps name tokens found in raw text to coordinates.
type landmark struct {
	label  string
	tokens []string
	lat    float64
	lng    float64
}

var knownLandmarks = []landmark{
	{"CBD", []string{"cbd", "archives"}, -1.2834, 36.8235},
	{"Westlands", []string{"westlands", "sarit"}, -1.2635, 36.8024},
	{"Kibera", []string{"kibera"}, -1.3120, 36.7890},
	{"Eastleigh", []string{"eastleigh"}, -1.2760, 36.8480},
	{"Karen", []string{"karen"}, -1.3200, 36.7050},
	{"Thika Road", []string{"thika road", "thika"}, -1.2200, 36.8900},
}

var incidentKeywords = []struct {
	token    string
	typ      string
	severity model.Severity
}{
	{"gunfire", "Gunfire", model.SeverityCritical},
	{"robbery", "Robbery", model.SeverityHigh},
	{"assault", "Assault", model.SeverityHigh},
	{"carjacking", "Carjacking", model.SeverityHigh},
	{"medical emergency", "Medical Emergency", model.SeverityMedium},
	{"traffic accident", "Traffic Accident", model.SeverityMedium},
	{"accident", "Traffic Accident", model.SeverityMedium},
	{"theft", "Theft", model.SeverityMedium},
	{"suspicious", "Suspicious Activity", model.SeverityLow},
}

// HeuristicExtractor resolves reports offline by matching known landmark and
// incident keywords. It backs deployments without an extraction service and
// gives tests a deterministic extractor.
type HeuristicExtractor struct{}

// Extract implements pipeline.Extractor. Reports mentioning no known
// landmark stay unresolved and are discarded by the loop.
func (HeuristicExtractor) Extract(_ context.Context, raw model.RawReport) pipeline.Extraction {
	text := strings.ToLower(raw.RawText)

	var loc *landmark
	for i := range knownLandmarks {
		for _, tok := range knownLandmarks[i].tokens {
			if strings.Contains(text, tok) {
				loc = &knownLandmarks[i]
				break
			}
		}
		if loc != nil {
			break
		}
	}
	if loc == nil {
		return pipeline.Failed()
	}

	typ := "Unknown"
	sev := model.SeverityMedium
	for _, kw := range incidentKeywords {
		if strings.Contains(text, kw.token) {
			typ, sev = kw.typ, kw.severity
			break
		}
	}

	lat, lng := loc.lat, loc.lng
	return pipeline.Resolved(model.StructuredReport{
		Type:     typ,
		Severity: sev,
		Location: loc.label,
		Lat:      &lat,
		Lng:      &lng,
		Summary:  typ + " reported at " + loc.label,
	})
}
