package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/communityshield/dispatch/core/model"
)

func TestHeuristicExtractResolvesLandmark(t *testing.T) {
	ex := HeuristicExtractor{}
	res := ex.Extract(context.Background(), model.RawReport{
		ID:      "R-1",
		RawText: "ALERT: Police Radio reporting Robbery in progress near Kibera near DC.",
	})
	require.True(t, res.Resolved)
	assert.Equal(t, "Robbery", res.Report.Type)
	assert.Equal(t, model.SeverityHigh, res.Report.Severity)
	assert.Equal(t, "Kibera", res.Report.Location)
	require.NotNil(t, res.Report.Lat)
	require.NotNil(t, res.Report.Lng)
	assert.Equal(t, -1.3120, *res.Report.Lat)
	assert.Equal(t, 36.7890, *res.Report.Lng)
}

func TestHeuristicExtractSeverityMapping(t *testing.T) {
	cases := []struct {
		text string
		typ  string
		sev  model.Severity
	}{
		{"gunfire heard near the cbd archives", "Gunfire", model.SeverityCritical},
		{"carjacking at westlands near sarit", "Carjacking", model.SeverityHigh},
		{"traffic accident on thika road", "Traffic Accident", model.SeverityMedium},
		{"suspicious person at karen", "Suspicious Activity", model.SeverityLow},
		{"loud noise complaint at eastleigh", "Unknown", model.SeverityMedium},
	}
	ex := HeuristicExtractor{}
	for _, c := range cases {
		res := ex.Extract(context.Background(), model.RawReport{RawText: c.text})
		require.True(t, res.Resolved, c.text)
		assert.Equal(t, c.typ, res.Report.Type, c.text)
		assert.Equal(t, c.sev, res.Report.Severity, c.text)
	}
}

func TestHeuristicExtractUnknownLocation(t *testing.T) {
	ex := HeuristicExtractor{}
	res := ex.Extract(context.Background(), model.RawReport{
		RawText: "Robbery in progress somewhere downtown",
	})
	assert.False(t, res.Resolved)
	assert.Nil(t, res.Report.Lat)
	assert.Nil(t, res.Report.Lng)
	assert.Equal(t, "Analysis Failed", res.Report.Summary)
}
