// Package bias scores structured reports for potentially biased reporting.
// Two paths exist: an AI-backed annotator and a keyword fallback. Both emit
// the exact same annotation shape so downstream code never branches on which
// path ran.
package bias

import (
	"context"
	"fmt"
	"strings"

	"github.com/communityshield/dispatch/core/model"
)

// flagThreshold is the score above which an annotation is Flagged.
const flagThreshold = 0.4

// subjectiveKeywords may indicate subjective reporting when they justify a
// high severity without specific evidence.
var subjectiveKeywords = []string{"suspicious", "sketchy", "out of place", "loitering", "gang"}

// sensitiveLocations historically face over-reporting; a Critical severity
// there warrants a second look.
var sensitiveLocations = []string{"Kibera", "Mathare"}

// KeywordAnnotator is the deterministic keyword-based bias check. It also
// serves as the fallback for the AI path.
type KeywordAnnotator struct{}

// Annotate implements pipeline.Annotator.
func (KeywordAnnotator) Annotate(_ context.Context, report model.StructuredReport) model.BiasAnnotation {
	description := strings.ToLower(report.Summary + " " + report.Location)

	var warnings []string
	score := 0.0

	if report.Severity >= model.SeverityHigh {
		for _, word := range subjectiveKeywords {
			if strings.Contains(description, word) {
				warnings = append(warnings, fmt.Sprintf(
					"High severity assigned with subjective keyword: %q. Verify objective threat.", word))
				score += 0.3
			}
		}
	}
	if report.Severity == model.SeverityCritical {
		for _, loc := range sensitiveLocations {
			if strings.Contains(description, strings.ToLower(loc)) {
				warnings = append(warnings, fmt.Sprintf(
					"Critical severity in sensitive zone %q. Ensure severity matches specific threat indicators.", loc))
				score += 0.2
			}
		}
	}
	if score > 1.0 {
		score = 1.0
	}

	status := model.BiasClear
	if score > flagThreshold {
		status = model.BiasFlagged
	}
	return model.BiasAnnotation{
		Score:    score,
		Status:   status,
		Warnings: warnings,
		Method:   "keyword",
	}
}
