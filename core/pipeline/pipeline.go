// Package pipeline defines the contracts for the external collaborators the
// dispatch loop depends on: the report source, the extractor and the bias
// annotator. Implementations wrap fallible services and must degrade to the
// documented neutral values instead of propagating failures, so the loop can
// run indefinitely regardless of collaborator health.
package pipeline

import (
	"context"

	"github.com/communityshield/dispatch/core/model"
)

// Source produces raw unstructured reports, one per call.
type Source interface {
	Next(ctx context.Context) (model.RawReport, error)
}

// Extraction is the tagged result of running the extractor. Callers must
// check Resolved before reading Report: the failed path carries the neutral
// placeholder values (type Unknown, severity Medium, nil coordinates) and
// reading them as real data is a bug the tag exists to prevent.
type Extraction struct {
	Report   model.StructuredReport
	Resolved bool
}

// Failed returns the neutral extraction used whenever the underlying service
// is unreachable, misconfigured or returns unusable output.
func Failed() Extraction {
	return Extraction{
		Report: model.StructuredReport{
			Type:     "Unknown",
			Severity: model.SeverityMedium,
			Location: "Unknown",
			Summary:  "Analysis Failed",
		},
	}
}

// Resolved wraps a structured report whose coordinates are present.
func Resolved(r model.StructuredReport) Extraction {
	return Extraction{Report: r, Resolved: r.Lat != nil && r.Lng != nil}
}

// Extractor turns raw text into a structured report. It never returns an
// error: unreachable or misconfigured backends yield Failed().
type Extractor interface {
	Extract(ctx context.Context, raw model.RawReport) Extraction
}

// Annotator scores a structured report for potential bias. It never fails;
// the keyword fallback produces the same annotation shape as the AI path.
type Annotator interface {
	Annotate(ctx context.Context, report model.StructuredReport) model.BiasAnnotation
}
