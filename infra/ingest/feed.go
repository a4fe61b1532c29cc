package ingest

import (
	"context"

	"github.com/communityshield/dispatch/core/model"
	"github.com/communityshield/dispatch/core/pipeline"
)

// Buffered is a source that can hand over a report without blocking.
type Buffered interface {
	TryNext() (model.RawReport, bool)
}

// Feed prefers externally published reports and falls back to the generator
// when none are buffered, so the dispatch loop never starves.
type Feed struct {
	primary  Buffered
	fallback pipeline.Source
}

// NewFeed combines a buffered primary source with a fallback generator. A
// nil primary degrades to the fallback alone.
func NewFeed(primary Buffered, fallback pipeline.Source) *Feed {
	return &Feed{primary: primary, fallback: fallback}
}

// Next implements pipeline.Source.
func (f *Feed) Next(ctx context.Context) (model.RawReport, error) {
	if f.primary != nil {
		if raw, ok := f.primary.TryNext(); ok {
			return raw, nil
		}
	}
	return f.fallback.Next(ctx)
}
