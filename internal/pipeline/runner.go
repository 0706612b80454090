package pipeline

import (
	"context"

	"devscan/internal/logger"
	"devscan/internal/models"
	"devscan/internal/sources"
)

// Runner executes the source adapters sequentially and concatenates their
// records in adapter order.
type Runner struct {
	sources []sources.Source
	log     *logger.Logger
}

// NewRunner creates a runner over the given adapters. Order matters: it is
// the tiebreak order the deduplicator sees.
func NewRunner(srcs []sources.Source, log *logger.Logger) *Runner {
	return &Runner{
		sources: srcs,
		log:     log,
	}
}

// Run fetches every source to completion, one at a time. A failing source
// contributes zero records and does not affect the others.
func (r *Runner) Run(ctx context.Context) []models.Record {
	var all []models.Record

	for _, src := range r.sources {
		recs, err := src.Fetch(ctx)
		if err != nil {
			r.log.Warn("source failed", "source", src.Name(), "error", err)

			continue
		}

		r.log.Info("source complete", "source", src.Name(), "records", len(recs))

		all = append(all, recs...)
	}

	return all
}
