package pipeline

import (
	"context"
	"errors"
	"testing"

	"devscan/internal/logger"
	"devscan/internal/models"
	"devscan/internal/sources"
)

type stubSource struct {
	name string
	recs []models.Record
	err  error
}

func (s stubSource) Name() string { return s.name }

func (s stubSource) Fetch(ctx context.Context) ([]models.Record, error) {
	return s.recs, s.err
}

func TestRunnerContinuesPastFailingSource(t *testing.T) {
	r := NewRunner([]sources.Source{
		stubSource{name: "first", recs: []models.Record{rec("2026-08-27", "first", "A", "1 St", "Dev")}},
		stubSource{name: "broken", err: errors.New("boom")},
		stubSource{name: "last", recs: []models.Record{rec("2026-08-27", "last", "B", "2 St", "Dev")}},
	}, logger.NewNop())

	got := r.Run(context.Background())

	if len(got) != 2 {
		t.Fatalf("Run returned %d records, want 2", len(got))
	}

	if got[0].Source != "first" || got[1].Source != "last" {
		t.Errorf("unexpected adapter order: %q, %q", got[0].Source, got[1].Source)
	}
}
