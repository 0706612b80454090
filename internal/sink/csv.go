package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"devscan/internal/models"
)

// CSVSink writes the table to a CSV file, replacing any previous run's
// output. The header row is always written, so downstream consumers find a
// well-formed artifact even when the run produced zero rows.
type CSVSink struct {
	path string
}

// NewCSVSink creates a CSV sink writing to path.
func NewCSVSink(path string) *CSVSink {
	return &CSVSink{path: path}
}

// Write writes the header and one row per record.
func (s *CSVSink) Write(_ context.Context, records []models.Record) (int, error) {
	f, err := os.Create(s.path)
	if err != nil {
		return 0, fmt.Errorf("failed to create CSV file: %w", err)
	}

	w := csv.NewWriter(f)

	if err := w.Write(models.Columns); err != nil {
		f.Close()

		return 0, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range records {
		if err := w.Write(r.Row()); err != nil {
			f.Close()

			return 0, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		f.Close()

		return 0, fmt.Errorf("failed to flush CSV: %w", err)
	}

	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("failed to close CSV file: %w", err)
	}

	return len(records), nil
}
