// Package sink provides the pluggable outputs the aggregated table is
// written to: the CSV artifact, the append-only history sinks, and the
// markdown preview renderer.
package sink

import (
	"context"
	"strings"

	"devscan/internal/models"
)

// Sink persists the aggregated table and reports how many rows it wrote.
type Sink interface {
	Write(ctx context.Context, records []models.Record) (int, error)
}

// HistoryKey is the identity a history sink dedups on across runs. Unlike
// the in-run dedup key it includes the date, so the same item may appear in
// the history once per attributed day.
func HistoryKey(date, source, title, address string) string {
	return date + "\x00" + source + "\x00" +
		strings.ToLower(title) + "\x00" + strings.ToLower(address)
}
