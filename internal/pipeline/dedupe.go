// Package pipeline combines the source adapters' records into the final
// ordered table: developer filtering, in-run deduplication, and sorting.
package pipeline

import "devscan/internal/models"

// Dedupe retains the first occurrence of each identity key, preserving
// order. The key excludes the date, so the same title and address reported
// again on a later day collapses into the first-seen record.
func Dedupe(records []models.Record) []models.Record {
	seen := make(map[string]bool, len(records))
	uniq := make([]models.Record, 0, len(records))

	for _, r := range records {
		key := r.Key()
		if seen[key] {
			continue
		}

		seen[key] = true

		uniq = append(uniq, r)
	}

	return uniq
}
