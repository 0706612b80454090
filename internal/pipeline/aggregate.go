package pipeline

import (
	"sort"

	"devscan/internal/models"
)

// Aggregate produces the final table: records with no identified developer
// are dropped, duplicates collapse to the first seen, and the remainder is
// stably sorted by date descending, then source ascending. The input slice
// is not modified, and the result is deterministic for a given input.
func Aggregate(records []models.Record) []models.Record {
	kept := make([]models.Record, 0, len(records))

	for _, r := range records {
		if len(r.Developers) > 0 {
			kept = append(kept, r)
		}
	}

	kept = Dedupe(kept)

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Date != kept[j].Date {
			return kept[i].Date > kept[j].Date
		}

		return kept[i].Source < kept[j].Source
	})

	return kept
}
