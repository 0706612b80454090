// Package normalizer turns heterogeneous source items into the fields of a
// normalized record: timestamps, schema values, developer names, boroughs,
// and construction-type gating.
package normalizer

import (
	"strings"
	"time"

	// Embed tzdata so the America/New_York attribution date works on hosts
	// without a system zone database.
	_ "time/tzdata"
)

// timeFormats are tried in priority order; the first successful parse wins.
var timeFormats = []string{
	"Mon, 2 Jan 2006 15:04:05 -0700", // RSS pubDate
	"Mon, 2 Jan 2006 15:04:05 MST",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02",
}

// nakedFormats are the generic ISO fallbacks for timestamps without an
// offset. Parsed values are taken as UTC.
var nakedFormats = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
}

// nyTZ is the attribution timezone for output dates.
var nyTZ = func() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.UTC
	}

	return loc
}()

// ParseTimestamp parses one of the known timestamp layouts. If none match,
// it attempts a generic ISO parse after normalizing a trailing Z to an
// explicit UTC offset. Timestamps without a zone are assumed UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range timeFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	iso := s
	if strings.HasSuffix(iso, "Z") {
		iso = strings.TrimSuffix(iso, "Z") + "+00:00"
	}

	if t, err := time.Parse("2006-01-02T15:04:05-07:00", iso); err == nil {
		return t, true
	}

	for _, layout := range nakedFormats {
		if t, err := time.Parse(layout, iso); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// ResolveOrNow parses the timestamp and substitutes now when it is missing or
// unparsable. The fail-open default keeps items with broken dates in the run
// (completeness over strict recency).
func ResolveOrNow(s string, now time.Time) time.Time {
	if t, ok := ParseTimestamp(s); ok {
		return t
	}

	return now
}

// Recent reports whether t falls inside the lookback window ending at now.
// Only the lower bound is checked; future-dated items pass.
func Recent(t, now time.Time, window time.Duration) bool {
	return !t.Before(now.Add(-window))
}

// AttributionDate formats the America/New_York calendar date an instant is
// attributed to.
func AttributionDate(t time.Time) string {
	return t.In(nyTZ).Format("2006-01-02")
}
