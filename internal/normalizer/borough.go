package normalizer

import "strings"

// boroughs is checked in fixed order; the first lowercase substring hit
// wins. Substring containment only, no word-boundary check.
var boroughs = []struct {
	needle string
	name   string
}{
	{"manhattan", "Manhattan"},
	{"brooklyn", "Brooklyn"},
	{"queens", "Queens"},
	{"bronx", "Bronx"},
	{"staten island", "Staten Island"},
}

// Borough maps free text to one of the five borough names, or "" when none
// is mentioned.
func Borough(text string) string {
	t := strings.ToLower(text)

	for _, b := range boroughs {
		if strings.Contains(t, b.needle) {
			return b.name
		}
	}

	return ""
}
