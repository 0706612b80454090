package normalizer

import (
	"fmt"
	"regexp"
	"strings"
)

// maxNames bounds how many candidates a single text may contribute.
const maxNames = 3

// Rules is the extraction rule table. Triggers are tried in order and form
// one family: every trigger is scanned, and only if the whole family yields
// nothing does the bare organization-suffix fallback run.
type Rules struct {
	// Triggers are case-insensitive verb-phrase regex fragments. A
	// capitalized name phrase is expected immediately after each.
	Triggers []string
	// OrgSuffixes is the legal-entity token allowlist that lets a name
	// phrase be recognized without a trigger.
	OrgSuffixes []string
}

// DefaultRules returns the built-in rule table.
func DefaultRules() Rules {
	return Rules{
		Triggers: []string{
			`(?:is|are) listed as the (?:owner|developer|applicant|sponsor)[^,.]*?`,
			`(?:the\s+)?developer(?:s)?\s+(?:is|are)\s+`,
			`developed\s+by\s+`,
			`owner\s+(?:is|are)\s+`,
		},
		OrgSuffixes: []string{
			"LLC", "LLP", "LP", "Inc.", "Incorporated", "Ltd.", "Ltd",
			"Corp.", "Corporation", "Company", "Group", "Partners",
			"Properties", "Holdings", "Realty", "Development", "Builders",
			"Construction", "Management",
		},
	}
}

// Extractor pulls developer/owner organization names out of free text. It is
// pure and total over string input: no input produces an error, absence of a
// match is an empty result.
type Extractor struct {
	triggers []*regexp.Regexp
	fallback *regexp.Regexp
}

// NewExtractor compiles the rule table. Rules with empty lists fall back to
// the corresponding defaults.
func NewExtractor(rules Rules) (*Extractor, error) {
	defaults := DefaultRules()
	if len(rules.Triggers) == 0 {
		rules.Triggers = defaults.Triggers
	}

	if len(rules.OrgSuffixes) == 0 {
		rules.OrgSuffixes = defaults.OrgSuffixes
	}

	quoted := make([]string, 0, len(rules.OrgSuffixes))
	for _, s := range rules.OrgSuffixes {
		quoted = append(quoted, regexp.QuoteMeta(s))
	}

	suffixAlt := strings.Join(quoted, "|")

	// A name phrase starts with an uppercase letter and runs through word
	// characters, ampersands, apostrophes, periods, hyphens, and spaces,
	// optionally ending in an organization suffix.
	namePhrase := `\b([A-Z][\w&'.\- ]+(?:\s+(?:` + suffixAlt + `))?)`

	triggers := make([]*regexp.Regexp, 0, len(rules.Triggers))

	for _, trigger := range rules.Triggers {
		pat, err := regexp.Compile(`(?i:` + trigger + `)` + namePhrase)
		if err != nil {
			return nil, fmt.Errorf("invalid trigger rule %q: %w", trigger, err)
		}

		triggers = append(triggers, pat)
	}

	fallback, err := regexp.Compile(`\b([A-Z][\w&'.\- ]+\s(?:` + suffixAlt + `))(?:\W|$)`)
	if err != nil {
		return nil, fmt.Errorf("invalid org suffix rule: %w", err)
	}

	return &Extractor{
		triggers: triggers,
		fallback: fallback,
	}, nil
}

// Names returns an ordered, deduplicated list of at most three candidate
// organization or person names believed to be the responsible party.
func (e *Extractor) Names(text string) []string {
	var names []string

	for _, pat := range e.triggers {
		for _, m := range pat.FindAllStringSubmatch(text, -1) {
			names = appendName(names, m[1])
		}
	}

	if len(names) == 0 {
		for _, m := range e.fallback.FindAllStringSubmatch(text, -1) {
			names = appendName(names, m[1])
		}
	}

	if len(names) > maxNames {
		names = names[:maxNames]
	}

	return names
}

// appendName trims trailing punctuation and keeps first-seen occurrences.
// Deduplication is case-sensitive exact match.
func appendName(names []string, raw string) []string {
	name := strings.TrimRight(strings.TrimSpace(raw), ",.;:")
	if name == "" {
		return names
	}

	for _, existing := range names {
		if existing == name {
			return names
		}
	}

	return append(names, name)
}
