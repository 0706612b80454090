package normalizer

import (
	"regexp"
	"strings"
)

// extraTypeFields are always consulted in addition to a dataset's own title
// fields when assembling the classification text.
var extraTypeFields = []string{
	"work_type", "job_type", "permit_type", "permit_subtype",
	"work_type_description", "job_description",
}

// permitCodes are standalone permit-type codes (word-boundary match only, so
// "ribbon" does not hit "nb").
var permitCodes = regexp.MustCompile(`\b(nb|dm|a1|a2|a3)\b`)

// ConstructionRules is the block/allow substring table for the
// general-construction gate. The block list takes absolute precedence.
type ConstructionRules struct {
	Block []string
	Allow []string
}

// DefaultConstructionRules returns the built-in rule table.
func DefaultConstructionRules() ConstructionRules {
	return ConstructionRules{
		Block: []string{
			"plumbing", "sprinkler", "standpipe", "fire suppression", "fire-suppression",
			"mechanical", "hvac", "boiler", "fuel burning", "fuel storage",
			"sign", "curb cut", "sidewalk shed", "scaffold", "antenna",
			"sprinklers", "fire alarm",
		},
		Allow: []string{
			"general construction", "ot-general construction", "ot general construction",
			"new building", "foundation", "structural", "demolition",
		},
	}
}

// ConstructionClassifier decides whether a permit record represents
// general-construction-relevant work.
type ConstructionClassifier struct {
	block []string
	allow []string
}

// NewConstructionClassifier builds a classifier from the rule table. Empty
// lists fall back to the defaults.
func NewConstructionClassifier(rules ConstructionRules) *ConstructionClassifier {
	defaults := DefaultConstructionRules()
	if len(rules.Block) == 0 {
		rules.Block = defaults.Block
	}

	if len(rules.Allow) == 0 {
		rules.Allow = defaults.Allow
	}

	return &ConstructionClassifier{
		block: rules.Block,
		allow: rules.Allow,
	}
}

// GeneralConstruction reports whether the record's classification text
// describes general-construction work. titleFields are the dataset-specific
// classification fields; a fixed extra set is always consulted too.
//
// An empty classification blob rejects. A block-list hit rejects regardless
// of any allow-list match.
func (c *ConstructionClassifier) GeneralConstruction(rec map[string]any, titleFields []string) bool {
	blob := classificationText(rec, titleFields)
	if blob == "" {
		return false
	}

	for _, b := range c.block {
		if strings.Contains(blob, b) {
			return false
		}
	}

	for _, a := range c.allow {
		if strings.Contains(blob, a) {
			return true
		}
	}

	return permitCodes.MatchString(blob)
}

// classificationText concatenates the lowercased values of all present
// classification fields into one blob. Field order is deterministic:
// dataset title fields first, then the fixed extras, duplicates skipped.
func classificationText(rec map[string]any, titleFields []string) string {
	seen := make(map[string]bool, len(titleFields)+len(extraTypeFields))

	var parts []string

	collect := func(key string) {
		if seen[key] {
			return
		}

		seen[key] = true

		if v, ok := rec[key].(string); ok && strings.TrimSpace(v) != "" {
			parts = append(parts, v)
		}
	}

	for _, k := range titleFields {
		collect(k)
	}

	for _, k := range extraTypeFields {
		collect(k)
	}

	return strings.TrimSpace(strings.ToLower(strings.Join(parts, " ")))
}
