package normalizer

import "testing"

func TestBorough(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"direct mention", "Permits Filed for 123 Main Street in Brooklyn", "Brooklyn"},
		{"case-insensitive", "NEW TOWER RISES IN QUEENS", "Queens"},
		{"two-word borough", "a lot on staten island", "Staten Island"},
		{"substring containment, no word boundary", "the queensboro bridge approach", "Queens"},
		{"fixed check order", "from Brooklyn to Manhattan", "Manhattan"},
		{"no borough", "a building in Albany", ""},
		{"empty text", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Borough(tc.text); got != tc.want {
				t.Errorf("Borough(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}
