package utils

import "strings"

// CollapseWhitespace replaces runs of whitespace with single spaces and
// trims the ends.
func CollapseWhitespace(str string) string {
	return strings.Join(strings.Fields(str), " ")
}

// TruncateString truncates a string to max length for log lines.
func TruncateString(str string, maxLength int) string {
	if len(str) <= maxLength {
		return str
	}

	return str[:maxLength] + "..."
}
