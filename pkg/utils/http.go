// Package utils provides common utility functions.
package utils

import "net/http"

// UserAgent identifies the scanner to the sources it fetches from.
const UserAgent = "AcreNY-DevBot/1.0 (+https://acre.example) GoHTTP"

// BuildHeaders creates HTTP headers with defaults.
func BuildHeaders(customHeaders map[string]string) http.Header {
	headers := http.Header{}

	// Add default headers
	headers.Set("User-Agent", UserAgent)
	headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	// Add custom headers
	for key, value := range customHeaders {
		headers.Set(key, value)
	}

	return headers
}
