// Package models defines the normalized record type shared by all source
// adapters and sinks.
package models

import "strings"

// Columns is the fixed column order of the output table.
var Columns = []string{"date", "source", "title", "address", "borough", "developers", "url"}

// Record is one normalized development-activity row. A record is assembled
// once by its source adapter and never mutated afterwards; it is either
// retained through filtering and dedup into the final table or dropped.
type Record struct {
	// Date is the America/New_York calendar date the item is attributed to,
	// formatted as 2006-01-02.
	Date string
	// Source is the human-readable source name (one per adapter or dataset).
	Source string
	// Title is the article headline or a derived job description.
	Title string
	// Address is a best-effort street address; may be empty.
	Address string
	// Borough is one of the five borough names, or "" when unknown.
	Borough string
	// Developers holds up to three distinct organization or person names in
	// first-seen extraction order.
	Developers []string
	// URL is the per-article URL for news sources, or the dataset endpoint
	// for open-data rows (individual API rows have no stable URL).
	URL string
}

// Key is the in-run deduplication identity of a record. Date is deliberately
// excluded: two items that differ only by date collapse to the first one
// seen, so a repost of the same title and address on a later day does not
// produce a second row.
func (r *Record) Key() string {
	return r.Source + "\x00" +
		strings.ToLower(strings.TrimSpace(r.Title)) + "\x00" +
		strings.ToLower(strings.TrimSpace(r.Address))
}

// DevelopersCell renders the developers list for one table cell.
func (r *Record) DevelopersCell() string {
	return strings.Join(r.Developers, "; ")
}

// Row returns the record as a table row in Columns order.
func (r *Record) Row() []string {
	return []string{r.Date, r.Source, r.Title, r.Address, r.Borough, r.DevelopersCell(), r.URL}
}
