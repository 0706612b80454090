// Package main provides the render command: it reads a previously written
// scan CSV and prints it as an aligned markdown table.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strings"

	"devscan/internal/models"
	"devscan/internal/sink"
)

func main() {
	inPath := flag.String("in", "nyc_developers_daily.csv", "CSV file produced by the scan command")
	flag.Parse()

	f, err := os.Open(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(models.Columns)

	rows, err := r.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read CSV: %v\n", err)
		os.Exit(1)
	}

	var records []models.Record

	for i, row := range rows {
		// Skip the header row
		if i == 0 {
			continue
		}

		records = append(records, models.Record{
			Date:       row[0],
			Source:     row[1],
			Title:      row[2],
			Address:    row[3],
			Borough:    row[4],
			Developers: splitDevelopers(row[5]),
			URL:        row[6],
		})
	}

	fmt.Print(sink.RenderMarkdownTable(records))
}

// splitDevelopers reverses the "; " join used in the developers column.
func splitDevelopers(cell string) []string {
	if cell == "" {
		return nil
	}

	return strings.Split(cell, "; ")
}
