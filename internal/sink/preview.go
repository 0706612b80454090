package sink

import (
	"strings"

	"devscan/internal/models"

	"github.com/mattn/go-runewidth"
)

// RenderMarkdownTable renders the table as an aligned markdown table.
// Column widths use display width so wide characters line up.
func RenderMarkdownTable(records []models.Record) string {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, models.Columns)

	for _, r := range records {
		rows = append(rows, r.Row())
	}

	colCount := len(models.Columns)

	// Calculate max widths (using display width)
	colWidths := make([]int, colCount)

	for _, row := range rows {
		for i := 0; i < len(row) && i < colCount; i++ {
			width := runewidth.StringWidth(row[i])
			if width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}

	// Ensure min width for the separator ("---")
	for i := range colWidths {
		if colWidths[i] < 3 {
			colWidths[i] = 3
		}
	}

	var sb strings.Builder

	writeRow := func(row []string) {
		sb.WriteString("|")

		for j := 0; j < colCount; j++ {
			sb.WriteString(" ")

			content := ""
			if j < len(row) {
				content = row[j]
			}

			sb.WriteString(content)

			// Pad with spaces based on display width
			padding := colWidths[j] - runewidth.StringWidth(content)
			if padding > 0 {
				sb.WriteString(strings.Repeat(" ", padding))
			}

			sb.WriteString(" |")
		}

		sb.WriteString("\n")
	}

	writeRow(rows[0])

	sb.WriteString("|")

	for j := 0; j < colCount; j++ {
		sb.WriteString(" ")
		sb.WriteString(strings.Repeat("-", colWidths[j]))
		sb.WriteString(" |")
	}

	sb.WriteString("\n")

	for _, row := range rows[1:] {
		writeRow(row)
	}

	return sb.String()
}
