// Package sources implements the per-source adapters that turn a news feed,
// a listing site, and the open-data API into normalized records.
package sources

import (
	"context"
	"strings"

	"devscan/internal/models"
	"devscan/pkg/utils"

	"github.com/PuerkitoBio/goquery"
)

// Source is one adapter. Fetch runs the adapter to completion and returns
// the records it could assemble; item-level failures are logged and skipped
// inside the adapter, so a non-nil error means the whole source contributed
// nothing.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]models.Record, error)
}

// articleRoot scopes parsing to the first <article> element, falling back to
// the whole document when the page has none.
func articleRoot(doc *goquery.Document) *goquery.Selection {
	if art := doc.Find("article"); art.Length() > 0 {
		return art.First()
	}

	return doc.Selection
}

// paragraphText joins the collapsed text of every <p> under the selection.
func paragraphText(sel *goquery.Selection) string {
	var parts []string

	sel.Find("p").Each(func(_ int, p *goquery.Selection) {
		if t := utils.CollapseWhitespace(p.Text()); t != "" {
			parts = append(parts, t)
		}
	})

	return strings.Join(parts, " ")
}
