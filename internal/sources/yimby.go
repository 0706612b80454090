package sources

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"devscan/internal/config"
	"devscan/internal/crawler"
	"devscan/internal/logger"
	"devscan/internal/models"
	"devscan/internal/normalizer"

	"github.com/PuerkitoBio/goquery"
)

// yimbySourceName is the source label on YIMBY records.
const yimbySourceName = "YIMBY"

// YIMBY reads the New York YIMBY RSS feed and parses each recent article's
// body for the responsible party.
type YIMBY struct {
	scraper   *crawler.Scraper
	extractor *normalizer.Extractor
	log       *logger.Logger
	feeds     []string
	window    time.Duration
	now       func() time.Time
}

// NewYIMBY creates the YIMBY adapter.
func NewYIMBY(scraper *crawler.Scraper, extractor *normalizer.Extractor, cfg config.YIMBYConfig, window time.Duration, log *logger.Logger) *YIMBY {
	return &YIMBY{
		scraper:   scraper,
		extractor: extractor,
		log:       log.With("source", yimbySourceName),
		feeds:     cfg.Feeds,
		window:    window,
		now:       time.Now,
	}
}

// Name returns the source label.
func (y *YIMBY) Name() string { return yimbySourceName }

// Fetch walks the configured feeds and assembles a record per recent item.
// A feed or article that cannot be fetched or parsed is logged and skipped.
func (y *YIMBY) Fetch(ctx context.Context) ([]models.Record, error) {
	now := y.now()

	var out []models.Record

	for _, feed := range y.feeds {
		body, err := y.scraper.Fetch(ctx, feed)
		if err != nil {
			y.log.Warn("feed fetch failed", "url", feed, "error", err)

			continue
		}

		rss, err := crawler.ParseRSS([]byte(body))
		if err != nil {
			y.log.Warn("feed parse failed", "url", feed, "error", err)

			continue
		}

		for _, item := range rss.Channel.Items {
			// Missing or unparsable publish dates resolve to now, so the
			// item always counts as recent (fail-open).
			published := normalizer.ResolveOrNow(item.PubDate, now)
			if !normalizer.Recent(published, now, y.window) {
				continue
			}

			rec, err := y.article(ctx, item, published)
			if err != nil {
				y.log.Warn("article parse failed", "url", item.Link, "error", err)

				continue
			}

			out = append(out, rec)
		}
	}

	return out, nil
}

// article fetches one article page and assembles its record.
func (y *YIMBY) article(ctx context.Context, item crawler.Item, published time.Time) (models.Record, error) {
	body, err := y.scraper.Fetch(ctx, item.Link)
	if err != nil {
		return models.Record{}, fmt.Errorf("failed to fetch article: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return models.Record{}, fmt.Errorf("failed to parse article HTML: %w", err)
	}

	text := paragraphText(articleRoot(doc))
	title := html.UnescapeString(item.Title)

	return models.Record{
		Date:       normalizer.AttributionDate(published),
		Source:     yimbySourceName,
		Title:      title,
		Address:    yimbyAddress(title),
		Borough:    normalizer.Borough(title + " " + text),
		Developers: y.extractor.Names(text),
		URL:        item.Link,
	}, nil
}

// yimbyAddress derives a street address from headlines shaped like
// "Permits Filed for 123 Main Street in Brooklyn".
func yimbyAddress(title string) string {
	head, _, _ := strings.Cut(title, " in ")

	return strings.TrimSpace(strings.ReplaceAll(head, "Permits Filed for", ""))
}
