package sources

import (
	"context"
	"regexp"
	"strings"
	"time"

	"devscan/internal/config"
	"devscan/internal/crawler"
	"devscan/internal/logger"
	"devscan/internal/models"
	"devscan/internal/normalizer"

	"github.com/PuerkitoBio/goquery"
)

// realDealSourceName is the source label on The Real Deal records.
const realDealSourceName = "The Real Deal"

// trdSitePrefix limits the link harvest to article URLs on the site itself.
const trdSitePrefix = "https://therealdeal.com/"

// trdSkipSegments are path fragments of non-article pages.
var trdSkipSegments = []string{"/tag/", "/category/", "/author/", "/video", "/shop", "/events"}

// trdAddressPattern matches a street address, optionally followed by a
// borough name.
var trdAddressPattern = regexp.MustCompile(
	`(\d{1,5} [A-Za-z0-9'\- ]+ (?:Street|St\.|Avenue|Ave\.|Boulevard|Blvd\.|Road|Rd\.|Place|Pl\.|Court|Ct\.|Drive|Dr\.|Lane|Ln\.)(?:,?\s+(?:Brooklyn|Manhattan|Queens|Bronx|Staten Island))?)`)

// RealDeal harvests article links from The Real Deal listing pages and
// parses each recent article.
type RealDeal struct {
	scraper      *crawler.Scraper
	extractor    *normalizer.Extractor
	log          *logger.Logger
	listingPages []string
	maxLinks     int
	window       time.Duration
	now          func() time.Time
}

// NewRealDeal creates The Real Deal adapter.
func NewRealDeal(scraper *crawler.Scraper, extractor *normalizer.Extractor, cfg config.RealDealConfig, window time.Duration, log *logger.Logger) *RealDeal {
	return &RealDeal{
		scraper:      scraper,
		extractor:    extractor,
		log:          log.With("source", realDealSourceName),
		listingPages: cfg.ListingPages,
		maxLinks:     cfg.MaxLinks,
		window:       window,
		now:          time.Now,
	}
}

// Name returns the source label.
func (d *RealDeal) Name() string { return realDealSourceName }

// Fetch harvests article links and assembles a record per recent article.
// Listing pages and articles that fail to fetch or parse are logged and
// skipped.
func (d *RealDeal) Fetch(ctx context.Context) ([]models.Record, error) {
	now := d.now()
	links := d.harvestLinks(ctx)

	if len(links) > d.maxLinks {
		links = links[:d.maxLinks]
	}

	var out []models.Record

	for _, url := range links {
		rec, ok, err := d.article(ctx, url, now)
		if err != nil {
			d.log.Warn("article parse failed", "url", url, "error", err)

			continue
		}

		if ok {
			out = append(out, rec)
		}
	}

	return out, nil
}

// harvestLinks collects candidate article URLs from the listing pages in
// first-seen order.
func (d *RealDeal) harvestLinks(ctx context.Context) []string {
	seen := make(map[string]bool)

	var links []string

	for _, lp := range d.listingPages {
		body, err := d.scraper.Fetch(ctx, lp)
		if err != nil {
			d.log.Warn("listing fetch failed", "url", lp, "error", err)

			continue
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
		if err != nil {
			d.log.Warn("listing parse failed", "url", lp, "error", err)

			continue
		}

		doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			href, _ := a.Attr("href")
			if !strings.HasPrefix(href, trdSitePrefix) || seen[href] {
				return true
			}

			if isSkippedPath(href) {
				return true
			}

			seen[href] = true
			links = append(links, href)

			return len(links) <= d.maxLinks
		})
	}

	return links
}

// isSkippedPath reports whether the URL points at a non-article page.
func isSkippedPath(href string) bool {
	for _, seg := range trdSkipSegments {
		if strings.Contains(href, seg) {
			return true
		}
	}

	return false
}

// article fetches one article page and assembles its record. ok is false
// when the article falls outside the lookback window.
func (d *RealDeal) article(ctx context.Context, url string, now time.Time) (models.Record, bool, error) {
	body, err := d.scraper.Fetch(ctx, url)
	if err != nil {
		return models.Record{}, false, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return models.Record{}, false, err
	}

	// The publish instant comes from the first time[datetime] element;
	// missing or unparsable values resolve to now (fail-open).
	published := now
	if dt, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
		published = normalizer.ResolveOrNow(dt, now)
	}

	if !normalizer.Recent(published, now, d.window) {
		return models.Record{}, false, nil
	}

	art := articleRoot(doc)

	title := strings.TrimSpace(art.Find("h1").First().Text())
	if title == "" {
		title = url
	}

	text := paragraphText(art)

	address := ""
	if m := trdAddressPattern.FindStringSubmatch(title + " " + text); m != nil {
		address = m[1]
	}

	return models.Record{
		Date:       normalizer.AttributionDate(published),
		Source:     realDealSourceName,
		Title:      title,
		Address:    address,
		Borough:    normalizer.Borough(title + " " + text),
		Developers: d.extractor.Names(text),
		URL:        url,
	}, true, nil
}
