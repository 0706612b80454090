package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"devscan/internal/config"
	"devscan/internal/crawler"
	"devscan/internal/logger"
	"devscan/internal/normalizer"
)

func testScraper() *crawler.Scraper {
	return crawler.NewScraperWithConfig(&config.RetryPolicy{
		MaxAttempts:       1,
		InitialDelayMs:    1,
		MaxDelayMs:        5,
		BackoffMultiplier: 2.0,
		TimeoutSec:        5,
		BufferSizeKb:      256,
	})
}

func testExtractor(t *testing.T) *normalizer.Extractor {
	t.Helper()

	ext, err := normalizer.NewExtractor(normalizer.Rules{})
	if err != nil {
		t.Fatalf("NewExtractor failed: %v", err)
	}

	return ext
}

const yimbyArticleHTML = `<html><body>
<article>
<p>The developer is listed as the owner Acme Realty LLC, according to the filing.</p>
<p>Construction is expected to begin soon.</p>
</article>
</body></html>`

func TestYIMBYFetch(t *testing.T) {
	fixedNow := time.Date(2026, time.August, 27, 12, 0, 0, 0, time.UTC)

	var articleURL string

	mux := http.NewServeMux()
	mux.HandleFunc("/feed", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<?xml version="1.0"?>
<rss version="2.0"><channel><title>New York YIMBY</title>
<item>
  <title>Permits Filed for 123 Main Street in Brooklyn</title>
  <link>%s</link>
  <pubDate>Thu, 27 Aug 2026 09:15:00 +0000</pubDate>
</item>
<item>
  <title>Permits Filed for 9 Old Road in Queens</title>
  <link>%s</link>
  <pubDate>Tue, 25 Aug 2026 09:15:00 +0000</pubDate>
</item>
</channel></rss>`, articleURL, articleURL)
	})
	mux.HandleFunc("/article", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, yimbyArticleHTML)
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	articleURL = srv.URL + "/article"

	y := NewYIMBY(testScraper(), testExtractor(t), config.YIMBYConfig{
		Feeds: []string{srv.URL + "/feed"},
	}, 24*time.Hour, logger.NewNop())
	y.now = func() time.Time { return fixedNow }

	recs, err := y.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	// The second item is outside the 24h window.
	if len(recs) != 1 {
		t.Fatalf("Fetch returned %d records, want 1", len(recs))
	}

	got := recs[0]

	if got.Source != "YIMBY" {
		t.Errorf("Source = %q", got.Source)
	}

	if got.Title != "Permits Filed for 123 Main Street in Brooklyn" {
		t.Errorf("Title = %q", got.Title)
	}

	if got.Address != "123 Main Street" {
		t.Errorf("Address = %q, want %q", got.Address, "123 Main Street")
	}

	if got.Borough != "Brooklyn" {
		t.Errorf("Borough = %q, want %q", got.Borough, "Brooklyn")
	}

	if len(got.Developers) != 1 || got.Developers[0] != "Acme Realty LLC" {
		t.Errorf("Developers = %v, want [Acme Realty LLC]", got.Developers)
	}

	// 09:15 UTC is 05:15 in New York, same calendar day.
	if got.Date != "2026-08-27" {
		t.Errorf("Date = %q, want 2026-08-27", got.Date)
	}

	if got.URL != articleURL {
		t.Errorf("URL = %q, want %q", got.URL, articleURL)
	}
}

func TestYIMBYFetchSurvivesBrokenFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	y := NewYIMBY(testScraper(), testExtractor(t), config.YIMBYConfig{
		Feeds: []string{srv.URL + "/feed"},
	}, 24*time.Hour, logger.NewNop())

	recs, err := y.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	if len(recs) != 0 {
		t.Errorf("Fetch returned %d records, want 0", len(recs))
	}
}

func TestYimbyAddress(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Permits Filed for 123 Main Street in Brooklyn", "123 Main Street"},
		{"Permits Filed for 40-31 82nd Street in Elmhurst, Queens", "40-31 82nd Street"},
		{"Housing Lottery Launches in Queens", "Housing Lottery Launches"},
		{"Permits Filed for 5 Side Ave", "5 Side Ave"},
		{"", ""},
	}

	for _, tc := range tests {
		if got := yimbyAddress(tc.title); got != tc.want {
			t.Errorf("yimbyAddress(%q) = %q, want %q", tc.title, got, tc.want)
		}
	}
}
