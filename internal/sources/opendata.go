package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"devscan/internal/config"
	"devscan/internal/crawler"
	"devscan/internal/logger"
	"devscan/internal/models"
	"devscan/internal/normalizer"
)

// openDataSourceName labels the adapter in logs; records carry the dataset
// name as their source instead.
const openDataSourceName = "NYC Open Data"

// openDataFallbackTitle is used when every title field of a row is empty.
const openDataFallbackTitle = "DOB record"

// openDataWindowFields are checked in order for the row's update timestamp.
var openDataWindowFields = []string{":updated_at", "updated_at", "approval_date", "filing_date"}

// OpenData polls the DOB datasets on the SODA API and assembles one record
// per recent, construction-relevant row.
type OpenData struct {
	scraper     *crawler.Scraper
	classifier  *normalizer.ConstructionClassifier
	log         *logger.Logger
	datasets    []Dataset
	appToken    string
	pageLimit   int
	onlyGeneral bool
	window      time.Duration
	now         func() time.Time
}

// NewOpenData creates the open-data adapter over the standard DOB datasets.
func NewOpenData(scraper *crawler.Scraper, classifier *normalizer.ConstructionClassifier, cfg config.OpenDataConfig, onlyGeneral bool, window time.Duration, log *logger.Logger) *OpenData {
	return &OpenData{
		scraper:     scraper,
		classifier:  classifier,
		log:         log.With("source", openDataSourceName),
		datasets:    Datasets(),
		appToken:    cfg.AppToken,
		pageLimit:   cfg.PageLimit,
		onlyGeneral: onlyGeneral,
		window:      window,
		now:         time.Now,
	}
}

// Name returns the adapter label.
func (o *OpenData) Name() string { return openDataSourceName }

// Fetch queries each dataset once and normalizes its rows. A dataset whose
// query fails contributes zero records; the others are unaffected.
func (o *OpenData) Fetch(ctx context.Context) ([]models.Record, error) {
	now := o.now()

	var out []models.Record

	for _, ds := range o.datasets {
		rows, err := o.query(ctx, ds)
		if err != nil {
			o.log.Warn("SODA fetch failed", "dataset", ds.ID, "error", err)

			continue
		}

		kept := 0

		for _, row := range rows {
			rec, ok := o.assemble(row, ds, now)
			if !ok {
				continue
			}

			out = append(out, rec)
			kept++
		}

		o.log.Debug("dataset processed", "dataset", ds.ID, "rows", len(rows), "kept", kept)
	}

	return out, nil
}

// query fetches up to pageLimit rows, newest updates first. The app token is
// attached when configured; without it the API only throttles harder.
func (o *OpenData) query(ctx context.Context, ds Dataset) ([]map[string]any, error) {
	params := url.Values{}
	params.Set("$order", ":updated_at DESC")
	params.Set("$limit", strconv.Itoa(o.pageLimit))

	var headers map[string]string
	if o.appToken != "" {
		headers = map[string]string{"X-App-Token": o.appToken}
	}

	body, err := o.scraper.FetchWithHeaders(ctx, ds.Endpoint+"?"+params.Encode(), headers)
	if err != nil {
		return nil, err
	}

	var rows []map[string]any
	if err := json.Unmarshal([]byte(body), &rows); err != nil {
		return nil, fmt.Errorf("failed to decode SODA response: %w", err)
	}

	return rows, nil
}

// assemble normalizes one dataset row. ok is false when the row is stale,
// filtered by the construction gate, or entirely empty.
func (o *OpenData) assemble(row map[string]any, ds Dataset, now time.Time) (models.Record, bool) {
	if !o.withinWindow(row, now) {
		return models.Record{}, false
	}

	if o.onlyGeneral && !o.classifier.GeneralConstruction(row, ds.TitleFields) {
		return models.Record{}, false
	}

	dev := normalizer.PickFirst(row, ds.OwnerFields)
	addr := normalizer.PickFirst(row, ds.AddressFields)
	boro := normalizer.PickFirst(row, ds.BoroughFields)

	title := normalizer.PickFirst(row, ds.TitleFields)
	if title == "" {
		title = openDataFallbackTitle
	}

	if dev == "" && addr == "" && boro == "" && title == "" {
		return models.Record{}, false
	}

	var devs []string
	if dev != "" {
		devs = []string{dev}
	}

	return models.Record{
		Date:       normalizer.AttributionDate(now),
		Source:     ds.Name,
		Title:      title,
		Address:    addr,
		Borough:    boro,
		Developers: devs,
		// Individual rows have no stable URL; point at the dataset endpoint.
		URL: ds.Endpoint,
	}, true
}

// withinWindow applies the lookback filter to the row's update timestamp.
// Rows without a parseable timestamp are kept (fail-open).
func (o *OpenData) withinWindow(row map[string]any, now time.Time) bool {
	var updated string

	for _, k := range openDataWindowFields {
		if s, ok := row[k].(string); ok && s != "" {
			updated = s

			break
		}
	}

	if updated == "" {
		return true
	}

	t, ok := normalizer.ParseTimestamp(updated)
	if !ok {
		return true
	}

	return normalizer.Recent(t, now, o.window)
}
