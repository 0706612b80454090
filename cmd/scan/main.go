// Package main provides the scan command: one full pass over all sources,
// ending in the CSV artifact and the optional history sink.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"devscan/internal/config"
	"devscan/internal/crawler"
	"devscan/internal/logger"
	"devscan/internal/models"
	"devscan/internal/normalizer"
	"devscan/internal/pipeline"
	"devscan/internal/sink"
	"devscan/internal/sources"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file (optional, defaults apply)")
	outPath := flag.String("out", "", "CSV output path (overrides config)")
	preview := flag.Bool("preview", false, "Render the final table as markdown on stdout")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if *outPath != "" {
		cfg.Output.CSVPath = *outPath
	}

	if *preview {
		cfg.Output.Preview = true
	}

	log := logger.NewLogger(cfg.Logging.Level)
	ctx := context.Background()

	since := time.Now().Add(-cfg.Lookback())
	log.Info("🚀 Starting development scan",
		"since", since.Format("2006-01-02 15:04 MST"),
		"only_general", cfg.Scan.OnlyGeneralConstruction,
	)

	// Any failure escaping the pipeline degrades to an empty table; the CSV
	// with its header row is written no matter what.
	records, runErr := run(ctx, cfg, log)
	if runErr != nil {
		log.Error("❌ Pipeline failed, writing placeholder table", "error", runErr)

		records = nil
	}

	csvSink := sink.NewCSVSink(cfg.Output.CSVPath)

	rows, err := csvSink.Write(ctx, records)
	if err != nil {
		log.Error("❌ CSV write failed", "error", err)
		os.Exit(1)
	}

	log.Info("✅ Saved table", "rows", rows, "path", cfg.Output.CSVPath)

	if cfg.Output.Preview {
		fmt.Print(sink.RenderMarkdownTable(records))
	}

	if err := appendHistory(ctx, cfg, records, log); err != nil {
		log.Error("❌ History append failed", "error", err)
		os.Exit(1)
	}
}

// run builds the pipeline from the configuration and executes it.
func run(ctx context.Context, cfg *config.Config, log *logger.Logger) (records []models.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pipeline panic: %v", r)
		}
	}()

	extractor, err := normalizer.NewExtractor(normalizer.Rules{
		Triggers:    cfg.Rules.Triggers,
		OrgSuffixes: cfg.Rules.OrgSuffixes,
	})
	if err != nil {
		return nil, err
	}

	classifier := normalizer.NewConstructionClassifier(normalizer.ConstructionRules{
		Block: cfg.Rules.BlockTypes,
		Allow: cfg.Rules.AllowTypes,
	})

	scraper := crawler.NewScraperWithConfig(&cfg.Retry)
	window := cfg.Lookback()

	var srcs []sources.Source

	if cfg.Sources.YIMBY.Enabled {
		srcs = append(srcs, sources.NewYIMBY(scraper, extractor, cfg.Sources.YIMBY, window, log))
	}

	if cfg.Sources.RealDeal.Enabled {
		srcs = append(srcs, sources.NewRealDeal(scraper, extractor, cfg.Sources.RealDeal, window, log))
	}

	if cfg.Sources.OpenData.Enabled {
		srcs = append(srcs, sources.NewOpenData(scraper, classifier, cfg.Sources.OpenData,
			cfg.Scan.OnlyGeneralConstruction, window, log))
	}

	runner := pipeline.NewRunner(srcs, log)

	return pipeline.Aggregate(runner.Run(ctx)), nil
}

// appendHistory pushes the table into the configured append-only history
// sink, if any.
func appendHistory(ctx context.Context, cfg *config.Config, records []models.Record, log *logger.Logger) error {
	switch cfg.Output.History.Kind {
	case config.HistorySheets:
		creds := os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")
		if creds == "" {
			return fmt.Errorf("missing GOOGLE_SERVICE_ACCOUNT_JSON env for the sheets history sink")
		}

		sheetSink, err := sink.NewSheetsSink(ctx, []byte(creds),
			cfg.Output.History.SpreadsheetID, cfg.Output.History.Worksheet, log)
		if err != nil {
			return err
		}

		appended, err := sheetSink.Write(ctx, records)
		if err != nil {
			return err
		}

		log.Info("✅ Appended to sheet history", "rows", appended)

	case config.HistorySQLite:
		dbSink, err := sink.NewSQLiteSink(cfg.Output.History.SQLitePath)
		if err != nil {
			return err
		}
		defer dbSink.Close()

		appended, err := dbSink.Write(ctx, records)
		if err != nil {
			return err
		}

		log.Info("✅ Appended to local history", "rows", appended, "path", cfg.Output.History.SQLitePath)
	}

	return nil
}
