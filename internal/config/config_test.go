package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}

	if cfg.Scan.LookbackHours != 24 {
		t.Errorf("LookbackHours = %d, want 24", cfg.Scan.LookbackHours)
	}

	if !cfg.Scan.OnlyGeneralConstruction {
		t.Error("OnlyGeneralConstruction should default to true")
	}

	if cfg.Output.History.Kind != HistoryNone {
		t.Errorf("History.Kind = %q, want %q", cfg.Output.History.Kind, HistoryNone)
	}

	if cfg.Lookback() != 24*time.Hour {
		t.Errorf("Lookback() = %v, want 24h", cfg.Lookback())
	}
}

func TestLoadConfigEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Output.CSVPath != "nyc_developers_daily.csv" {
		t.Errorf("CSVPath = %q", cfg.Output.CSVPath)
	}
}

func TestLoadConfigLayersFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	data := `
scan:
  lookback_hours: 48
sources:
  realdeal:
    enabled: false
output:
  csv_path: custom.csv
`

	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Scan.LookbackHours != 48 {
		t.Errorf("LookbackHours = %d, want 48", cfg.Scan.LookbackHours)
	}

	if cfg.Sources.RealDeal.Enabled {
		t.Error("realdeal should be disabled by the file")
	}

	if cfg.Output.CSVPath != "custom.csv" {
		t.Errorf("CSVPath = %q, want custom.csv", cfg.Output.CSVPath)
	}

	// Untouched sections keep their defaults.
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want the default 3", cfg.Retry.MaxAttempts)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LOOKBACK_HOURS", "72")
	t.Setenv("DOB_ONLY_GENERAL", "false")
	t.Setenv("NYC_SODA_APP_TOKEN", "tok")
	t.Setenv("GSHEET_ID", "sheet-id")
	t.Setenv("GSHEET_TAB", "History")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Scan.LookbackHours != 72 {
		t.Errorf("LookbackHours = %d, want 72", cfg.Scan.LookbackHours)
	}

	if cfg.Scan.OnlyGeneralConstruction {
		t.Error("DOB_ONLY_GENERAL=false should disable the gate")
	}

	if cfg.Sources.OpenData.AppToken != "tok" {
		t.Errorf("AppToken = %q", cfg.Sources.OpenData.AppToken)
	}

	// GSHEET_ID switches the history sink on.
	if cfg.Output.History.Kind != HistorySheets {
		t.Errorf("History.Kind = %q, want %q", cfg.Output.History.Kind, HistorySheets)
	}

	if cfg.Output.History.SpreadsheetID != "sheet-id" {
		t.Errorf("SpreadsheetID = %q", cfg.Output.History.SpreadsheetID)
	}

	if cfg.Output.History.Worksheet != "History" {
		t.Errorf("Worksheet = %q", cfg.Output.History.Worksheet)
	}
}

func TestEnvSQLiteHistory(t *testing.T) {
	t.Setenv("DEVSCAN_HISTORY_DB", "/tmp/history.db")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Output.History.Kind != HistorySQLite {
		t.Errorf("History.Kind = %q, want %q", cfg.Output.History.Kind, HistorySQLite)
	}

	if cfg.Output.History.SQLitePath != "/tmp/history.db" {
		t.Errorf("SQLitePath = %q", cfg.Output.History.SQLitePath)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "zero lookback",
			mutate:  func(c *Config) { c.Scan.LookbackHours = 0 },
			wantErr: ErrInvalidLookback,
		},
		{
			name:    "enabled yimby without feeds",
			mutate:  func(c *Config) { c.Sources.YIMBY.Feeds = nil },
			wantErr: ErrNoFeeds,
		},
		{
			name:    "disabled yimby skips feed checks",
			mutate:  func(c *Config) { c.Sources.YIMBY = YIMBYConfig{Enabled: false} },
			wantErr: nil,
		},
		{
			name:    "malformed feed URL",
			mutate:  func(c *Config) { c.Sources.YIMBY.Feeds = []string{"not a url"} },
			wantErr: ErrInvalidFeedURL,
		},
		{
			name:    "enabled realdeal without listing pages",
			mutate:  func(c *Config) { c.Sources.RealDeal.ListingPages = nil },
			wantErr: ErrNoListingPages,
		},
		{
			name:    "zero max links",
			mutate:  func(c *Config) { c.Sources.RealDeal.MaxLinks = 0 },
			wantErr: ErrInvalidMaxLinks,
		},
		{
			name:    "page limit too large",
			mutate:  func(c *Config) { c.Sources.OpenData.PageLimit = 100000 },
			wantErr: ErrInvalidPageLimit,
		},
		{
			name:    "zero retry attempts",
			mutate:  func(c *Config) { c.Retry.MaxAttempts = 0 },
			wantErr: ErrInvalidMaxAttempts,
		},
		{
			name:    "backoff below one",
			mutate:  func(c *Config) { c.Retry.BackoffMultiplier = 0.5 },
			wantErr: ErrInvalidBackoffMultiplier,
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Retry.TimeoutSec = 0 },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "missing csv path",
			mutate:  func(c *Config) { c.Output.CSVPath = "" },
			wantErr: ErrMissingCSVPath,
		},
		{
			name:    "unknown history kind",
			mutate:  func(c *Config) { c.Output.History.Kind = "postgres" },
			wantErr: ErrInvalidHistoryKind,
		},
		{
			name:    "sheets history without spreadsheet",
			mutate:  func(c *Config) { c.Output.History.Kind = HistorySheets },
			wantErr: ErrMissingSpreadsheetID,
		},
		{
			name:    "sqlite history without path",
			mutate:  func(c *Config) { c.Output.History.Kind = HistorySQLite },
			wantErr: ErrMissingSQLitePath,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: ErrInvalidLogLevel,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Errorf("Validate returned %v, want nil", err)
				}

				return
			}

			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Validate returned %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestGetRetryDelay(t *testing.T) {
	rp := &RetryPolicy{
		MaxAttempts:       5,
		InitialDelayMs:    500,
		MaxDelayMs:        2000,
		BackoffMultiplier: 2.0,
	}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 0},
		{2, 1 * time.Second},
		{3, 2 * time.Second},
		{4, 2 * time.Second}, // capped at MaxDelayMs
	}

	for _, tc := range tests {
		if got := rp.GetRetryDelay(tc.attempt); got != tc.want {
			t.Errorf("GetRetryDelay(%d) = %v, want %v", tc.attempt, got, tc.want)
		}
	}
}
