// Package config provides configuration management for the scan pipeline.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrInvalidLookback          = errors.New("scan.lookback_hours must be at least 1")
	ErrNoFeeds                  = errors.New("sources.yimby.feeds must not be empty when the source is enabled")
	ErrNoListingPages           = errors.New("sources.realdeal.listing_pages must not be empty when the source is enabled")
	ErrInvalidMaxLinks          = errors.New("sources.realdeal.max_links must be at least 1")
	ErrInvalidPageLimit         = errors.New("sources.opendata.page_limit must be between 1 and 50000")
	ErrInvalidFeedURL           = errors.New("invalid feed URL")
	ErrInvalidListingURL        = errors.New("invalid listing page URL")
	ErrInvalidMaxAttempts       = errors.New("retry.max_attempts must be at least 1")
	ErrInvalidInitialDelay      = errors.New("retry.initial_delay_ms must be non-negative")
	ErrInvalidBackoffMultiplier = errors.New("retry.backoff_multiplier must be >= 1.0")
	ErrInvalidTimeout           = errors.New("retry.timeout_sec must be at least 1")
	ErrMissingCSVPath           = errors.New("output.csv_path is required")
	ErrInvalidHistoryKind       = errors.New("output.history.kind must be one of: none, sheets, sqlite")
	ErrMissingSpreadsheetID     = errors.New("output.history.spreadsheet_id is required for the sheets history sink")
	ErrMissingSQLitePath        = errors.New("output.history.sqlite_path is required for the sqlite history sink")
	ErrInvalidLogLevel          = errors.New("logging.level must be one of: debug, info, warn, error")
)

// History sink kinds.
const (
	HistoryNone   = "none"
	HistorySheets = "sheets"
	HistorySQLite = "sqlite"
)

// Config represents the complete scan pipeline configuration.
type Config struct {
	Scan    ScanConfig    `yaml:"scan"`
	Sources SourcesConfig `yaml:"sources"`
	Retry   RetryPolicy   `yaml:"retry"`
	Output  OutputConfig  `yaml:"output"`
	Rules   RulesConfig   `yaml:"rules"`
	Logging LoggingConfig `yaml:"logging"`
}

// ScanConfig contains the recency window and classification gate.
type ScanConfig struct {
	// LookbackHours is the width of the recency window.
	LookbackHours int `yaml:"lookback_hours"`
	// OnlyGeneralConstruction gates open-data rows on the
	// general-construction classifier.
	OnlyGeneralConstruction bool `yaml:"only_general_construction"`
}

// SourcesConfig groups the per-adapter settings.
type SourcesConfig struct {
	YIMBY    YIMBYConfig    `yaml:"yimby"`
	RealDeal RealDealConfig `yaml:"realdeal"`
	OpenData OpenDataConfig `yaml:"opendata"`
}

// YIMBYConfig configures the YIMBY RSS adapter.
type YIMBYConfig struct {
	Enabled bool     `yaml:"enabled"`
	Feeds   []string `yaml:"feeds"`
}

// RealDealConfig configures The Real Deal listing-site adapter.
type RealDealConfig struct {
	Enabled      bool     `yaml:"enabled"`
	ListingPages []string `yaml:"listing_pages"`
	MaxLinks     int      `yaml:"max_links"`
}

// OpenDataConfig configures the NYC Open Data adapter.
type OpenDataConfig struct {
	Enabled   bool `yaml:"enabled"`
	PageLimit int  `yaml:"page_limit"`
	// AppToken is the optional SODA application token. Its absence degrades
	// quota, not correctness. Usually supplied via NYC_SODA_APP_TOKEN.
	AppToken string `yaml:"app_token"`
}

// RetryPolicy defines HTTP retry behavior.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	TimeoutSec        int     `yaml:"timeout_sec"`
	BufferSizeKb      int     `yaml:"buffer_size_kb"`
}

// OutputConfig defines the sinks the aggregated table is written to.
type OutputConfig struct {
	// CSVPath is the primary artifact. It is written on every run, with the
	// header row even when there are zero rows.
	CSVPath string `yaml:"csv_path"`
	// Preview renders the table as aligned markdown on stdout.
	Preview bool          `yaml:"preview"`
	History HistoryConfig `yaml:"history"`
}

// HistoryConfig configures the optional append-only history sink. The
// history sink dedups against previously stored rows on
// (date, source, lower title, lower address); unlike the in-run
// deduplicator, the key includes the date.
type HistoryConfig struct {
	Kind          string `yaml:"kind"`
	SpreadsheetID string `yaml:"spreadsheet_id"`
	Worksheet     string `yaml:"worksheet"`
	SQLitePath    string `yaml:"sqlite_path"`
}

// RulesConfig optionally overrides the built-in extraction and
// classification rule tables. Empty lists keep the defaults.
type RulesConfig struct {
	// Triggers is an ordered list of case-insensitive verb-phrase regex
	// fragments; a capitalized name phrase is expected to follow each.
	Triggers []string `yaml:"triggers"`
	// OrgSuffixes is the organization-suffix allowlist (LLC, Inc., ...).
	OrgSuffixes []string `yaml:"org_suffixes"`
	// BlockTypes and AllowTypes drive the general-construction classifier.
	BlockTypes []string `yaml:"block_types"`
	AllowTypes []string `yaml:"allow_types"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns the configuration used when no file is given. The
// binary is runnable with zero config.
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			LookbackHours:           24,
			OnlyGeneralConstruction: true,
		},
		Sources: SourcesConfig{
			YIMBY: YIMBYConfig{
				Enabled: true,
				Feeds:   []string{"https://newyorkyimby.com/feed"},
			},
			RealDeal: RealDealConfig{
				Enabled: true,
				ListingPages: []string{
					"https://therealdeal.com/new-york/",
					"https://therealdeal.com/tag/new-development/",
				},
				MaxLinks: 40,
			},
			OpenData: OpenDataConfig{
				Enabled:   true,
				PageLimit: 1000,
			},
		},
		Retry: RetryPolicy{
			MaxAttempts:       3,
			InitialDelayMs:    500,
			MaxDelayMs:        30000,
			BackoffMultiplier: 2.0,
			TimeoutSec:        30,
			BufferSizeKb:      8192,
		},
		Output: OutputConfig{
			CSVPath: "nyc_developers_daily.csv",
			History: HistoryConfig{
				Kind:      HistoryNone,
				Worksheet: "Daily",
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from a YAML file layered over the defaults.
// An empty path returns the defaults. Environment overrides are applied last.
func LoadConfig(filepath string) (*Config, error) {
	cfg := DefaultConfig()

	if filepath != "" {
		data, err := os.ReadFile(filepath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// applyEnv layers environment overrides on top of file values. Secrets only
// live in the environment.
func (c *Config) applyEnv() {
	if v := os.Getenv("LOOKBACK_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil {
			c.Scan.LookbackHours = hours
		}
	}

	if v := os.Getenv("DOB_ONLY_GENERAL"); v != "" {
		c.Scan.OnlyGeneralConstruction = v == "1" || v == "true"
	}

	if v := os.Getenv("NYC_SODA_APP_TOKEN"); v != "" {
		c.Sources.OpenData.AppToken = v
	}

	if v := os.Getenv("GSHEET_ID"); v != "" {
		c.Output.History.SpreadsheetID = v
		c.Output.History.Kind = HistorySheets
	}

	if v := os.Getenv("GSHEET_TAB"); v != "" {
		c.Output.History.Worksheet = v
	}

	if v := os.Getenv("DEVSCAN_HISTORY_DB"); v != "" {
		c.Output.History.SQLitePath = v

		if c.Output.History.Kind == HistoryNone || c.Output.History.Kind == "" {
			c.Output.History.Kind = HistorySQLite
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Scan.LookbackHours < 1 {
		return ErrInvalidLookback
	}

	if c.Sources.YIMBY.Enabled {
		if len(c.Sources.YIMBY.Feeds) == 0 {
			return ErrNoFeeds
		}

		for _, u := range c.Sources.YIMBY.Feeds {
			if _, err := url.ParseRequestURI(u); err != nil {
				return fmt.Errorf("%w: %s", ErrInvalidFeedURL, u)
			}
		}
	}

	if c.Sources.RealDeal.Enabled {
		if len(c.Sources.RealDeal.ListingPages) == 0 {
			return ErrNoListingPages
		}

		for _, u := range c.Sources.RealDeal.ListingPages {
			if _, err := url.ParseRequestURI(u); err != nil {
				return fmt.Errorf("%w: %s", ErrInvalidListingURL, u)
			}
		}

		if c.Sources.RealDeal.MaxLinks < 1 {
			return ErrInvalidMaxLinks
		}
	}

	if c.Sources.OpenData.Enabled {
		if c.Sources.OpenData.PageLimit < 1 || c.Sources.OpenData.PageLimit > 50000 {
			return ErrInvalidPageLimit
		}
	}

	if c.Retry.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if c.Retry.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if c.Retry.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoffMultiplier
	}

	if c.Retry.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Output.CSVPath == "" {
		return ErrMissingCSVPath
	}

	switch c.Output.History.Kind {
	case "", HistoryNone:
	case HistorySheets:
		if c.Output.History.SpreadsheetID == "" {
			return ErrMissingSpreadsheetID
		}
	case HistorySQLite:
		if c.Output.History.SQLitePath == "" {
			return ErrMissingSQLitePath
		}
	default:
		return ErrInvalidHistoryKind
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// Lookback returns the recency window as a duration.
func (c *Config) Lookback() time.Duration {
	return time.Duration(c.Scan.LookbackHours) * time.Hour
}

// GetRetryDelay calculates exponential backoff delay for attempt number.
func (rp *RetryPolicy) GetRetryDelay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}

	delayMs := float64(rp.InitialDelayMs)
	for i := 1; i < attempt; i++ {
		delayMs *= rp.BackoffMultiplier
	}

	// Cap at max delay
	if int(delayMs) > rp.MaxDelayMs {
		delayMs = float64(rp.MaxDelayMs)
	}

	return time.Duration(int(delayMs)) * time.Millisecond
}

// GetTimeout returns the per-request timeout duration.
func (rp *RetryPolicy) GetTimeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Lookback: %dh, OnlyGeneral: %t, CSV: %s, History: %s}",
		c.Scan.LookbackHours,
		c.Scan.OnlyGeneralConstruction,
		c.Output.CSVPath,
		c.Output.History.Kind,
	)
}
