// Package config holds configuration for both the crawler and the dashboard.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds crawler and dashboard configuration.
type Config struct {
	// Crawler.
	BaseURL          string
	MaxPages         int
	Parallelism      int
	Delay            time.Duration
	RandomDelay      time.Duration
	Timeout          time.Duration
	MaxRetries       int
	RetryBackoff     time.Duration
	RetryBackoffMax  time.Duration
	UserAgent        string
	RespectRobotsTxt bool

	// Pipeline.
	PipelineBufferSize int
	BatchSize          int
	DedupeMaxSize      int

	// Catalog store hand-off between the two binaries.
	CatalogFile  string
	ExportFormat string // json, csv, or dual
	CSVFile      string

	// Dashboard.
	ListenAddr string

	MetricsAddr string
	Verbose     bool
}

// DefaultConfig returns conservative defaults for the demo target.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:            "https://books.toscrape.com",
		MaxPages:           50,
		Parallelism:        16,
		Delay:              0,
		RandomDelay:        0,
		Timeout:            10 * time.Second,
		MaxRetries:         2,
		RetryBackoff:       200 * time.Millisecond,
		RetryBackoffMax:    2 * time.Second,
		UserAgent:          "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36",
		RespectRobotsTxt:   false,
		PipelineBufferSize: 512,
		BatchSize:          64,
		DedupeMaxSize:      4096,
		CatalogFile:        "data/books.json",
		ExportFormat:       "json",
		CSVFile:            "data/books.csv",
		ListenAddr:         ":8080",
		MetricsAddr:        "",
		Verbose:            false,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}

	if c.MaxPages <= 0 {
		return fmt.Errorf("max pages must be positive")
	}
	if c.Parallelism <= 0 {
		return fmt.Errorf("parallelism must be positive")
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay cannot be negative")
	}
	if c.RandomDelay < 0 {
		return fmt.Errorf("random delay cannot be negative")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if c.RetryBackoff < 0 {
		return fmt.Errorf("retry backoff cannot be negative")
	}
	if c.RetryBackoffMax < 0 {
		return fmt.Errorf("retry backoff max cannot be negative")
	}
	if c.RetryBackoffMax > 0 && c.RetryBackoff > c.RetryBackoffMax {
		return fmt.Errorf("retry backoff (%s) cannot exceed retry backoff max (%s)", c.RetryBackoff, c.RetryBackoffMax)
	}
	if c.PipelineBufferSize <= 0 {
		return fmt.Errorf("pipeline buffer size must be positive")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}
	if c.DedupeMaxSize <= 0 {
		return fmt.Errorf("dedupe max size must be positive")
	}
	if c.CatalogFile == "" {
		return fmt.Errorf("catalog file cannot be empty")
	}
	if c.ExportFormat != "json" && c.ExportFormat != "csv" && c.ExportFormat != "dual" {
		return fmt.Errorf("export format must be json, csv, or dual")
	}
	if c.ExportFormat != "json" && c.CSVFile == "" {
		return fmt.Errorf("csv file cannot be empty for format %s", c.ExportFormat)
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("listen address cannot be empty")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}

	return nil
}

// EnvString reads an environment variable, reporting whether it was set.
func EnvString(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	return value, ok
}

// EnvInt reads an integer environment variable.
func EnvInt(key string) (int, bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return 0, false, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, true, nil
}
