package config

import (
	"strings"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "negative parallelism",
			mutate: func(cfg *Config) {
				cfg.Parallelism = -1
			},
			wantErr: "parallelism",
		},
		{
			name: "zero max pages",
			mutate: func(cfg *Config) {
				cfg.MaxPages = 0
			},
			wantErr: "max pages",
		},
		{
			name: "empty base url",
			mutate: func(cfg *Config) {
				cfg.BaseURL = ""
			},
			wantErr: "base URL",
		},
		{
			name: "invalid url format",
			mutate: func(cfg *Config) {
				cfg.BaseURL = "http://"
			},
			wantErr: "base URL",
		},
		{
			name: "negative timeout",
			mutate: func(cfg *Config) {
				cfg.Timeout = -1 * time.Second
			},
			wantErr: "timeout",
		},
		{
			name: "backoff exceeds max",
			mutate: func(cfg *Config) {
				cfg.RetryBackoff = 5 * time.Second
				cfg.RetryBackoffMax = 1 * time.Second
			},
			wantErr: "retry backoff",
		},
		{
			name: "empty catalog file",
			mutate: func(cfg *Config) {
				cfg.CatalogFile = ""
			},
			wantErr: "catalog file",
		},
		{
			name: "unknown export format",
			mutate: func(cfg *Config) {
				cfg.ExportFormat = "xml"
			},
			wantErr: "export format",
		},
		{
			name: "csv format without csv file",
			mutate: func(cfg *Config) {
				cfg.ExportFormat = "csv"
				cfg.CSVFile = ""
			},
			wantErr: "csv file",
		},
		{
			name: "empty listen address",
			mutate: func(cfg *Config) {
				cfg.ListenAddr = ""
			},
			wantErr: "listen address",
		},
		{
			name: "zero dedupe size",
			mutate: func(cfg *Config) {
				cfg.DedupeMaxSize = 0
			},
			wantErr: "dedupe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestEnvInt(t *testing.T) {
	t.Setenv("CATALOG_TEST_INT", "42")
	value, ok, err := EnvInt("CATALOG_TEST_INT")
	if err != nil || !ok || value != 42 {
		t.Fatalf("EnvInt = (%d, %v, %v), want (42, true, nil)", value, ok, err)
	}

	if _, ok, err := EnvInt("CATALOG_TEST_INT_UNSET"); ok || err != nil {
		t.Fatalf("unset variable should report not-ok without error, got (%v, %v)", ok, err)
	}

	t.Setenv("CATALOG_TEST_INT_BAD", "forty")
	if _, _, err := EnvInt("CATALOG_TEST_INT_BAD"); err == nil {
		t.Fatalf("expected error for non-integer value")
	}
}
