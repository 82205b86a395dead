package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Port:          "8082",
		DataBackend:   "csv",
		CSVFilePath:   filepath.Join(t.TempDir(), "transactions.csv"),
		SQLiteDBPath:  filepath.Join(t.TempDir(), "tally.db"),
		SyncBatchSize: 10,
		SyncInterval:  30 * time.Second,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{
			name:   "valid csv backend config",
			mutate: func(c *Config) {},
		},
		{
			name:   "valid sqlite backend config",
			mutate: func(c *Config) { c.DataBackend = "sqlite" },
		},
		{
			name:   "valid memory backend config",
			mutate: func(c *Config) { c.DataBackend = "memory" },
		},
		{
			name: "valid sheets backend config",
			mutate: func(c *Config) {
				c.DataBackend = "sheets"
				c.GoogleSpreadsheetID = "sheet-id"
			},
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "invalid data backend",
			mutate:      func(c *Config) { c.DataBackend = "mongodb" },
			wantErr:     true,
			errorString: "invalid data backend 'mongodb'",
		},
		{
			name: "csv backend missing file path",
			mutate: func(c *Config) {
				c.DataBackend = "csv"
				c.CSVFilePath = ""
			},
			wantErr:     true,
			errorString: "CSV file path cannot be empty",
		},
		{
			name: "sqlite backend missing database path",
			mutate: func(c *Config) {
				c.DataBackend = "sqlite"
				c.SQLiteDBPath = ""
			},
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
		{
			name:        "sheets backend missing spreadsheet id",
			mutate:      func(c *Config) { c.DataBackend = "sheets" },
			wantErr:     true,
			errorString: "Google Spreadsheet ID is required",
		},
		{
			name:        "invalid AMQP URL scheme",
			mutate:      func(c *Config) { c.AMQPURL = "http://localhost:5672/" },
			wantErr:     true,
			errorString: "invalid AMQP URL scheme 'http'",
		},
		{
			name: "AMQP URL without exchange",
			mutate: func(c *Config) {
				c.AMQPURL = "amqp://localhost:5672/"
				c.AMQPExchange = ""
				c.AMQPQueue = "q"
			},
			wantErr:     true,
			errorString: "AMQP exchange name cannot be empty",
		},
		{
			name: "AMQP URL without queue",
			mutate: func(c *Config) {
				c.AMQPURL = "amqp://localhost:5672/"
				c.AMQPExchange = "x"
				c.AMQPQueue = ""
			},
			wantErr:     true,
			errorString: "AMQP queue name cannot be empty",
		},
		{
			name:        "sync batch size too small",
			mutate:      func(c *Config) { c.SyncBatchSize = 0 },
			wantErr:     true,
			errorString: "invalid sync batch size 0",
		},
		{
			name:        "sync interval too short",
			mutate:      func(c *Config) { c.SyncInterval = 100 * time.Millisecond },
			wantErr:     true,
			errorString: "invalid sync interval",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected validation error")
				}
				if !strings.Contains(err.Error(), tt.errorString) {
					t.Fatalf("expected error containing %q, got %q", tt.errorString, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("expected valid config, got %v", err)
			}
		})
	}
}

func TestConfig_ValidateWorker(t *testing.T) {
	cfg := validConfig(t)
	err := cfg.ValidateWorker()
	if err == nil {
		t.Fatal("expected error without AMQP URL")
	}
	if !strings.Contains(err.Error(), "AMQP URL is required for the sync worker") {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.AMQPURL = "amqp://localhost:5672/"
	cfg.AMQPExchange = "tally"
	cfg.AMQPQueue = "sync_transactions"
	if err := cfg.ValidateWorker(); err != nil {
		t.Fatalf("expected valid worker config, got %v", err)
	}

	// General validation still applies
	cfg.Port = "abc"
	if err := cfg.ValidateWorker(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8082" {
		t.Fatalf("unexpected default port: %q", cfg.Port)
	}
	if cfg.DataBackend != "csv" {
		t.Fatalf("unexpected default backend: %q", cfg.DataBackend)
	}
	if cfg.GoogleSheetName != "Transactions" {
		t.Fatalf("unexpected default sheet name: %q", cfg.GoogleSheetName)
	}
	if cfg.SyncBatchSize != 10 || cfg.SyncInterval != 30*time.Second {
		t.Fatalf("unexpected sync defaults: %d %v", cfg.SyncBatchSize, cfg.SyncInterval)
	}
}
