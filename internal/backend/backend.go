// Package backend selects and constructs the record store implementation
// from configuration.
package backend

import (
	"context"
	"fmt"

	"tally/internal/config"
	"tally/internal/ledger"
)

// CleanupFunc releases resources owned by a backend.
type CleanupFunc func() error

// Result contains the store instance and an optional cleanup function.
type Result struct {
	Store   ledger.Store
	Cleanup CleanupFunc
}

// Type represents the record store backend kind.
type Type string

const (
	CSVBackend    Type = "csv"
	SQLiteBackend Type = "sqlite"
	SheetsBackend Type = "sheets"
	MemoryBackend Type = "memory"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case CSVBackend, SQLiteBackend, SheetsBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Types returns all valid backend types.
func Types() []Type {
	return []Type{CSVBackend, SQLiteBackend, SheetsBackend, MemoryBackend}
}

// Factory creates record stores based on configuration.
type Factory interface {
	CreateStore(ctx context.Context, cfg *config.Config) (*Result, error)
}

// TypeFromConfig extracts and validates the backend type from app config.
func TypeFromConfig(cfg *config.Config) (Type, error) {
	if cfg == nil {
		return "", fmt.Errorf("app config is nil")
	}
	t := Type(cfg.DataBackend)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid backend type in config: %s", cfg.DataBackend)
	}
	return t, nil
}
