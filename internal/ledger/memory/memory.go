// Package memory provides an in-memory transaction store for tests and
// local development.
package memory

import (
	"context"
	"fmt"
	"sync"

	"tally/internal/core"
	"tally/internal/ledger"
)

type Store struct {
	mu    sync.Mutex
	items []core.Transaction
}

var _ ledger.Store = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// Load returns a copy of the stored rows in insertion order.
func (s *Store) Load(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.items...), nil
}

// Append stores the transaction and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, tx)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Delete removes the row at the given ordinal index.
func (s *Store) Delete(_ context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.items) {
		return ledger.ErrIndexOutOfRange
	}
	s.items = append(s.items[:index], s.items[index+1:]...)
	return nil
}
