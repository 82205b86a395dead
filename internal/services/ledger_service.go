// Package services orchestrates record store operations with the
// spreadsheet sync pipeline.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"tally/internal/core"
	"tally/internal/ledger"
)

// SyncPublisher publishes mirror events for the sync worker.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, id int64) error
	PublishTransactionDelete(ctx context.Context, index int) error
}

// PendingChecker reports whether local rows are still waiting to be
// mirrored. Implemented by the SQLite repository.
type PendingChecker interface {
	HasPendingSync(ctx context.Context) (bool, error)
}

// LedgerService wraps a record store and publishes sync events after local
// writes. Publish failures are logged, never surfaced: the local write is the
// source of truth and the worker has a periodic backup scan.
type LedgerService struct {
	store     ledger.Store
	publisher SyncPublisher
}

var _ ledger.Store = (*LedgerService)(nil)

func NewLedgerService(store ledger.Store, publisher SyncPublisher) *LedgerService {
	return &LedgerService{store: store, publisher: publisher}
}

// Load passes through to the underlying store.
func (s *LedgerService) Load(ctx context.Context) ([]core.Transaction, error) {
	return s.store.Load(ctx)
}

// Append saves the transaction locally first, then publishes a sync message.
func (s *LedgerService) Append(ctx context.Context, tx core.Transaction) (string, error) {
	ref, err := s.store.Append(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("save transaction: %w", err)
	}

	if s.publisher == nil {
		return ref, nil
	}

	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		// Non-numeric refs come from backends without a sync mirror
		slog.WarnContext(ctx, "Skipping sync publish for non-numeric row ref", "row_ref", ref)
		return ref, nil
	}

	if err := s.publisher.PublishTransactionSync(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message", "id", id, "error", err)
	}

	return ref, nil
}

// Delete removes the row locally first, then publishes a delete message.
// The mirror delete targets the same ordinal index, which only holds while
// local and mirror tables agree. With rows still pending sync the mirror
// ordinals diverge, and the periodic scan cannot undo a wrong deletion, so
// the publish is skipped and the mirror row left for manual cleanup.
func (s *LedgerService) Delete(ctx context.Context, index int) error {
	if err := s.store.Delete(ctx, index); err != nil {
		return err
	}

	if s.publisher == nil {
		return nil
	}

	if pc, ok := s.store.(PendingChecker); ok {
		pending, err := pc.HasPendingSync(ctx)
		if err != nil {
			slog.WarnContext(ctx, "Pending sync check failed, skipping delete publish", "row_index", index, "error", err)
			return nil
		}
		if pending {
			slog.WarnContext(ctx, "Skipping delete publish while rows are pending sync", "row_index", index)
			return nil
		}
	}

	if err := s.publisher.PublishTransactionDelete(ctx, index); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message", "row_index", index, "error", err)
	}
	return nil
}
