// Package worker mirrors locally stored transactions into the Google Sheets
// spreadsheet.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tally/internal/amqp"
	"tally/internal/core"
	"tally/internal/ledger"
	"tally/internal/storage"
)

// SyncWorker consumes sync events and mirrors SQLite rows into a sheet store.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	sheet     ledger.Store
	batchSize int
}

func NewSyncWorker(repo *storage.SQLiteRepository, sheet ledger.Store, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   repo,
		sheet:     sheet,
		batchSize: batchSize,
	}
}

// HandleSyncMessage mirrors a single transaction by storage ID.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "id", msg.ID)

	tx, err := w.storage.GetTransaction(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	if err := w.mirror(ctx, msg.ID, tx); err != nil {
		return fmt.Errorf("mirror transaction to sheet: %w", err)
	}
	return nil
}

// HandleDeleteMessage removes a mirrored row by ordinal index. The local
// delete already reindexed, so the same index addresses the mirror row.
func (w *SyncWorker) HandleDeleteMessage(ctx context.Context, msg *amqp.TransactionDeleteMessage) error {
	slog.InfoContext(ctx, "Processing delete message", "row_index", msg.Index)

	if err := w.sheet.Delete(ctx, msg.Index); err != nil {
		if errors.Is(err, ledger.ErrIndexOutOfRange) {
			// Mirror never had the row, nothing to undo
			slog.WarnContext(ctx, "Mirror row already absent", "row_index", msg.Index)
			return nil
		}
		return fmt.Errorf("delete mirror row %d: %w", msg.Index, err)
	}

	slog.InfoContext(ctx, "Deleted mirror row", "row_index", msg.Index)
	return nil
}

// ProcessPendingTransactions mirrors any rows the message flow missed.
// Backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPendingTransactions(ctx context.Context) error {
	pending, err := w.storage.GetPendingSync(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	for _, p := range pending {
		if err := w.mirror(ctx, p.ID, p.Transaction); err != nil {
			slog.ErrorContext(ctx, "Failed to mirror pending transaction", "id", p.ID, "error", err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			continue
		}
	}
	return nil
}

func (w *SyncWorker) mirror(ctx context.Context, id int64, tx core.Transaction) error {
	ref, err := w.sheet.Append(ctx, tx)
	if err != nil {
		return err
	}
	if err := w.storage.MarkSynced(ctx, id); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}

	slog.InfoContext(ctx, "Transaction mirrored",
		"id", id,
		"row_ref", ref,
		"tx_type", string(tx.Type),
		"amount_cents", tx.Amount.Cents)
	return nil
}
