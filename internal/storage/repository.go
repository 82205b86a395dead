// Package storage provides the SQLite-backed transaction store. It keeps the
// same ordinal row semantics as the file-backed store (rows ordered by
// insertion, delete-by-index reindexes) and additionally tracks a synced flag
// used by the sheets sync worker.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"tally/internal/core"
	"tally/internal/ledger"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ ledger.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load implements ledger.Loader. Rows come back in insertion order; rows with
// unparseable dates or types are dropped with a warning rather than reported.
func (r *SQLiteRepository) Load(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, tx_date, tx_type, category, amount_cents, notes
		 FROM transactions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		var (
			id           int64
			dateStr, typ string
			category     string
			cents        int64
			notes        string
		)
		if err := rows.Scan(&id, &dateStr, &typ, &category, &cents, &notes); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx, err := rowToTransaction(dateStr, typ, category, cents, notes)
		if err != nil {
			slog.WarnContext(ctx, "Skipping unparseable stored row", "id", id, "error", err)
			continue
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

// Append implements ledger.Appender. The returned reference is the database ID.
func (r *SQLiteRepository) Append(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (tx_date, tx_type, category, amount_cents, notes)
		 VALUES (?, ?, ?, ?, ?)`,
		tx.Date.String(), string(tx.Type), tx.Category, tx.Amount.Cents, tx.Notes)
	if err != nil {
		return "", fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return "", fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", id,
		"type", string(tx.Type),
		"category", tx.Category,
		"amount_cents", tx.Amount.Cents)

	return strconv.FormatInt(id, 10), nil
}

// Delete implements ledger.Deleter: removes the row at the given ordinal
// position in insertion order.
func (r *SQLiteRepository) Delete(ctx context.Context, index int) error {
	if index < 0 {
		return ledger.ErrIndexOutOfRange
	}
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id =
		   (SELECT id FROM transactions ORDER BY id LIMIT 1 OFFSET ?)`, index)
	if err != nil {
		return fmt.Errorf("delete transaction at index %d: %w", index, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ledger.ErrIndexOutOfRange
	}

	slog.InfoContext(ctx, "Transaction deleted from SQLite", "index", index)
	return nil
}

// GetTransaction retrieves a single transaction by its database ID.
func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	var (
		dateStr, typ string
		category     string
		cents        int64
		notes        string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT tx_date, tx_type, category, amount_cents, notes
		 FROM transactions WHERE id = ?`, id).
		Scan(&dateStr, &typ, &category, &cents, &notes)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return rowToTransaction(dateStr, typ, category, cents, notes)
}

// PendingTransaction pairs a database ID with its row for sync operations.
type PendingTransaction struct {
	ID          int64
	Transaction core.Transaction
}

// GetPendingSync returns up to limit transactions that have not been mirrored
// to the spreadsheet yet. Backup path for lost sync messages.
func (r *SQLiteRepository) GetPendingSync(ctx context.Context, limit int) ([]PendingTransaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, tx_date, tx_type, category, amount_cents, notes
		 FROM transactions WHERE synced = 0 AND sync_error = 0
		 ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending transactions: %w", err)
	}
	defer rows.Close()

	var out []PendingTransaction
	for rows.Next() {
		var (
			id           int64
			dateStr, typ string
			category     string
			cents        int64
			notes        string
		)
		if err := rows.Scan(&id, &dateStr, &typ, &category, &cents, &notes); err != nil {
			return nil, fmt.Errorf("scan pending transaction: %w", err)
		}
		tx, err := rowToTransaction(dateStr, typ, category, cents, notes)
		if err != nil {
			slog.WarnContext(ctx, "Skipping unparseable pending row", "id", id, "error", err)
			continue
		}
		out = append(out, PendingTransaction{ID: id, Transaction: tx})
	}
	return out, rows.Err()
}

// HasPendingSync reports whether any rows still wait to be mirrored.
func (r *SQLiteRepository) HasPendingSync(ctx context.Context) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE synced = 0 AND sync_error = 0`).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count pending transactions: %w", err)
	}
	return n > 0, nil
}

// MarkSynced marks a transaction as successfully mirrored.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET synced = 1, sync_error = 0 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark transaction synced: %w", err)
	}
	return nil
}

// MarkSyncError flags a transaction so the periodic scan stops retrying it.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_error = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark transaction sync error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with sync error", "id", id)
	return nil
}

func rowToTransaction(dateStr, typ, category string, cents int64, notes string) (core.Transaction, error) {
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("date %q: %w", dateStr, err)
	}
	txType, err := core.ParseTxType(typ)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("type %q: %w", typ, err)
	}
	return core.Transaction{
		Date:     date,
		Type:     txType,
		Category: category,
		Amount:   core.Money{Cents: cents},
		Notes:    notes,
	}, nil
}
