// Package csvfile persists the transaction table to a local CSV file with
// the fixed columns Date, Type, Category, Amount, Notes. Every mutation is a
// full read-modify-write of the file; there is no isolation from concurrent
// writers.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"tally/internal/core"
	"tally/internal/ledger"
)

var header = []string{"Date", "Type", "Category", "Amount", "Notes"}

type Store struct {
	path string
}

var _ ledger.Store = (*Store)(nil)

func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the whole table. A missing file is created with the header row
// and reported as an empty table. Rows whose date, type or amount do not
// parse are dropped with a warning, not surfaced to the caller.
func (s *Store) Load(ctx context.Context) ([]core.Transaction, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if err := s.writeAll(nil); err != nil {
				return nil, fmt.Errorf("initialize table %s: %w", s.path, err)
			}
			return nil, nil
		}
		return nil, fmt.Errorf("open table %s: %w", s.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", s.path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var rows []core.Transaction
	for i, record := range records[1:] { // skip header
		if len(record) < 4 {
			slog.WarnContext(ctx, "Skipping short row", "file", s.path, "row", i+2)
			continue
		}
		date, err := core.ParseDate(record[0])
		if err != nil {
			slog.WarnContext(ctx, "Skipping row with unparseable date", "file", s.path, "row", i+2, "value", record[0])
			continue
		}
		typ, err := core.ParseTxType(record[1])
		if err != nil {
			slog.WarnContext(ctx, "Skipping row with unknown type", "file", s.path, "row", i+2, "value", record[1])
			continue
		}
		cents, err := core.ParseDecimalToCents(record[3])
		if err != nil {
			slog.WarnContext(ctx, "Skipping row with invalid amount", "file", s.path, "row", i+2, "value", record[3])
			continue
		}
		notes := ""
		if len(record) >= 5 {
			notes = record[4]
		}
		rows = append(rows, core.Transaction{
			Date:     date,
			Type:     typ,
			Category: record[2],
			Amount:   core.Money{Cents: cents},
			Notes:    notes,
		})
	}
	return rows, nil
}

// Append loads the table, adds the row and rewrites the file.
// The returned reference is the 1-based row position.
func (s *Store) Append(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	rows, err := s.Load(ctx)
	if err != nil {
		return "", err
	}
	rows = append(rows, tx)
	if err := s.writeAll(rows); err != nil {
		return "", fmt.Errorf("rewrite table %s: %w", s.path, err)
	}
	return fmt.Sprintf("row:%d", len(rows)), nil
}

// Delete removes the row at the given ordinal index and rewrites the file.
func (s *Store) Delete(ctx context.Context, index int) error {
	rows, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(rows) {
		return ledger.ErrIndexOutOfRange
	}
	rows = append(rows[:index], rows[index+1:]...)
	if err := s.writeAll(rows); err != nil {
		return fmt.Errorf("rewrite table %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) writeAll(rows []core.Transaction) error {
	if dir := filepath.Dir(s.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}
	f, err := os.Create(s.path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	records := make([][]string, 0, len(rows)+1)
	records = append(records, header)
	for _, tx := range rows {
		records = append(records, []string{
			tx.Date.String(),
			string(tx.Type),
			tx.Category,
			tx.Amount.Decimal(),
			tx.Notes,
		})
	}
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
