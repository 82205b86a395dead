package csvfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tally/internal/core"
	"tally/internal/ledger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "transactions.csv"))
}

func sample(typ core.TxType, cat string, cents int64, y, m, d int) core.Transaction {
	return core.Transaction{
		Date:     core.NewDate(y, m, d),
		Type:     typ,
		Category: cat,
		Amount:   core.Money{Cents: cents},
		Notes:    "note",
	}
}

func TestLoadCreatesMissingTable(t *testing.T) {
	s := newTestStore(t)
	rows, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty table, got %d rows", len(rows))
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		t.Fatalf("table file was not created: %v", err)
	}
	if string(data) != "Date,Type,Category,Amount,Notes\n" {
		t.Fatalf("unexpected header: %q", string(data))
	}
}

func TestAppendRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := []core.Transaction{
		sample(core.Income, "Salary", 300000, 2024, 3, 1),
		sample(core.Expense, "Food", 4550, 2024, 3, 2),
		sample(core.DebtGiven, "John", 10000, 2024, 4, 3),
	}
	for i, tx := range in {
		ref, err := s.Append(ctx, tx)
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if ref == "" {
			t.Fatalf("append %d: empty row ref", i)
		}
	}

	rows, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rows) != len(in) {
		t.Fatalf("expected %d rows, got %d", len(in), len(rows))
	}
	for i := range in {
		if rows[i].Date.String() != in[i].Date.String() ||
			rows[i].Type != in[i].Type ||
			rows[i].Category != in[i].Category ||
			rows[i].Amount != in[i].Amount ||
			rows[i].Notes != in[i].Notes {
			t.Fatalf("row %d mismatch: got %+v want %+v", i, rows[i], in[i])
		}
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	bads := []core.Transaction{
		sample(core.Expense, "", 100, 2024, 1, 1),  // empty category
		sample(core.Expense, "Food", 0, 2024, 1, 1), // zero amount
	}
	for i, tx := range bads {
		if _, err := s.Append(ctx, tx); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}

	rows, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("store was modified by rejected append: %d rows", len(rows))
	}
}

func TestDeleteReindexes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i, cat := range []string{"a", "b", "c"} {
		if _, err := s.Append(ctx, sample(core.Expense, cat, 100, 2024, 1, i+1)); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	if err := s.Delete(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	rows, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows after delete, got %d", len(rows))
	}
	if rows[0].Category != "a" || rows[1].Category != "c" {
		t.Fatalf("wrong reindexing: %+v", rows)
	}
}

func TestDeleteOutOfRange(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if _, err := s.Append(ctx, sample(core.Expense, "a", 100, 2024, 1, 1)); err != nil {
		t.Fatalf("append: %v", err)
	}

	for _, idx := range []int{-1, 1, 99} {
		if err := s.Delete(ctx, idx); !errors.Is(err, ledger.ErrIndexOutOfRange) {
			t.Fatalf("index %d: expected ErrIndexOutOfRange, got %v", idx, err)
		}
	}

	rows, _ := s.Load(ctx)
	if len(rows) != 1 {
		t.Fatalf("out-of-range delete modified the store: %d rows", len(rows))
	}
}

func TestLoadDropsMalformedDates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	raw := "Date,Type,Category,Amount,Notes\n" +
		"2024-03-15,Expense,Food,10.00,ok\n" +
		"not-a-date,Expense,Food,5.00,dropped\n" +
		"2024-03-16,Nonsense,Food,5.00,dropped\n" +
		"2024-03-17,Income,Salary,20.00,ok\n"
	if err := os.WriteFile(s.path, []byte(raw), 0644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	rows, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected malformed rows to be dropped, got %d rows", len(rows))
	}
	if rows[0].Notes != "ok" || rows[1].Notes != "ok" {
		t.Fatalf("wrong rows survived: %+v", rows)
	}
}
