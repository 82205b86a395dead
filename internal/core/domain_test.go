package core

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-15")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.Year() != 2024 || d.Month() != 3 || d.Day() != 15 {
		t.Fatalf("unexpected date: %v", d)
	}
	if got := d.String(); got != "2024-03-15" {
		t.Fatalf("expected normalized string, got %q", got)
	}

	bads := []string{"", "15/03/2024", "2024-13-01", "yesterday"}
	for _, s := range bads {
		if _, err := ParseDate(s); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q: expected ErrInvalidDate, got %v", s, err)
		}
	}
}

func TestParseTxType(t *testing.T) {
	cases := []struct {
		in   string
		want TxType
		ok   bool
	}{
		{"Expense", Expense, true},
		{"income", Income, true},
		{" Debt Given ", DebtGiven, true},
		{"DEBT REPAID", DebtRepaid, true},
		{"Transfer", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseTxType(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("%q: expected %q, got %q err=%v", tc.in, tc.want, got, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q: expected error", tc.in)
		}
	}
}

func TestTxTypeDirection(t *testing.T) {
	if !Income.In() || !DebtRepaid.In() {
		t.Fatal("Income and Debt Repaid must count as money in")
	}
	if !Expense.Out() || !DebtGiven.Out() {
		t.Fatal("Expense and Debt Given must count as money out")
	}
	if Expense.In() || Income.Out() {
		t.Fatal("direction helpers overlap")
	}
}

func TestCategoryLabel(t *testing.T) {
	cases := map[TxType]string{
		Expense:    "Category",
		Income:     "Source",
		DebtGiven:  "Person Name",
		DebtRepaid: "Person Name",
	}
	for typ, want := range cases {
		if got := CategoryLabel(typ); got != want {
			t.Fatalf("%s: expected %q, got %q", typ, want, got)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Date:     NewDate(2024, 3, 1),
		Type:     Expense,
		Category: "Food",
		Amount:   Money{Cents: 1250},
		Notes:    "lunch",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		tx   Transaction
		want error
	}{
		{"zero date", Transaction{Date: Date{Time: time.Time{}}, Type: Expense, Category: "c", Amount: Money{Cents: 1}}, ErrInvalidDate},
		{"bad type", Transaction{Date: NewDate(2024, 1, 1), Type: "Refund", Category: "c", Amount: Money{Cents: 1}}, ErrInvalidType},
		{"empty category", Transaction{Date: NewDate(2024, 1, 1), Type: Expense, Category: "  ", Amount: Money{Cents: 1}}, ErrEmptyCategory},
		{"zero amount", Transaction{Date: NewDate(2024, 1, 1), Type: Expense, Category: "c", Amount: Money{Cents: 0}}, ErrInvalidAmount},
	}
	for _, tc := range cases {
		if err := tc.tx.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}
