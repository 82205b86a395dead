package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Expense    TxType = "Expense"
	Income     TxType = "Income"
	DebtGiven  TxType = "Debt Given"
	DebtRepaid TxType = "Debt Repaid"
)

type (
	// TxType is the transaction kind. The string values match the historical
	// spreadsheet format, so they go to disk as-is.
	TxType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Transaction struct {
		Date     Date
		Type     TxType
		Category string // Meaning depends on Type, see CategoryLabel
		Amount   Money
		Notes    string
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyCategory = errors.New("empty category")
)

// DateLayout is the normalized on-disk date format.
const DateLayout = "2006-01-02"

// NewDate creates a new Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a date in the normalized YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Year returns the calendar year.
func (d Date) Year() int {
	return d.Time.Year()
}

// Month returns the calendar month as 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// String renders the date in the normalized on-disk format.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// ParseTxType maps a stored or submitted string to a TxType.
// Matching is case-insensitive and tolerant of surrounding whitespace.
func ParseTxType(s string) (TxType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "expense":
		return Expense, nil
	case "income":
		return Income, nil
	case "debt given":
		return DebtGiven, nil
	case "debt repaid":
		return DebtRepaid, nil
	default:
		return "", ErrInvalidType
	}
}

func (t TxType) Validate() error {
	switch t {
	case Expense, Income, DebtGiven, DebtRepaid:
		return nil
	default:
		return ErrInvalidType
	}
}

// In reports whether the type counts toward money in (Income, Debt Repaid).
func (t TxType) In() bool {
	return t == Income || t == DebtRepaid
}

// Out reports whether the type counts toward money out (Expense, Debt Given).
func (t TxType) Out() bool {
	return t == Expense || t == DebtGiven
}

// CategoryLabel returns the user-facing label for the category field.
// The category semantics depend on the transaction type: expenses are
// categorized by spending area, income by source, debts by counterparty.
func CategoryLabel(t TxType) string {
	switch t {
	case Income:
		return "Source"
	case DebtGiven, DebtRepaid:
		return "Person Name"
	default:
		return "Category"
	}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (tx Transaction) Validate() error {
	if err := tx.Date.Validate(); err != nil {
		return err
	}
	if err := tx.Type.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(tx.Category) == "" {
		return ErrEmptyCategory
	}
	if len(tx.Category) > 200 {
		return errors.New("category too long (max 200 characters)")
	}
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	return nil
}
