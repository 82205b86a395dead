package google

import (
	"fmt"
	"strconv"
	"strings"

	"tally/internal/core"
)

// parseRow converts a raw sheet row (Date, Type, Category, Amount, Notes)
// into a transaction. The sheet may hand back amounts either as the stored
// decimal string or as a locale-formatted number.
func parseRow(cols []string) (core.Transaction, error) {
	if len(cols) < 4 {
		return core.Transaction{}, fmt.Errorf("short row: %d columns", len(cols))
	}

	date, err := core.ParseDate(cols[0])
	if err != nil {
		return core.Transaction{}, fmt.Errorf("date %q: %w", cols[0], err)
	}
	typ, err := core.ParseTxType(cols[1])
	if err != nil {
		return core.Transaction{}, fmt.Errorf("type %q: %w", cols[1], err)
	}
	cents, ok := parseAmountToCents(cols[3])
	if !ok {
		return core.Transaction{}, fmt.Errorf("amount %q unparseable", cols[3])
	}
	notes := ""
	if len(cols) >= 5 {
		notes = cols[4]
	}

	return core.Transaction{
		Date:     date,
		Type:     typ,
		Category: strings.TrimSpace(cols[2]),
		Amount:   core.Money{Cents: cents},
		Notes:    notes,
	}, nil
}

// physicalRowOffset maps an ordinal index over the parseable rows to the
// zero-based offset of that row within the raw value range. Unparseable rows
// are invisible to callers but still occupy grid rows, so the two numberings
// diverge as soon as the sheet holds a bad row.
func physicalRowOffset(values [][]interface{}, ordinal int) (int, bool) {
	if ordinal < 0 {
		return 0, false
	}
	n := 0
	for i, row := range values {
		if _, err := parseRow(toStrings(row)); err != nil {
			continue
		}
		if n == ordinal {
			return i, true
		}
		n++
	}
	return 0, false
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

// parseAmountToCents accepts the same amounts as a fresh submission would:
// positive decimals with a comma or dot separator. Zero and negative values
// are rejected so loaded rows satisfy the same rules as appended ones.
func parseAmountToCents(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if cents, err := core.ParseDecimalToCents(s); err == nil {
		return cents, true
	}
	// Fallback for locale-formatted cells with thousands separators,
	// e.g. "1,234.56" handed back by USER_ENTERED
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	cents := int64((f * 100.0) + 0.5)
	if cents <= 0 {
		return 0, false
	}
	return cents, true
}
