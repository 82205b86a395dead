package core

// Totals is the top-level cash flow summary.
// Balance is MoneyIn minus MoneyOut and may be negative.
type Totals struct {
	MoneyIn  Money
	MoneyOut Money
	Balance  Money
}

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// Summarize computes money in, money out and the balance over rows.
// Income and Debt Repaid count as money in; Expense and Debt Given as money out.
func Summarize(rows []Transaction) Totals {
	var in, out int64
	for _, tx := range rows {
		switch {
		case tx.Type.In():
			in += tx.Amount.Cents
		case tx.Type.Out():
			out += tx.Amount.Cents
		}
	}
	return Totals{
		MoneyIn:  Money{Cents: in},
		MoneyOut: Money{Cents: out},
		Balance:  Money{Cents: in - out},
	}
}

// CategoryBreakdown sums Expense rows by category, preserving first-seen
// category order. Other transaction types are ignored.
func CategoryBreakdown(rows []Transaction) []CategoryAmount {
	byCat := map[string]int64{}
	order := make([]string, 0)
	for _, tx := range rows {
		if tx.Type != Expense {
			continue
		}
		if _, seen := byCat[tx.Category]; !seen {
			order = append(order, tx.Category)
		}
		byCat[tx.Category] += tx.Amount.Cents
	}
	out := make([]CategoryAmount, 0, len(order))
	for _, name := range order {
		out = append(out, CategoryAmount{Name: name, Amount: Money{Cents: byCat[name]}})
	}
	return out
}

// FilterByMonth returns the rows dated in the given year and month,
// preserving their order.
func FilterByMonth(rows []Transaction, year, month int) []Transaction {
	var out []Transaction
	for _, tx := range rows {
		if tx.Date.Year() == year && tx.Date.Month() == month {
			out = append(out, tx)
		}
	}
	return out
}
