package core

import "math"

// ComputeTotals reduces a list of entries into per-category sums and the
// net figure. Non-finite amounts (NaN, ±Inf) count as zero. The result is
// always derived on demand, never cached, so it cannot drift from the
// entry state it was computed over.
func ComputeTotals(entries []Entry) SummaryTotals {
	var t SummaryTotals
	for _, e := range entries {
		amt := e.Amount
		if math.IsNaN(amt) || math.IsInf(amt, 0) {
			amt = 0
		}
		switch e.Type {
		case Income:
			t.Income += amt
		case Expense:
			t.Expenses += amt
		case Bill:
			t.Bills += amt
		case Savings:
			t.Savings += amt
		case Investment:
			t.Investments += amt
		case Installment:
			t.Installments += amt
		}
	}
	t.Net = t.Income - (t.Expenses + t.Bills + t.Savings + t.Investments + t.Installments)
	return t
}
