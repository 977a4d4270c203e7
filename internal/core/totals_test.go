package core

import (
	"math"
	"testing"
)

func TestComputeTotalsEmpty(t *testing.T) {
	got := ComputeTotals(nil)
	if got != (SummaryTotals{}) {
		t.Fatalf("expected all-zero totals, got %+v", got)
	}
}

func TestComputeTotalsNetIdentity(t *testing.T) {
	entries := []Entry{
		{Type: Income, Amount: 5000},
		{Type: Income, Amount: 1200.50},
		{Type: Expense, Amount: 320.25},
		{Type: Bill, Amount: 90},
		{Type: Savings, Amount: 500},
		{Type: Investment, Amount: 250},
		{Type: Installment, Amount: 1000},
	}
	got := ComputeTotals(entries)

	if got.Income != 6200.50 {
		t.Fatalf("income: got %v", got.Income)
	}
	wantNet := got.Income - (got.Expenses + got.Bills + got.Savings + got.Investments + got.Installments)
	if got.Net != wantNet {
		t.Fatalf("net: got %v, want %v", got.Net, wantNet)
	}
}

func TestComputeTotalsNonFiniteAmounts(t *testing.T) {
	entries := []Entry{
		{Type: Income, Amount: 100},
		{Type: Income, Amount: math.NaN()},
		{Type: Expense, Amount: math.Inf(1)},
		{Type: Bill, Amount: math.Inf(-1)},
	}
	got := ComputeTotals(entries)

	if got.Income != 100 {
		t.Fatalf("income: got %v, want 100 (NaN treated as zero)", got.Income)
	}
	if got.Expenses != 0 || got.Bills != 0 {
		t.Fatalf("expected infinite amounts to count as zero, got %+v", got)
	}
	if got.Net != 100 {
		t.Fatalf("net: got %v, want 100", got.Net)
	}
}

func TestComputeTotalsIgnoresUnknownType(t *testing.T) {
	got := ComputeTotals([]Entry{{Type: EntryType("mystery"), Amount: 42}})
	if got != (SummaryTotals{}) {
		t.Fatalf("unknown entry type should not contribute, got %+v", got)
	}
}
