package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/manongfatu/dreamteamfinance/internal/core"
)

func TestWriteEntries(t *testing.T) {
	entries := []core.Entry{
		{
			Title:    "Paycheck",
			Amount:   5000,
			Type:     core.Income,
			Category: "Salary",
			Date:     time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			Title:    `Groceries, "weekly"`,
			Amount:   123.45,
			Type:     core.Expense,
			Category: "Food",
			Date:     time.Date(2024, 4, 3, 12, 30, 0, 0, time.UTC),
			Notes:    "two stops",
		},
	}

	var buf bytes.Buffer
	if err := WriteEntries(&buf, entries); err != nil {
		t.Fatalf("WriteEntries() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "Title,Amount,Type,Category,Date,Notes" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "Paycheck,5000,income,Salary,2024-04-01T00:00:00.000Z,") {
		t.Fatalf("unexpected income row: %q", lines[1])
	}
	// Commas and quotes must be escaped CSV style.
	if !strings.Contains(lines[2], `"Groceries, ""weekly"""`) {
		t.Fatalf("quoting broken: %q", lines[2])
	}
	if !strings.Contains(lines[2], "123.45") {
		t.Fatalf("amount missing: %q", lines[2])
	}
}

func TestWriteEntriesEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEntries(&buf, nil); err != nil {
		t.Fatalf("WriteEntries() error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "Title,Amount,Type,Category,Date,Notes" {
		t.Fatalf("expected header only, got %q", buf.String())
	}
}

func TestFilenames(t *testing.T) {
	if got := MonthFilename(3); got != "finance_April.csv" {
		t.Fatalf("MonthFilename(3) = %q, want finance_April.csv", got)
	}
	if got := YearFilename(2024); got != "finance_2024.csv" {
		t.Fatalf("YearFilename(2024) = %q, want finance_2024.csv", got)
	}
}
