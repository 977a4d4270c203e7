// Package export renders ledger entries as CSV for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/manongfatu/dreamteamfinance/internal/core"
)

// isoTimestamp mirrors the millisecond ISO form the web exports used,
// so spreadsheets imported from either source line up.
const isoTimestamp = "2006-01-02T15:04:05.000Z"

var csvHeader = []string{"Title", "Amount", "Type", "Category", "Date", "Notes"}

// WriteEntries streams entries as CSV, header first.
func WriteEntries(w io.Writer, entries []core.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range entries {
		row := []string{
			e.Title,
			strconv.FormatFloat(e.Amount, 'f', -1, 64),
			string(e.Type),
			e.Category,
			e.Date.UTC().Format(isoTimestamp),
			e.Notes,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MonthFilename names a single-month export, finance_April.csv style.
func MonthFilename(monthIndex int) string {
	return fmt.Sprintf("finance_%s.csv", time.Month(monthIndex+1))
}

// YearFilename names a full-year export.
func YearFilename(year int) string {
	return fmt.Sprintf("finance_%d.csv", year)
}
