package store

import (
	"fmt"

	"github.com/manongfatu/dreamteamfinance/internal/core"
	applog "github.com/manongfatu/dreamteamfinance/internal/log"
)

// SetInstallmentPaid synchronizes a schedule item's paid state with its
// generated ledger entry, in both directions.
//
// Marking paid creates the installment entry in the target month (or
// re-marks the existing one paid); un-marking removes the generated entry
// and clears the back-reference. The schedule item's paid flag always
// takes the requested value. An unknown installment id or a (year, month)
// pair outside the schedule is a silent no-op: the UI cannot normally
// produce one, so failing soft keeps the contract simple.
//
// When the back-reference is set but the entry has been deleted through
// some other path, marking paid recreates the entry under a fresh id and
// repoints the reference.
func (s *Store) SetInstallmentPaid(installmentID string, year, monthIndex int, paid bool) {
	if !core.ValidMonthIndex(monthIndex) {
		return
	}
	changed := false
	s.mutate(func(y *core.YearData) {
		pi := -1
		for i := range y.Installments {
			if y.Installments[i].ID == installmentID {
				pi = i
				break
			}
		}
		if pi < 0 {
			return
		}
		plan := &y.Installments[pi]

		si := -1
		for i := range plan.Schedule {
			if plan.Schedule[i].Year == year && plan.Schedule[i].MonthIndex == monthIndex {
				si = i
				break
			}
		}
		if si < 0 {
			return
		}
		item := &plan.Schedule[si]
		month := &y.Months[monthIndex]

		if paid {
			if item.EntryID == "" {
				item.EntryID = insertGenerated(month, *plan, *item)
			} else if idx := indexOfEntry(month.Entries, item.EntryID); idx >= 0 {
				month.Entries[idx].Paid = true
			} else {
				// Reference survived but the entry is gone; recreate it.
				item.EntryID = insertGenerated(month, *plan, *item)
			}
		} else if item.EntryID != "" {
			if idx := indexOfEntry(month.Entries, item.EntryID); idx >= 0 {
				month.Entries = append(month.Entries[:idx], month.Entries[idx+1:]...)
			}
			item.EntryID = ""
		}
		item.Paid = paid
		changed = true
	})
	if changed {
		s.log.Debug("installment payment toggled",
			applog.FieldOperation, applog.OpToggle,
			applog.FieldInstallment, installmentID,
			applog.FieldYear, year,
			applog.FieldMonthIndex, monthIndex,
			applog.FieldPaid, paid)
	}
}

// insertGenerated creates the auto-generated ledger entry for a schedule
// item and prepends it to the month bucket, returning the new entry id.
func insertGenerated(month *core.MonthData, plan core.InstallmentPlan, item core.ScheduleItem) string {
	e := core.Entry{
		ID:       core.NewID(),
		Title:    fmt.Sprintf("%s (Installment)", plan.ItemName),
		Amount:   plan.MonthlyAmount,
		Type:     core.Installment,
		Category: "Installment",
		Date:     item.DueDate,
		Notes:    fmt.Sprintf("Auto-generated from installment %s", plan.ItemName),
		Paid:     true,
	}
	month.Entries = append([]core.Entry{e}, month.Entries...)
	return e.ID
}

func indexOfEntry(entries []core.Entry, id string) int {
	for i := range entries {
		if entries[i].ID == id {
			return i
		}
	}
	return -1
}
