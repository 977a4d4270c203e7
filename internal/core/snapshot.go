package core

import (
	"errors"
	"fmt"
)

var (
	ErrBadMonthCount = errors.New("snapshot must contain exactly 12 month buckets")
	ErrBadMonthOrder = errors.New("snapshot month buckets out of order")
)

// ValidateSnapshot checks that a hydrated YearData has the shape the rest
// of the system relies on: exactly twelve month buckets carrying indexes
// 0-11 in order. A snapshot that fails here must be rejected in favor of
// the local copy, never "fixed up" silently.
func ValidateSnapshot(y YearData) error {
	if len(y.Months) != MonthsPerYear {
		return fmt.Errorf("%w: got %d", ErrBadMonthCount, len(y.Months))
	}
	for i, m := range y.Months {
		if m.MonthIndex != i {
			return fmt.Errorf("%w: bucket %d has index %d", ErrBadMonthOrder, i, m.MonthIndex)
		}
	}
	for _, p := range y.Installments {
		if len(p.Schedule) != p.NumberOfMonths {
			return fmt.Errorf("installment %q: schedule length %d does not match %d months",
				p.ItemName, len(p.Schedule), p.NumberOfMonths)
		}
	}
	return nil
}

// CloneYear deep-copies a YearData so mutators can copy-on-write without
// sharing entry or schedule slices with previously handed-out snapshots.
func CloneYear(y YearData) YearData {
	out := y
	out.Months = make([]MonthData, len(y.Months))
	for i, m := range y.Months {
		out.Months[i] = MonthData{
			MonthIndex: m.MonthIndex,
			Entries:    append([]Entry(nil), m.Entries...),
		}
	}
	out.Installments = make([]InstallmentPlan, len(y.Installments))
	for i, p := range y.Installments {
		cp := p
		cp.Schedule = append([]ScheduleItem(nil), p.Schedule...)
		out.Installments[i] = cp
	}
	return out
}

// ReconcileRefs clears schedule back-references that no longer resolve to
// a ledger entry. An entry deleted through any path other than the payment
// toggle leaves its ScheduleItem holding a dangling EntryID; hydration
// runs this pass so later toggles see a consistent picture. Paid flags are
// left untouched. Returns the number of references dropped.
func ReconcileRefs(y *YearData) int {
	dropped := 0
	for pi := range y.Installments {
		plan := &y.Installments[pi]
		for si := range plan.Schedule {
			item := &plan.Schedule[si]
			if item.EntryID == "" {
				continue
			}
			if !ValidMonthIndex(item.MonthIndex) || findEntry(y.Months[item.MonthIndex].Entries, item.EntryID) < 0 {
				item.EntryID = ""
				dropped++
			}
		}
	}
	return dropped
}

func findEntry(entries []Entry, id string) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}
