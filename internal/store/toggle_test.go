package store

import (
	"testing"
	"time"

	"github.com/manongfatu/dreamteamfinance/internal/core"
)

func sofaPlan(t *testing.T, s *Store) core.InstallmentPlan {
	t.Helper()
	p, err := s.AddInstallment(core.InstallmentPlan{
		ItemName:       "Sofa",
		TotalAmount:    12000,
		MonthlyAmount:  1000,
		NumberOfMonths: 12,
		StartDate:      time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("add installment: %v", err)
	}
	return p
}

func scheduleItem(t *testing.T, s *Store, planID string, monthIndex int) core.ScheduleItem {
	t.Helper()
	for _, p := range s.Installments() {
		if p.ID != planID {
			continue
		}
		for _, item := range p.Schedule {
			if item.MonthIndex == monthIndex {
				return item
			}
		}
	}
	t.Fatalf("schedule item for month %d not found", monthIndex)
	return core.ScheduleItem{}
}

func TestTogglePaidCreatesLinkedEntry(t *testing.T) {
	s := newTestStore(t)
	p := sofaPlan(t, s)

	s.SetInstallmentPaid(p.ID, 2024, 3, true)

	april, _ := s.MonthEntries(3)
	if len(april) != 1 {
		t.Fatalf("expected 1 generated entry in April, got %d", len(april))
	}
	e := april[0]
	if e.Type != core.Installment || e.Amount != 1000 || !e.Paid {
		t.Fatalf("unexpected generated entry: %+v", e)
	}
	if e.Date.Day() != 15 || e.Date.Month() != time.April {
		t.Fatalf("entry should carry the due date, got %v", e.Date)
	}

	item := scheduleItem(t, s, p.ID, 3)
	if !item.Paid {
		t.Fatal("schedule item should be marked paid")
	}
	if item.EntryID != e.ID {
		t.Fatalf("back-reference mismatch: %q vs %q", item.EntryID, e.ID)
	}
}

func TestToggleRoundTripRestoresMonth(t *testing.T) {
	s := newTestStore(t)
	manual, _ := s.AddEntry(3, core.Entry{
		Title: "Dinner", Amount: 60, Type: core.Expense,
		Date: time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC),
	})
	p := sofaPlan(t, s)

	s.SetInstallmentPaid(p.ID, 2024, 3, true)
	s.SetInstallmentPaid(p.ID, 2024, 3, false)

	april, _ := s.MonthEntries(3)
	if len(april) != 1 || april[0].ID != manual.ID {
		t.Fatalf("expected only the manual entry to remain, got %d entries", len(april))
	}
	item := scheduleItem(t, s, p.ID, 3)
	if item.Paid || item.EntryID != "" {
		t.Fatalf("schedule item should be fully reset, got %+v", item)
	}
}

func TestTogglePaidTwiceDoesNotDuplicate(t *testing.T) {
	s := newTestStore(t)
	p := sofaPlan(t, s)

	s.SetInstallmentPaid(p.ID, 2024, 3, true)
	s.SetInstallmentPaid(p.ID, 2024, 3, true)

	april, _ := s.MonthEntries(3)
	if len(april) != 1 {
		t.Fatalf("double toggle created %d entries, want 1", len(april))
	}
}

func TestToggleUnpaidWhenAlreadyUnpaidIsNoop(t *testing.T) {
	s := newTestStore(t)
	p := sofaPlan(t, s)

	s.SetInstallmentPaid(p.ID, 2024, 3, false)

	april, _ := s.MonthEntries(3)
	if len(april) != 0 {
		t.Fatal("unpaid toggle on unpaid item must not touch the ledger")
	}
	if scheduleItem(t, s, p.ID, 3).Paid {
		t.Fatal("item should remain unpaid")
	}
}

func TestToggleUnknownIDsFailSoft(t *testing.T) {
	s := newTestStore(t)
	p := sofaPlan(t, s)
	before := s.Snapshot()

	s.SetInstallmentPaid("no-such-plan", 2024, 3, true)
	s.SetInstallmentPaid(p.ID, 2031, 3, true) // year outside the schedule
	s.SetInstallmentPaid(p.ID, 2024, 13, true)

	after := s.Snapshot()
	for i := range before.Months {
		if len(after.Months[i].Entries) != len(before.Months[i].Entries) {
			t.Fatalf("month %d changed by invalid toggle", i)
		}
	}
}

func TestTogglePaidRecreatesExternallyDeletedEntry(t *testing.T) {
	s := newTestStore(t)
	p := sofaPlan(t, s)

	s.SetInstallmentPaid(p.ID, 2024, 3, true)
	first := scheduleItem(t, s, p.ID, 3)

	// Delete the generated entry through the ordinary entry path, leaving
	// the back-reference dangling.
	s.DeleteEntry(3, first.EntryID)

	s.SetInstallmentPaid(p.ID, 2024, 3, true)

	april, _ := s.MonthEntries(3)
	if len(april) != 1 {
		t.Fatalf("expected recreated entry, got %d entries", len(april))
	}
	item := scheduleItem(t, s, p.ID, 3)
	if item.EntryID == first.EntryID {
		t.Fatal("recreated entry must get a fresh id")
	}
	if item.EntryID != april[0].ID {
		t.Fatal("back-reference should point at the recreated entry")
	}
}

func TestToggleFiresChangeHook(t *testing.T) {
	s := newTestStore(t)
	p := sofaPlan(t, s)

	var fired int
	s.SetChangeHook(func(core.YearData) { fired++ })
	s.SetInstallmentPaid(p.ID, 2024, 3, true)

	if fired != 1 {
		t.Fatalf("expected 1 write-through, got %d", fired)
	}
}
