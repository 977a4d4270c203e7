package store

import (
	"time"

	"github.com/manongfatu/dreamteamfinance/internal/core"
)

// Year returns the calendar year the aggregate tracks.
func (s *Store) Year() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Year
}

// MonthEntries returns a copy of the entry list for one month bucket.
func (s *Store) MonthEntries(monthIndex int) ([]core.Entry, error) {
	if !core.ValidMonthIndex(monthIndex) {
		return nil, core.ErrInvalidMonthIndex
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Entry(nil), s.data.Months[monthIndex].Entries...), nil
}

// Installments returns a copy of the installment plan list.
func (s *Store) Installments() []core.InstallmentPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.InstallmentPlan, len(s.data.Installments))
	for i, p := range s.data.Installments {
		cp := p
		cp.Schedule = append([]core.ScheduleItem(nil), p.Schedule...)
		out[i] = cp
	}
	return out
}

// AllEntriesYTD flattens every month bucket into a single list, in month
// order.
func (s *Store) AllEntriesYTD() []core.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Entry
	for _, m := range s.data.Months {
		out = append(out, m.Entries...)
	}
	return out
}

// MonthTotals computes the derived totals for one month bucket.
func (s *Store) MonthTotals(monthIndex int) (core.SummaryTotals, error) {
	entries, err := s.MonthEntries(monthIndex)
	if err != nil {
		return core.SummaryTotals{}, err
	}
	return core.ComputeTotals(entries), nil
}

// YTDTotals computes the derived totals across the whole year.
func (s *Store) YTDTotals() core.SummaryTotals {
	return core.ComputeTotals(s.AllEntriesYTD())
}

// UpcomingPayment is one unpaid schedule item joined with its plan, as
// surfaced to the reminder dispatcher.
type UpcomingPayment struct {
	ItemName      string
	MonthlyAmount float64
	DueDate       time.Time
}

// DueInDays returns the unpaid schedule items due exactly days calendar
// days after now (same calendar date, not a 24h window).
func (s *Store) DueInDays(now time.Time, days int) []UpcomingPayment {
	target := now.AddDate(0, 0, days)
	ty, tm, td := target.Date()

	s.mu.Lock()
	defer s.mu.Unlock()
	var out []UpcomingPayment
	for _, p := range s.data.Installments {
		for _, item := range p.Schedule {
			if item.Paid {
				continue
			}
			y, m, d := item.DueDate.Date()
			if y == ty && m == tm && d == td {
				out = append(out, UpcomingPayment{
					ItemName:      p.ItemName,
					MonthlyAmount: p.MonthlyAmount,
					DueDate:       item.DueDate,
				})
			}
		}
	}
	return out
}
