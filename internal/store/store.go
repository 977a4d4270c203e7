// Package store owns the in-memory YearData aggregate. It is the only
// place state is mutated: every mutator copies the current snapshot,
// applies the change, swaps the new snapshot in atomically, and notifies
// the persistence hook. Readers always receive a deep copy, so a snapshot
// handed out earlier can never be changed underneath its holder.
package store

import (
	"sync"
	"time"

	"github.com/manongfatu/dreamteamfinance/internal/core"
	applog "github.com/manongfatu/dreamteamfinance/internal/log"
)

// ChangeHook receives the post-mutation snapshot. The store calls it
// synchronously after every successful mutation; the hook must not call
// back into the store.
type ChangeHook func(core.YearData)

// Store is the single state container for one user session's YearData.
type Store struct {
	mu       sync.Mutex
	data     core.YearData
	onChange ChangeHook
	log      *applog.Logger
}

func New(initial core.YearData, logger *applog.Logger) *Store {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Store{
		data: core.CloneYear(initial),
		log:  logger.WithComponent(applog.ComponentStore),
	}
}

// SetChangeHook installs the persistence write-through hook. Must be set
// before the store is shared.
func (s *Store) SetChangeHook(fn ChangeHook) {
	s.onChange = fn
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() core.YearData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return core.CloneYear(s.data)
}

// Replace adopts a hydrated snapshot as current state without firing the
// change hook. Used once per sign-in after the remote snapshot passed
// validation; firing the hook here would bounce the hydration straight
// back to the remote store.
func (s *Store) Replace(y core.YearData) {
	s.mu.Lock()
	s.data = core.CloneYear(y)
	s.mu.Unlock()
	s.log.Info("snapshot replaced", applog.FieldOperation, applog.OpHydrate, applog.FieldYear, y.Year)
}

// mutate runs fn against a private copy of the state, swaps the result
// in, and notifies the change hook outside the lock.
func (s *Store) mutate(fn func(*core.YearData)) {
	s.mu.Lock()
	next := core.CloneYear(s.data)
	fn(&next)
	s.data = next
	snap := core.CloneYear(next)
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange(snap)
	}
}

// EntryUpdate carries a partial entry update; nil fields are untouched.
type EntryUpdate struct {
	Title    *string
	Amount   *float64
	Type     *core.EntryType
	Category *string
	Date     *time.Time
	Notes    *string
	Paid     *bool
}

// AddEntry validates and inserts a new entry at the head of the month's
// list, assigning its identifier.
func (s *Store) AddEntry(monthIndex int, e core.Entry) (core.Entry, error) {
	if !core.ValidMonthIndex(monthIndex) {
		return core.Entry{}, core.ErrInvalidMonthIndex
	}
	e.ID = core.NewID()
	if err := e.Validate(); err != nil {
		return core.Entry{}, err
	}
	s.mutate(func(y *core.YearData) {
		m := &y.Months[monthIndex]
		m.Entries = append([]core.Entry{e}, m.Entries...)
	})
	s.log.Debug("entry added",
		applog.FieldOperation, applog.OpCreate,
		applog.FieldMonthIndex, monthIndex,
		applog.FieldEntryID, e.ID,
		applog.FieldEntryType, string(e.Type),
		applog.FieldAmount, e.Amount)
	return e, nil
}

// UpdateEntry applies a partial update to the entry with the given id.
// A missing entry is a silent no-op.
func (s *Store) UpdateEntry(monthIndex int, id string, u EntryUpdate) error {
	if !core.ValidMonthIndex(monthIndex) {
		return core.ErrInvalidMonthIndex
	}
	s.mutate(func(y *core.YearData) {
		entries := y.Months[monthIndex].Entries
		for i := range entries {
			if entries[i].ID != id {
				continue
			}
			if u.Title != nil {
				entries[i].Title = *u.Title
			}
			if u.Amount != nil {
				entries[i].Amount = *u.Amount
			}
			if u.Type != nil {
				entries[i].Type = *u.Type
			}
			if u.Category != nil {
				entries[i].Category = *u.Category
			}
			if u.Date != nil {
				entries[i].Date = *u.Date
			}
			if u.Notes != nil {
				entries[i].Notes = *u.Notes
			}
			if u.Paid != nil {
				entries[i].Paid = *u.Paid
			}
			return
		}
	})
	return nil
}

// DeleteEntry removes the entry with the given id from the month bucket.
// A missing entry is a silent no-op.
func (s *Store) DeleteEntry(monthIndex int, id string) error {
	if !core.ValidMonthIndex(monthIndex) {
		return core.ErrInvalidMonthIndex
	}
	s.mutate(func(y *core.YearData) {
		m := &y.Months[monthIndex]
		kept := m.Entries[:0]
		for _, e := range m.Entries {
			if e.ID != id {
				kept = append(kept, e)
			}
		}
		m.Entries = kept
	})
	return nil
}

// ClearMonth drops every entry in the month bucket.
func (s *Store) ClearMonth(monthIndex int) error {
	if !core.ValidMonthIndex(monthIndex) {
		return core.ErrInvalidMonthIndex
	}
	s.mutate(func(y *core.YearData) {
		y.Months[monthIndex].Entries = []core.Entry{}
	})
	s.log.Debug("month cleared", applog.FieldOperation, applog.OpClear, applog.FieldMonthIndex, monthIndex)
	return nil
}

// AddInstallment validates the plan, generates its schedule, and appends
// it to the aggregate.
func (s *Store) AddInstallment(p core.InstallmentPlan) (core.InstallmentPlan, error) {
	p.ID = core.NewID()
	p.CreatedAt = time.Now().UTC()
	if err := p.Validate(); err != nil {
		return core.InstallmentPlan{}, err
	}
	p.Schedule = core.BuildSchedule(p.StartDate, p.NumberOfMonths)
	s.mutate(func(y *core.YearData) {
		y.Installments = append(y.Installments, p)
	})
	s.log.Debug("installment added",
		applog.FieldOperation, applog.OpCreate,
		applog.FieldInstallment, p.ID,
		applog.FieldAmount, p.MonthlyAmount)
	return p, nil
}

// InstallmentUpdate carries a partial plan update. The schedule, id and
// creation time cannot be changed through updates.
type InstallmentUpdate struct {
	ItemName      *string
	TotalAmount   *float64
	DownPayment   *float64
	MonthlyAmount *float64
}

// UpdateInstallment applies a partial update to the plan with the given
// id. A missing plan is a silent no-op.
func (s *Store) UpdateInstallment(id string, u InstallmentUpdate) {
	s.mutate(func(y *core.YearData) {
		for i := range y.Installments {
			if y.Installments[i].ID != id {
				continue
			}
			if u.ItemName != nil {
				y.Installments[i].ItemName = *u.ItemName
			}
			if u.TotalAmount != nil {
				y.Installments[i].TotalAmount = *u.TotalAmount
			}
			if u.DownPayment != nil {
				y.Installments[i].DownPayment = *u.DownPayment
			}
			if u.MonthlyAmount != nil {
				y.Installments[i].MonthlyAmount = *u.MonthlyAmount
			}
			return
		}
	})
}

// DeleteInstallment removes the plan with the given id. Ledger entries
// previously generated from its schedule are left in place.
func (s *Store) DeleteInstallment(id string) {
	s.mutate(func(y *core.YearData) {
		kept := y.Installments[:0]
		for _, p := range y.Installments {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		y.Installments = kept
	})
}
