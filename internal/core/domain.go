package core

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	Income      EntryType = "income"
	Expense     EntryType = "expense"
	Bill        EntryType = "bill"
	Savings     EntryType = "savings"
	Investment  EntryType = "investment"
	Installment EntryType = "installment"
)

// MonthsPerYear is the fixed size of a YearData month list.
const MonthsPerYear = 12

type (
	EntryType string

	// Entry is a single dated financial transaction belonging to one
	// month bucket of one year.
	Entry struct {
		ID       string    `json:"id"`
		Title    string    `json:"title"`
		Amount   float64   `json:"amount"`
		Type     EntryType `json:"entryType"`
		Category string    `json:"category,omitempty"`
		Date     time.Time `json:"date"`
		Notes    string    `json:"notes,omitempty"`
		Paid     bool      `json:"paid,omitempty"`
	}

	// MonthData holds all entries for one month of the tracked year.
	MonthData struct {
		MonthIndex int     `json:"monthIndex"` // 0-11
		Entries    []Entry `json:"entries"`
	}

	// ScheduleItem is one due-month record within an installment plan.
	// EntryID is a weak back-reference to the ledger entry generated
	// when the item is marked paid; it is set if and only if that entry
	// currently exists in the month bucket at (Year, MonthIndex).
	ScheduleItem struct {
		Year       int       `json:"year"`
		MonthIndex int       `json:"monthIndex"` // 0-11
		DueDate    time.Time `json:"dueDate"`
		Paid       bool      `json:"paid"`
		EntryID    string    `json:"entryId,omitempty"`
	}

	// InstallmentPlan is a multi-month payment plan. It owns its
	// schedule exclusively; the schedule length always equals
	// NumberOfMonths.
	InstallmentPlan struct {
		ID             string         `json:"id"`
		ItemName       string         `json:"itemName"`
		TotalAmount    float64        `json:"totalAmount"`
		DownPayment    float64        `json:"downPayment,omitempty"`
		MonthlyAmount  float64        `json:"monthlyAmount"`
		NumberOfMonths int            `json:"numberOfMonths"`
		StartDate      time.Time      `json:"startDate"`
		Schedule       []ScheduleItem `json:"schedule"`
		CreatedAt      time.Time      `json:"createdAt"`
	}

	// YearData is the root aggregate: exactly twelve month buckets plus
	// the installment plans tracked across them. The year is fixed at
	// creation and never advanced automatically.
	YearData struct {
		Year         int               `json:"year"`
		Months       []MonthData       `json:"months"`
		Installments []InstallmentPlan `json:"installments"`
	}

	// SummaryTotals is the derived per-category aggregate over a list of
	// entries. Net = Income - (Expenses+Bills+Savings+Investments+Installments).
	SummaryTotals struct {
		Income       float64 `json:"income"`
		Expenses     float64 `json:"expenses"`
		Bills        float64 `json:"bills"`
		Savings      float64 `json:"savings"`
		Investments  float64 `json:"investments"`
		Installments float64 `json:"installments"`
		Net          float64 `json:"net"`
	}
)

var (
	ErrEmptyTitle        = errors.New("empty title")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidEntryType  = errors.New("invalid entry type")
	ErrInvalidMonthIndex = errors.New("month index out of range")
	ErrEmptyItemName     = errors.New("empty item name")
	ErrInvalidMonthCount = errors.New("number of months must be at least 1")
	ErrZeroDate          = errors.New("date cannot be zero")
)

// IsValid reports whether t is one of the known entry types.
func (t EntryType) IsValid() bool {
	switch t {
	case Income, Expense, Bill, Savings, Investment, Installment:
		return true
	default:
		return false
	}
}

func (e Entry) Validate() error {
	if len(strings.TrimSpace(e.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(e.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) || e.Amount < 0 {
		return ErrInvalidAmount
	}
	if !e.Type.IsValid() {
		return ErrInvalidEntryType
	}
	if e.Date.IsZero() {
		return ErrZeroDate
	}
	return nil
}

func (p InstallmentPlan) Validate() error {
	if len(strings.TrimSpace(p.ItemName)) == 0 {
		return ErrEmptyItemName
	}
	if len(p.ItemName) > 200 {
		return errors.New("item name too long (max 200 characters)")
	}
	if p.NumberOfMonths < 1 {
		return ErrInvalidMonthCount
	}
	if math.IsNaN(p.MonthlyAmount) || math.IsInf(p.MonthlyAmount, 0) || p.MonthlyAmount <= 0 {
		return ErrInvalidAmount
	}
	if math.IsNaN(p.TotalAmount) || math.IsInf(p.TotalAmount, 0) || p.TotalAmount <= 0 {
		return ErrInvalidAmount
	}
	if p.DownPayment < 0 {
		return ErrInvalidAmount
	}
	if p.StartDate.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// ValidMonthIndex reports whether idx addresses one of the twelve buckets.
func ValidMonthIndex(idx int) bool {
	return idx >= 0 && idx < MonthsPerYear
}

// NewID returns a process-wide-unique identifier for a new entity.
// Identifiers are assigned once at creation and never reused.
func NewID() string {
	return uuid.NewString()
}

// EmptyYear builds a fresh YearData for the given calendar year with
// twelve empty month buckets and no installments.
func EmptyYear(year int) YearData {
	months := make([]MonthData, MonthsPerYear)
	for i := range months {
		months[i] = MonthData{MonthIndex: i, Entries: []Entry{}}
	}
	return YearData{
		Year:         year,
		Months:       months,
		Installments: []InstallmentPlan{},
	}
}
