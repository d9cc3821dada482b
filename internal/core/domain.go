package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	KindExpense      PaymentKind = "expense"
	KindTax          PaymentKind = "tax"
	KindInsurance    PaymentKind = "insurance"
	KindSubscription PaymentKind = "subscription"
	KindMarketing    PaymentKind = "marketing"
	KindOther        PaymentKind = "other"
)

type (
	PaymentKind string

	// LedgerEntry is one calendar month of the ledger. Profit and Balance are
	// derived and only ever written by the ledger engine.
	LedgerEntry struct {
		Year    int
		Month   Month
		Revenue decimal.Decimal
		Expense decimal.Decimal
		Profit  decimal.Decimal
		Balance decimal.Decimal
	}

	ExpenseCategory struct {
		Name   string
		Amount decimal.Decimal
		Color  string
	}

	UpcomingPayment struct {
		Title    string
		Amount   decimal.Decimal
		DueDate  Date
		Kind     PaymentKind
		Category string
	}

	// KPI holds the headline figures derived from the two most recent months.
	KPI struct {
		MonthlyProfit decimal.Decimal `json:"monthlyProfit"`
		Cashflow      decimal.Decimal `json:"cashflow"`
		TotalExpenses decimal.Decimal `json:"totalExpenses"`
		GrowthRate    decimal.Decimal `json:"growthRate"`
	}

	// Snapshot is the full financial state at one point in time.
	Snapshot struct {
		Entries    []LedgerEntry
		Categories []ExpenseCategory
		Payments   []UpcomingPayment
	}
)

var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrEmptyTitle      = errors.New("empty payment title")
	ErrInvalidDate     = errors.New("invalid date")
)

// ParseKind maps a stored kind onto a known PaymentKind; unknown kinds read as other.
func ParseKind(s string) PaymentKind {
	switch k := PaymentKind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindExpense, KindTax, KindInsurance, KindSubscription, KindMarketing:
		return k
	default:
		return KindOther
	}
}

// Key returns the (year, month) identity of the entry.
func (e LedgerEntry) Key() Period {
	return Period{Year: e.Year, Month: e.Month}
}

// Date returns the YYYY-MM label of the entry.
func (e LedgerEntry) Date() string {
	return e.Key().String()
}

// Before orders entries by year, then canonical month index.
func (e LedgerEntry) Before(o LedgerEntry) bool {
	return e.Key().Before(o.Key())
}

func (p UpcomingPayment) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrEmptyTitle
	}
	if p.DueDate.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Clone returns a snapshot that shares no backing arrays with s.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Entries:    append([]LedgerEntry(nil), s.Entries...),
		Categories: append([]ExpenseCategory(nil), s.Categories...),
		Payments:   append([]UpcomingPayment(nil), s.Payments...),
	}
}

// Latest returns the last entry of the sorted ledger.
func (s Snapshot) Latest() (LedgerEntry, bool) {
	if len(s.Entries) == 0 {
		return LedgerEntry{}, false
	}
	return s.Entries[len(s.Entries)-1], true
}

// Period is a (year, month) pair.
type Period struct {
	Year  int
	Month Month
}

// ParsePeriod parses "YYYY-MM".
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return Period{}, fmt.Errorf("parse period %q: %w", s, err)
	}
	return Period{Year: t.Year(), Month: Month(int(t.Month()) - 1)}, nil
}

func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month.Number())
}

// Date wraps time.Time for calendar dates without a time of day.
type Date struct {
	time.Time
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a date string in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}
