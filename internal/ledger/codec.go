package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"maliyye/internal/core"
)

// Document is the persisted form of a snapshot.
type Document struct {
	MonthlyData      []entryDoc    `json:"monthlyData"`
	ExpenseBreakdown []categoryDoc `json:"expenseBreakdown"`
	UpcomingPayments []paymentDoc  `json:"upcomingPayments"`
}

type entryDoc struct {
	Month   string          `json:"month"`
	Year    int             `json:"year"`
	Date    string          `json:"date,omitempty"`
	Revenue decimal.Decimal `json:"gelir"`
	Expense decimal.Decimal `json:"xerc"`
	Profit  decimal.Decimal `json:"profit"`
	Balance decimal.Decimal `json:"balance"`
}

type categoryDoc struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
	Color string          `json:"color"`
}

type paymentDoc struct {
	Title    string          `json:"title"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date"`
	Type     string          `json:"type"`
	Category string          `json:"category"`
}

// NewDocument converts a snapshot to its persisted form.
func NewDocument(s core.Snapshot) Document {
	d := Document{
		MonthlyData:      make([]entryDoc, 0, len(s.Entries)),
		ExpenseBreakdown: make([]categoryDoc, 0, len(s.Categories)),
		UpcomingPayments: make([]paymentDoc, 0, len(s.Payments)),
	}
	for _, e := range s.Entries {
		d.MonthlyData = append(d.MonthlyData, entryDoc{
			Month:   e.Month.String(),
			Year:    e.Year,
			Date:    e.Date(),
			Revenue: e.Revenue,
			Expense: e.Expense,
			Profit:  e.Profit,
			Balance: e.Balance,
		})
	}
	for _, c := range s.Categories {
		d.ExpenseBreakdown = append(d.ExpenseBreakdown, categoryDoc{Name: c.Name, Value: c.Amount, Color: c.Color})
	}
	for _, p := range s.Payments {
		d.UpcomingPayments = append(d.UpcomingPayments, paymentDoc{
			Title:    p.Title,
			Amount:   p.Amount,
			Date:     p.DueDate.String(),
			Type:     string(p.Kind),
			Category: p.Category,
		})
	}
	return d
}

// Snapshot converts the document back into a normalized snapshot. Stored profit,
// balance and date values are ignored and derived again.
func (d Document) Snapshot() (core.Snapshot, error) {
	var s core.Snapshot
	for i, e := range d.MonthlyData {
		m, err := core.ParseMonth(e.Month)
		if err != nil {
			return core.Snapshot{}, fmt.Errorf("monthlyData[%d]: %w", i, err)
		}
		s.Entries = append(s.Entries, core.LedgerEntry{
			Year:    e.Year,
			Month:   m,
			Revenue: e.Revenue,
			Expense: e.Expense,
		})
	}
	for _, c := range d.ExpenseBreakdown {
		s.Categories = append(s.Categories, core.ExpenseCategory{Name: c.Name, Amount: c.Value, Color: c.Color})
	}
	for i, p := range d.UpcomingPayments {
		due, err := core.ParseDate(p.Date)
		if err != nil {
			return core.Snapshot{}, fmt.Errorf("upcomingPayments[%d]: %w", i, err)
		}
		s.Payments = append(s.Payments, core.UpcomingPayment{
			Title:    p.Title,
			Amount:   p.Amount,
			DueDate:  due,
			Kind:     core.ParseKind(p.Type),
			Category: p.Category,
		})
	}
	return Normalize(s)
}

// Encode serializes s into the persisted JSON document.
func Encode(s core.Snapshot) ([]byte, error) {
	b, err := json.Marshal(NewDocument(s))
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

// Decode parses a persisted JSON document into a normalized snapshot.
func Decode(b []byte) (core.Snapshot, error) {
	var d Document
	if err := json.Unmarshal(b, &d); err != nil {
		return core.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return d.Snapshot()
}
