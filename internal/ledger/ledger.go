// Package ledger implements the monthly ledger engine. Every function is pure:
// it takes a snapshot by value and returns a new one, leaving the caller's
// slices untouched.
package ledger

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"maliyye/internal/core"
)

var hundred = decimal.NewFromInt(100)

// UpsertMonth records revenue and expense for (year, label). An existing entry for
// the same month is replaced in place; otherwise the entry is appended. The result
// is re-sorted and every running balance recomputed.
func UpsertMonth(s core.Snapshot, year int, label string, revenue, expense decimal.Decimal) (core.Snapshot, error) {
	m, err := core.ParseMonth(label)
	if err != nil {
		return s, err
	}
	entry := core.LedgerEntry{
		Year:    year,
		Month:   m,
		Revenue: revenue,
		Expense: expense,
		Profit:  revenue.Sub(expense),
	}

	out := s.Clone()
	replaced := false
	for i := range out.Entries {
		if out.Entries[i].Year == year && out.Entries[i].Month == m {
			out.Entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		out.Entries = append(out.Entries, entry)
	}
	out.Entries = Recompute(out.Entries)
	return out, nil
}

// Recompute sorts entries by (year, month) and rewrites profit and the running
// balance from the first entry onwards. Duplicate months keep the last occurrence.
// The input slice is not modified.
func Recompute(entries []core.LedgerEntry) []core.LedgerEntry {
	out := make([]core.LedgerEntry, 0, len(entries))
	seen := make(map[core.Period]int, len(entries))
	for _, e := range entries {
		if i, ok := seen[e.Key()]; ok {
			out[i] = e
			continue
		}
		seen[e.Key()] = len(out)
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Before(out[j]) })

	balance := decimal.Zero
	for i := range out {
		out[i].Profit = out[i].Revenue.Sub(out[i].Expense)
		balance = balance.Add(out[i].Profit)
		out[i].Balance = balance
	}
	return out
}

// ReplaceExpenseCategories swaps the category set wholesale. Categories are keyed
// by name: a repeated name overwrites the earlier one but keeps its position.
func ReplaceExpenseCategories(s core.Snapshot, cats []core.ExpenseCategory) core.Snapshot {
	out := s.Clone()
	out.Categories = make([]core.ExpenseCategory, 0, len(cats))
	pos := make(map[string]int, len(cats))
	for _, c := range cats {
		if i, ok := pos[c.Name]; ok {
			out.Categories[i] = c
			continue
		}
		pos[c.Name] = len(out.Categories)
		out.Categories = append(out.Categories, c)
	}
	return out
}

// AppendUpcomingPayment adds p to the end of the payment list.
func AppendUpcomingPayment(s core.Snapshot, p core.UpcomingPayment) core.Snapshot {
	out := s.Clone()
	out.Payments = append(out.Payments, p)
	return out
}

// RemoveUpcomingPayment drops the payment at index. An index outside the list
// yields ErrIndexOutOfRange and s is returned as is.
func RemoveUpcomingPayment(s core.Snapshot, index int) (core.Snapshot, error) {
	if index < 0 || index >= len(s.Payments) {
		return s, fmt.Errorf("remove payment %d of %d: %w", index, len(s.Payments), core.ErrIndexOutOfRange)
	}
	out := s.Clone()
	out.Payments = append(out.Payments[:index], out.Payments[index+1:]...)
	return out, nil
}

// ComputeKPIs derives the headline figures from the two most recent entries.
func ComputeKPIs(s core.Snapshot) core.KPI {
	n := len(s.Entries)
	if n == 0 {
		return core.KPI{
			MonthlyProfit: decimal.Zero,
			Cashflow:      decimal.Zero,
			TotalExpenses: decimal.Zero,
			GrowthRate:    decimal.Zero,
		}
	}
	latest := s.Entries[n-1]
	kpi := core.KPI{
		MonthlyProfit: latest.Profit,
		Cashflow:      latest.Balance,
		TotalExpenses: latest.Expense,
		GrowthRate:    decimal.Zero,
	}
	if n > 1 {
		kpi.GrowthRate = growth(latest.Revenue, s.Entries[n-2].Revenue)
	}
	return kpi
}

// growth returns the percentage change from prior to current, rounded to two
// places. A non-positive prior yields zero.
func growth(current, prior decimal.Decimal) decimal.Decimal {
	if !prior.IsPositive() {
		return decimal.Zero
	}
	return current.Sub(prior).Div(prior).Mul(hundred).Round(2)
}

// Normalize re-establishes every snapshot invariant on data read from outside the
// engine, such as an imported or hand-edited document.
func Normalize(s core.Snapshot) (core.Snapshot, error) {
	for _, e := range s.Entries {
		if !e.Month.Valid() {
			return s, &core.InvalidMonthError{Label: e.Month.String()}
		}
	}
	out := s.Clone()
	out.Entries = Recompute(out.Entries)
	out = ReplaceExpenseCategories(out, out.Categories)
	for i := range out.Payments {
		out.Payments[i].Kind = core.ParseKind(string(out.Payments[i].Kind))
	}
	return out, nil
}

// IsValidation reports whether err was caused by bad caller input rather than
// by the engine or its collaborators.
func IsValidation(err error) bool {
	return errors.Is(err, core.ErrInvalidMonth) ||
		errors.Is(err, core.ErrIndexOutOfRange) ||
		errors.Is(err, ErrInvalidScenario) ||
		errors.Is(err, core.ErrEmptyTitle) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrInvalidAmount)
}
