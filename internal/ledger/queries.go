package ledger

import (
	"github.com/shopspring/decimal"

	"maliyye/internal/core"
)

// DefaultTrendWindow is the number of trailing months averaged by Trends.
const DefaultTrendWindow = 3

// EntriesForYear returns the entries of one calendar year in chronological order.
func EntriesForYear(s core.Snapshot, year int) []core.LedgerEntry {
	out := make([]core.LedgerEntry, 0, 12)
	for _, e := range s.Entries {
		if e.Year == year {
			out = append(out, e)
		}
	}
	return out
}

// EntriesBetween returns the entries whose period lies in [from, to].
func EntriesBetween(s core.Snapshot, from, to core.Period) []core.LedgerEntry {
	var out []core.LedgerEntry
	for _, e := range s.Entries {
		k := e.Key()
		if k.Before(from) || to.Before(k) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// YearlyTotals aggregates the ledger per calendar year, oldest year first.
func YearlyTotals(s core.Snapshot) []core.YearTotal {
	var out []core.YearTotal
	for _, e := range s.Entries {
		if len(out) == 0 || out[len(out)-1].Year != e.Year {
			out = append(out, core.YearTotal{
				Year:    e.Year,
				Revenue: decimal.Zero,
				Expense: decimal.Zero,
				Profit:  decimal.Zero,
			})
		}
		t := &out[len(out)-1]
		t.Revenue = t.Revenue.Add(e.Revenue)
		t.Expense = t.Expense.Add(e.Expense)
		t.Profit = t.Profit.Add(e.Profit)
		t.EndBalance = e.Balance
		t.Months++
	}
	return out
}

// Summarize builds the dashboard summary. Year-to-date figures cover year; a
// zero year means the year of the latest entry.
func Summarize(s core.Snapshot, year int) core.Summary {
	sum := core.Summary{
		KPI:                  ComputeKPIs(s),
		AverageMonthlyProfit: decimal.Zero,
		YTDRevenue:           decimal.Zero,
		YTDExpense:           decimal.Zero,
		ProfitMargin:         decimal.Zero,
		CategoryTotal:        decimal.Zero,
		Year:                 year,
	}
	for _, c := range s.Categories {
		sum.CategoryTotal = sum.CategoryTotal.Add(c.Amount)
	}

	latest, ok := s.Latest()
	if !ok {
		return sum
	}
	if sum.Year == 0 {
		sum.Year = latest.Year
	}

	for _, e := range EntriesForYear(s, sum.Year) {
		sum.YTDRevenue = sum.YTDRevenue.Add(e.Revenue)
		sum.YTDExpense = sum.YTDExpense.Add(e.Expense)
	}

	last := tail(s.Entries, 12)
	total := decimal.Zero
	for _, e := range last {
		total = total.Add(e.Profit)
	}
	sum.AverageMonthlyProfit = core.RoundUnits(total.Div(decimal.NewFromInt(int64(len(last)))))
	sum.ProfitMargin = core.Percent(latest.Profit, latest.Revenue)
	return sum
}

// Trends averages revenue, expense and profit over the last window entries.
// A non-positive window falls back to DefaultTrendWindow.
func Trends(s core.Snapshot, window int) core.Trend {
	if window <= 0 {
		window = DefaultTrendWindow
	}
	t := core.Trend{
		AvgRevenue: decimal.Zero,
		AvgExpense: decimal.Zero,
		AvgProfit:  decimal.Zero,
	}
	last := tail(s.Entries, window)
	if len(last) == 0 {
		return t
	}
	for _, e := range last {
		t.AvgRevenue = t.AvgRevenue.Add(e.Revenue)
		t.AvgExpense = t.AvgExpense.Add(e.Expense)
	}
	n := decimal.NewFromInt(int64(len(last)))
	t.Months = len(last)
	t.AvgRevenue = t.AvgRevenue.Div(n)
	t.AvgExpense = t.AvgExpense.Div(n)
	t.AvgProfit = t.AvgRevenue.Sub(t.AvgExpense)
	return t
}

func tail(entries []core.LedgerEntry, n int) []core.LedgerEntry {
	if len(entries) <= n {
		return entries
	}
	return entries[len(entries)-n:]
}
