package sheets

import "maliyye/internal/core"

// Layout names the sheets a snapshot is written to.
type Layout struct {
	Ledger     string
	Payments   string
	Categories string
}

func DefaultLayout() Layout {
	return Layout{Ledger: "Ledger", Payments: "Payments", Categories: "Categories"}
}

// Table is one sheet worth of rows, header first.
type Table struct {
	Sheet string
	Rows  [][]any
}

// Render turns s into one table per sheet of the layout. Amounts are written as
// numbers so spreadsheet formulas can use them.
func Render(s core.Snapshot, l Layout) []Table {
	ledger := Table{Sheet: l.Ledger, Rows: [][]any{{"Period", "Month", "Revenue", "Expense", "Profit", "Balance"}}}
	for _, e := range s.Entries {
		ledger.Rows = append(ledger.Rows, []any{
			e.Date(),
			e.Month.String(),
			e.Revenue.InexactFloat64(),
			e.Expense.InexactFloat64(),
			e.Profit.InexactFloat64(),
			e.Balance.InexactFloat64(),
		})
	}

	payments := Table{Sheet: l.Payments, Rows: [][]any{{"Title", "Amount", "Due date", "Type", "Category"}}}
	for _, p := range s.Payments {
		payments.Rows = append(payments.Rows, []any{
			p.Title,
			p.Amount.InexactFloat64(),
			p.DueDate.String(),
			string(p.Kind),
			p.Category,
		})
	}

	cats := Table{Sheet: l.Categories, Rows: [][]any{{"Name", "Amount", "Color"}}}
	for _, c := range s.Categories {
		cats.Rows = append(cats.Rows, []any{c.Name, c.Amount.InexactFloat64(), c.Color})
	}

	return []Table{ledger, payments, cats}
}
