package sheets

import (
	"testing"

	"github.com/shopspring/decimal"

	"maliyye/internal/core"
)

func TestRender(t *testing.T) {
	s := core.Snapshot{
		Entries: []core.LedgerEntry{{
			Year: 2024, Month: core.Fev,
			Revenue: decimal.NewFromInt(1200), Expense: decimal.NewFromInt(500),
			Profit: decimal.NewFromInt(700), Balance: decimal.NewFromInt(1300),
		}},
		Payments: []core.UpcomingPayment{{
			Title: "Vergi ödənişi", Amount: decimal.RequireFromString("7200.50"),
			DueDate: core.NewDate(2025, 12, 15), Kind: core.KindTax, Category: "Vergi",
		}},
	}

	tables := Render(s, DefaultLayout())
	if len(tables) != 3 {
		t.Fatalf("expected 3 tables, got %d", len(tables))
	}

	ledger := tables[0]
	if ledger.Sheet != "Ledger" || len(ledger.Rows) != 2 {
		t.Fatalf("unexpected ledger table %+v", ledger)
	}
	row := ledger.Rows[1]
	if row[0] != "2024-02" || row[1] != "Fev" || row[5] != float64(1300) {
		t.Errorf("unexpected ledger row %v", row)
	}

	payments := tables[1]
	if len(payments.Rows) != 2 || payments.Rows[1][1] != 7200.5 || payments.Rows[1][2] != "2025-12-15" {
		t.Errorf("unexpected payments table %+v", payments)
	}

	if cats := tables[2]; cats.Sheet != "Categories" || len(cats.Rows) != 1 {
		t.Errorf("categories table should only hold its header, got %+v", cats)
	}
}
