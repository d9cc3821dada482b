package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"maliyye/internal/core"
	"maliyye/internal/sheets"
)

func TestExporterKeepsLatestTables(t *testing.T) {
	ex := New(sheets.DefaultLayout())
	ctx := context.Background()

	first := core.Snapshot{Entries: []core.LedgerEntry{{Year: 2024, Month: core.Yan, Revenue: decimal.NewFromInt(1)}}}
	if err := ex.Export(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := ex.Export(ctx, core.Snapshot{}); err != nil {
		t.Fatal(err)
	}

	if ex.Exports() != 2 {
		t.Errorf("Exports() = %d, want 2", ex.Exports())
	}
	tables := ex.Tables()
	if len(tables) != 3 || len(tables[0].Rows) != 1 {
		t.Errorf("expected header-only ledger after second export, got %+v", tables)
	}
}
