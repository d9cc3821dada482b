// Package storagetest holds the behaviour every SnapshotStore must share.
package storagetest

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"maliyye/internal/core"
	"maliyye/internal/ledger"
	"maliyye/internal/storage"
)

// Sample returns a small normalized snapshot.
func Sample(t *testing.T) core.Snapshot {
	t.Helper()
	s, err := ledger.UpsertMonth(core.Snapshot{}, 2024, "Yan", decimal.NewFromInt(1000), decimal.NewFromInt(400))
	if err != nil {
		t.Fatal(err)
	}
	s, err = ledger.UpsertMonth(s, 2024, "Fev", decimal.NewFromInt(1200), decimal.NewFromInt(500))
	if err != nil {
		t.Fatal(err)
	}
	s = ledger.ReplaceExpenseCategories(s, []core.ExpenseCategory{{Name: "İcarə", Amount: decimal.NewFromInt(9200), Color: "#82ca9d"}})
	return ledger.AppendUpcomingPayment(s, core.UpcomingPayment{
		Title:    "Vergi ödənişi",
		Amount:   decimal.NewFromInt(7200),
		DueDate:  core.NewDate(2025, 12, 15),
		Kind:     core.KindTax,
		Category: "Vergi",
	})
}

// Run exercises load, save and reset against the store built by newStore.
func Run(t *testing.T, newStore func(t *testing.T) storage.SnapshotStore) {
	ctx := context.Background()

	t.Run("absent", func(t *testing.T) {
		st := newStore(t)
		defer st.Close()
		_, ok, err := st.Load(ctx)
		if err != nil || ok {
			t.Fatalf("Load on empty store = ok=%v err=%v, want absent", ok, err)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		st := newStore(t)
		defer st.Close()
		want := Sample(t)
		if err := st.Save(ctx, want); err != nil {
			t.Fatalf("Save: %v", err)
		}
		got, ok, err := st.Load(ctx)
		if err != nil || !ok {
			t.Fatalf("Load = ok=%v err=%v", ok, err)
		}
		if len(got.Entries) != 2 || !got.Entries[1].Balance.Equal(decimal.NewFromInt(1300)) {
			t.Errorf("entries = %+v", got.Entries)
		}
		if len(got.Categories) != 1 || got.Categories[0].Name != "İcarə" {
			t.Errorf("categories = %+v", got.Categories)
		}
		if len(got.Payments) != 1 || got.Payments[0].Kind != core.KindTax || got.Payments[0].DueDate.String() != "2025-12-15" {
			t.Errorf("payments = %+v", got.Payments)
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		st := newStore(t)
		defer st.Close()
		first := Sample(t)
		if err := st.Save(ctx, first); err != nil {
			t.Fatalf("Save: %v", err)
		}
		second, err := ledger.RemoveUpcomingPayment(first, 0)
		if err != nil {
			t.Fatal(err)
		}
		if err := st.Save(ctx, second); err != nil {
			t.Fatalf("Save: %v", err)
		}
		got, _, err := st.Load(ctx)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if len(got.Payments) != 0 {
			t.Errorf("expected overwritten snapshot, got %d payments", len(got.Payments))
		}
	})

	t.Run("reset", func(t *testing.T) {
		st := newStore(t)
		defer st.Close()
		if err := st.Save(ctx, Sample(t)); err != nil {
			t.Fatalf("Save: %v", err)
		}
		if err := st.Reset(ctx); err != nil {
			t.Fatalf("Reset: %v", err)
		}
		if _, ok, err := st.Load(ctx); ok || err != nil {
			t.Fatalf("Load after reset = ok=%v err=%v", ok, err)
		}
		if err := st.Reset(ctx); err != nil {
			t.Fatalf("second Reset: %v", err)
		}
	})
}
