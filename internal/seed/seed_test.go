package seed

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"maliyye/internal/core"
)

func checkInvariant(t *testing.T, entries []core.LedgerEntry) {
	t.Helper()
	running := decimal.Zero
	for i, e := range entries {
		running = running.Add(e.Revenue.Sub(e.Expense))
		if !e.Balance.Equal(running) {
			t.Fatalf("entry %d (%s): balance %s, want %s", i, e.Date(), e.Balance, running)
		}
		if i > 0 && !entries[i-1].Before(e) {
			t.Fatalf("entry %d out of order", i)
		}
	}
}

func TestSyntheticLedger(t *testing.T) {
	s := SyntheticLedger(rand.New(rand.NewSource(1)), 3, 35000, 28000, 0.08, 2024)
	if len(s.Entries) != 36 {
		t.Fatalf("expected 36 entries, got %d", len(s.Entries))
	}
	if s.Entries[0].Date() != "2022-01" || s.Entries[35].Date() != "2024-12" {
		t.Fatalf("unexpected range %s..%s", s.Entries[0].Date(), s.Entries[35].Date())
	}
	checkInvariant(t, s.Entries)

	for _, e := range s.Entries {
		// seasonal x jitter x growth keeps revenue within these bounds
		if e.Revenue.LessThan(decimal.NewFromInt(25000)) || e.Revenue.GreaterThan(decimal.NewFromInt(50000)) {
			t.Errorf("%s revenue %s out of bounds", e.Date(), e.Revenue)
		}
		if e.Expense.LessThan(decimal.NewFromInt(26600)) || e.Expense.GreaterThan(decimal.NewFromInt(31200)) {
			t.Errorf("%s expense %s out of bounds", e.Date(), e.Expense)
		}
		if !e.Revenue.Equal(e.Revenue.Round(0)) {
			t.Errorf("%s revenue %s not rounded to units", e.Date(), e.Revenue)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	plans := []YearPlan{{Year: 2024, BaseRevenue: 1000, BaseExpense: 800, AnnualGrowth: 0.1}}
	a := Generate(rand.New(rand.NewSource(7)), plans)
	b := Generate(rand.New(rand.NewSource(7)), plans)
	for i := range a {
		if !a[i].Revenue.Equal(b[i].Revenue) || !a[i].Balance.Equal(b[i].Balance) {
			t.Fatalf("entry %d differs between identical seeds", i)
		}
	}
}

func TestDefault(t *testing.T) {
	now := time.Date(2025, time.December, 3, 10, 0, 0, 0, time.UTC)
	s := Default(rand.New(rand.NewSource(3)), now)

	if want := 12*3 + 11; len(s.Entries) != want {
		t.Fatalf("expected %d entries, got %d", want, len(s.Entries))
	}
	if s.Entries[0].Date() != "2022-01" {
		t.Errorf("first entry %s, want 2022-01", s.Entries[0].Date())
	}
	if latest, _ := s.Latest(); latest.Date() != "2025-11" {
		t.Errorf("latest entry %s, want 2025-11", latest.Date())
	}
	checkInvariant(t, s.Entries)

	if len(s.Categories) != 12 || s.Categories[0].Name != "Əməkhaqqı" {
		t.Errorf("unexpected categories %+v", s.Categories)
	}
	if len(s.Payments) != 8 {
		t.Fatalf("expected 8 payments, got %d", len(s.Payments))
	}
	if got := s.Payments[1].DueDate.String(); got != "2025-12-15" || s.Payments[1].Kind != core.KindTax {
		t.Errorf("unexpected tax payment %+v", s.Payments[1])
	}
}

func TestDefaultInJanuary(t *testing.T) {
	now := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.UTC)
	s := Default(rand.New(rand.NewSource(3)), now)
	if len(s.Entries) != 36 {
		t.Fatalf("expected 36 entries, got %d", len(s.Entries))
	}
	if latest, _ := s.Latest(); latest.Date() != "2025-12" {
		t.Errorf("latest entry %s, want 2025-12", latest.Date())
	}
}
