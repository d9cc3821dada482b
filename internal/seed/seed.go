// Package seed generates the synthetic multi-year ledger used on first run.
package seed

import (
	"math"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"maliyye/internal/core"
	"maliyye/internal/ledger"
)

const (
	seasonalAmplitude = 0.15
	revenueJitter     = 0.30 // revenue multiplier in [0.85, 1.15)
	expenseJitter     = 0.10 // expense multiplier in [0.95, 1.05)
	expenseGrowthDamp = 0.8
)

// YearPlan parameterises one generated year. Months limits the year to its
// first n months; zero means all twelve.
type YearPlan struct {
	Year         int
	BaseRevenue  float64
	BaseExpense  float64
	AnnualGrowth float64
	Months       int
}

// Generate produces the ledger described by plans. The balance carries over from
// one year into the next.
func Generate(rng *rand.Rand, plans []YearPlan) []core.LedgerEntry {
	var entries []core.LedgerEntry
	for _, p := range plans {
		n := p.Months
		if n <= 0 || n > 12 {
			n = 12
		}
		for i := 0; i < n; i++ {
			seasonal := 1 + math.Sin(float64(i)*math.Pi/6)*seasonalAmplitude
			growth := p.AnnualGrowth * float64(i) / 12

			revenue := p.BaseRevenue * seasonal * (1 - revenueJitter/2 + rng.Float64()*revenueJitter) * (1 + growth)
			expense := p.BaseExpense * (1 - expenseJitter/2 + rng.Float64()*expenseJitter) * (1 + growth*expenseGrowthDamp)

			entries = append(entries, core.LedgerEntry{
				Year:    p.Year,
				Month:   core.Month(i),
				Revenue: decimal.NewFromInt(int64(math.Round(revenue))),
				Expense: decimal.NewFromInt(int64(math.Round(expense))),
			})
		}
	}
	return ledger.Recompute(entries)
}

// SyntheticLedger generates yearsBack full years ending with endYear, all from
// the same base figures.
func SyntheticLedger(rng *rand.Rand, yearsBack int, baseRevenue, baseExpense, annualGrowth float64, endYear int) core.Snapshot {
	plans := make([]YearPlan, 0, yearsBack)
	for y := endYear - yearsBack + 1; y <= endYear; y++ {
		plans = append(plans, YearPlan{
			Year:         y,
			BaseRevenue:  baseRevenue,
			BaseExpense:  baseExpense,
			AnnualGrowth: annualGrowth,
		})
	}
	return core.Snapshot{Entries: Generate(rng, plans)}
}

// demoPlans are the base figures of the four demo years, oldest first.
var demoPlans = []YearPlan{
	{BaseRevenue: 35000, BaseExpense: 28000, AnnualGrowth: 0.08},
	{BaseRevenue: 45000, BaseExpense: 32000, AnnualGrowth: 0.12},
	{BaseRevenue: 52000, BaseExpense: 38000, AnnualGrowth: 0.10},
	{BaseRevenue: 58000, BaseExpense: 42000, AnnualGrowth: 0.08},
}

// Default builds the demo snapshot. The ledger covers the three years before
// now plus the months of the current year that have already ended; upcoming
// payments fall in the current month.
func Default(rng *rand.Rand, now time.Time) core.Snapshot {
	first := now.Year() - len(demoPlans) + 1
	plans := make([]YearPlan, len(demoPlans))
	for i, p := range demoPlans {
		p.Year = first + i
		plans[i] = p
	}
	last := &plans[len(plans)-1]
	last.Months = int(now.Month()) - 1
	if last.Months == 0 {
		plans = plans[:len(plans)-1]
	}

	return core.Snapshot{
		Entries:    Generate(rng, plans),
		Categories: DefaultCategories(),
		Payments:   DefaultPayments(now.Year(), int(now.Month())),
	}
}

// DefaultCategories returns the demo expense breakdown.
func DefaultCategories() []core.ExpenseCategory {
	cats := []struct {
		name   string
		amount int64
		color  string
	}{
		{"Əməkhaqqı", 18500, "#8884d8"},
		{"İcarə", 9200, "#82ca9d"},
		{"Kommunal", 3400, "#ffc658"},
		{"Marketing", 8300, "#ff7300"},
		{"Təchizat və Materiallar", 4500, "#00C49F"},
		{"Texnologiya və Proqram", 3200, "#FF6B9D"},
		{"Sığorta", 2800, "#C77DFF"},
		{"Nəqliyyat", 2100, "#38BDF8"},
		{"Peşəkar Xidmətlər", 3500, "#FB923C"},
		{"Bank Komissiyaları", 850, "#A78BFA"},
		{"Təmir və Saxlama", 1900, "#4ADE80"},
		{"Digər", 3200, "#F472B6"},
	}
	out := make([]core.ExpenseCategory, 0, len(cats))
	for _, c := range cats {
		out = append(out, core.ExpenseCategory{Name: c.name, Amount: decimal.NewFromInt(c.amount), Color: c.color})
	}
	return out
}

// DefaultPayments returns the demo payments due in the given month.
func DefaultPayments(year, month int) []core.UpcomingPayment {
	ps := []struct {
		title    string
		amount   int64
		day      int
		kind     core.PaymentKind
		category string
	}{
		{"Əməkhaqqı", 18500, 1, core.KindExpense, "Əmək haqqı"},
		{"Vergi ödənişi", 7200, 15, core.KindTax, "Vergi"},
		{"İcarə", 9200, 1, core.KindExpense, "İcarə"},
		{"Sığorta ödənişi", 2800, 10, core.KindInsurance, "Sığorta"},
		{"Proqram abunəliyi", 3200, 5, core.KindSubscription, "Texnologiya"},
		{"Marketing kampaniyası", 5000, 20, core.KindMarketing, "Marketing"},
		{"Təchizat sifarişi", 4500, 18, core.KindExpense, "Təchizat"},
		{"Kommunal", 3400, 1, core.KindOther, "Kommunal"},
	}
	out := make([]core.UpcomingPayment, 0, len(ps))
	for _, p := range ps {
		out = append(out, core.UpcomingPayment{
			Title:    p.title,
			Amount:   decimal.NewFromInt(p.amount),
			DueDate:  core.NewDate(year, month, p.day),
			Kind:     p.kind,
			Category: p.category,
		})
	}
	return out
}
