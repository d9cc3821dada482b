package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"maliyye/internal/core"
)

// ProjectionMonths is the horizon of a simulated projection.
const ProjectionMonths = 12

// projectedBalanceHorizon is the number of months folded into ProjectedBalance.
const projectedBalanceHorizon = 6

// MaxLoanTermMonths bounds the loan term a scenario may ask for.
const MaxLoanTermMonths = 600

var ErrInvalidScenario = errors.New("invalid scenario")

var (
	twelve = decimal.NewFromInt(12)
	one    = decimal.NewFromInt(1)
)

// Scenario describes a what-if change applied to the recent trend.
type Scenario struct {
	RevenueChangePct decimal.Decimal `json:"revenueChange"`
	ExpenseChangePct decimal.Decimal `json:"expenseChange"`
	OneTimeIncome    decimal.Decimal `json:"oneTimeIncome"`
	OneTimeExpense   decimal.Decimal `json:"oneTimeExpense"`
	LoanAmount       decimal.Decimal `json:"loanAmount"`
	LoanTermMonths   int             `json:"loanTerm"`
	InterestRatePct  decimal.Decimal `json:"interestRate"`
}

// DefaultScenario is the neutral scenario: no change, a 12 month term at 5%.
func DefaultScenario() Scenario {
	return Scenario{
		RevenueChangePct: decimal.Zero,
		ExpenseChangePct: decimal.Zero,
		OneTimeIncome:    decimal.Zero,
		OneTimeExpense:   decimal.Zero,
		LoanAmount:       decimal.Zero,
		LoanTermMonths:   12,
		InterestRatePct:  decimal.NewFromInt(5),
	}
}

func (sc Scenario) Validate() error {
	var errs []error
	if sc.LoanAmount.IsNegative() {
		errs = append(errs, errors.New("loan amount must not be negative"))
	}
	if sc.LoanAmount.IsPositive() && sc.LoanTermMonths <= 0 {
		errs = append(errs, errors.New("loan term must be positive when a loan is given"))
	}
	if sc.LoanTermMonths > MaxLoanTermMonths {
		errs = append(errs, fmt.Errorf("loan term must not exceed %d months", MaxLoanTermMonths))
	}
	if sc.InterestRatePct.IsNegative() {
		errs = append(errs, errors.New("interest rate must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidScenario, errors.Join(errs...))
	}
	return nil
}

type ProjectionPoint struct {
	Month         int             `json:"month"`
	Baseline      decimal.Decimal `json:"originalProjection"`
	Scenario      decimal.Decimal `json:"scenarioProjection"`
	MonthlyProfit decimal.Decimal `json:"monthlyProfit"`
}

// Impact is the yearly effect of a scenario compared to the trend.
type Impact struct {
	Revenue decimal.Decimal `json:"revenueImpact"`
	Expense decimal.Decimal `json:"expenseImpact"`
	Loan    decimal.Decimal `json:"loanImpact"`
	Profit  decimal.Decimal `json:"profitImpact"`
}

type Projection struct {
	Trend               core.Trend        `json:"trend"`
	CurrentBalance      decimal.Decimal   `json:"currentBalance"`
	ProjectedBalance    decimal.Decimal   `json:"projectedBalance"`
	NewMonthlyRevenue   decimal.Decimal   `json:"newMonthlyRevenue"`
	NewMonthlyExpense   decimal.Decimal   `json:"newMonthlyExpenses"`
	NewMonthlyProfit    decimal.Decimal   `json:"newMonthlyProfit"`
	MonthlyLoanPayment  decimal.Decimal   `json:"monthlyLoanPayment"`
	MonthsUntilCritical *int              `json:"monthsUntilCritical"`
	Points              []ProjectionPoint `json:"projections"`
	Impact              Impact            `json:"impactAnalysis"`
}

// Simulate applies sc to the three month trend of s and projects the balance
// over the next twelve months.
func Simulate(s core.Snapshot, sc Scenario) (Projection, error) {
	if err := sc.Validate(); err != nil {
		return Projection{}, err
	}

	trend := Trends(s, DefaultTrendWindow)
	current := ComputeKPIs(s).Cashflow

	revenue := trend.AvgRevenue.Mul(one.Add(sc.RevenueChangePct.Div(hundred)))
	expense := trend.AvgExpense.Mul(one.Add(sc.ExpenseChangePct.Div(hundred)))
	loan := LoanPayment(sc.LoanAmount, sc.InterestRatePct, sc.LoanTermMonths)
	profit := revenue.Sub(expense).Sub(loan)

	adjusted := current.Add(sc.OneTimeIncome).Sub(sc.OneTimeExpense).Add(sc.LoanAmount)

	p := Projection{
		Trend:              trend,
		CurrentBalance:     current,
		ProjectedBalance:   core.RoundUnits(adjusted.Add(profit.Mul(decimal.NewFromInt(projectedBalanceHorizon)))),
		NewMonthlyRevenue:  core.RoundUnits(revenue),
		NewMonthlyExpense:  core.RoundUnits(expense),
		NewMonthlyProfit:   core.RoundUnits(profit),
		MonthlyLoanPayment: core.RoundUnits(loan),
		Points:             make([]ProjectionPoint, 0, ProjectionMonths),
		Impact: Impact{
			Revenue: core.RoundUnits(revenue.Sub(trend.AvgRevenue).Mul(twelve)),
			Expense: core.RoundUnits(expense.Sub(trend.AvgExpense).Mul(twelve)),
			Loan:    core.RoundUnits(loan.Mul(twelve)),
			Profit:  core.RoundUnits(profit.Sub(trend.AvgProfit).Mul(twelve)),
		},
	}

	if profit.IsNegative() {
		months := 0
		if adjusted.IsPositive() {
			months = int(adjusted.Div(profit.Abs()).Floor().IntPart())
		}
		p.MonthsUntilCritical = &months
	}

	running := adjusted
	for i := 1; i <= ProjectionMonths; i++ {
		running = running.Add(profit)
		p.Points = append(p.Points, ProjectionPoint{
			Month:         i,
			Baseline:      current.Add(trend.AvgProfit.Mul(decimal.NewFromInt(int64(i)))).Round(2),
			Scenario:      running.Round(2),
			MonthlyProfit: profit.Round(2),
		})
	}
	return p, nil
}

// LoanPayment returns the fixed monthly annuity payment for principal borrowed at
// ratePct a year over term months. A zero rate divides the principal evenly.
// Terms longer than MaxLoanTermMonths yield zero.
func LoanPayment(principal, ratePct decimal.Decimal, term int) decimal.Decimal {
	if !principal.IsPositive() || term <= 0 || term > MaxLoanTermMonths {
		return decimal.Zero
	}
	r := ratePct.Div(hundred).Div(twelve)
	if !r.IsPositive() {
		return principal.Div(decimal.NewFromInt(int64(term)))
	}
	factor := one
	base := one.Add(r)
	for i := 0; i < term; i++ {
		factor = factor.Mul(base).Round(18)
	}
	return principal.Mul(r).Mul(factor).Div(factor.Sub(one))
}
