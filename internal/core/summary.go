package core

import "github.com/shopspring/decimal"

// YearTotal aggregates the entries of one calendar year.
type YearTotal struct {
	Year       int             `json:"year"`
	Revenue    decimal.Decimal `json:"totalGelir"`
	Expense    decimal.Decimal `json:"totalXerc"`
	Profit     decimal.Decimal `json:"totalProfit"`
	EndBalance decimal.Decimal `json:"endBalance"`
	Months     int             `json:"monthsCount"`
}

// Summary extends KPI with the longer-range dashboard figures.
type Summary struct {
	KPI
	AverageMonthlyProfit decimal.Decimal `json:"averageMonthlyProfit"`
	YTDRevenue           decimal.Decimal `json:"ytdRevenue"`
	YTDExpense           decimal.Decimal `json:"ytdExpenses"`
	ProfitMargin         decimal.Decimal `json:"profitMargin"`
	CategoryTotal        decimal.Decimal `json:"totalExpenseBreakdown"`
	Year                 int             `json:"year"`
}

// Trend holds averages over the most recent months of the ledger.
type Trend struct {
	Months     int             `json:"months"`
	AvgRevenue decimal.Decimal `json:"avgRevenue"`
	AvgExpense decimal.Decimal `json:"avgExpenses"`
	AvgProfit  decimal.Decimal `json:"avgProfit"`
}
