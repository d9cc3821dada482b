// Package core holds the ledger domain types together with money helpers.
//
// Amounts are shopspring decimals so running balances never accumulate
// floating-point drift.
package core

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// RoundUnits rounds to whole currency units, half away from zero.
func RoundUnits(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

// Percent returns part/whole*100 rounded to two places, or zero when whole is
// not positive.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100)).Round(2)
}
