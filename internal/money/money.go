package money

import "github.com/shopspring/decimal"

// Two is the rounding precision used for commission amounts.
const Two int32 = 2

var half = decimal.New(5, -1)

// Round rounds d half-up to the given number of decimal places. Ties round
// toward positive infinity, matching the rounding the invoicing pipeline
// applies before posting.
func Round(d decimal.Decimal, places int32) decimal.Decimal {
	return d.Shift(places).Add(half).Floor().Shift(-places)
}

// Round2 rounds to two decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return Round(d, Two)
}

// Coalesce returns v when present, otherwise fallback.
func Coalesce(v decimal.NullDecimal, fallback decimal.Decimal) decimal.Decimal {
	if v.Valid {
		return v.Decimal
	}
	return fallback
}

// Percentage computes base * pct / 100 without intermediate rounding.
func Percentage(base, pct decimal.Decimal) decimal.Decimal {
	return base.Mul(pct).Div(decimal.NewFromInt(100))
}
