package models

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// MinorUnits converts a monetary amount to integer minor units (paise).
// ok is false when the amount carries more than 2 decimal places; such
// amounts cannot be stored without silent rounding and are rejected.
func MinorUnits(d decimal.Decimal) (int64, bool) {
	cents := d.Mul(hundred)
	if !cents.Equal(cents.Floor()) {
		return 0, false
	}
	return cents.IntPart(), true
}

// FromMinorUnits converts integer minor units back to a decimal amount.
func FromMinorUnits(n int64) decimal.Decimal {
	return decimal.New(n, -2)
}
