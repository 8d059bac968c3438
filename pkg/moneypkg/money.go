// Package moneypkg converts decimal amounts into integer minor currency units.
package moneypkg

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// ErrOutOfRange indicates an amount whose minor units do not fit in int64.
var ErrOutOfRange = errors.New("amount out of range")

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(math.MinInt64)
)

// ToMinorUnits converts amount into cents rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) (int64, error) {
	cents := amount.Mul(hundred).Round(0)
	if cents.GreaterThan(maxCents) || cents.LessThan(minCents) {
		return 0, ErrOutOfRange
	}

	return cents.IntPart(), nil
}

// FromMinorUnits converts cents back into a decimal amount.
func FromMinorUnits(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
