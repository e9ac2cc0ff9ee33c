// Package core holds the domain model for per-vehicle finances.
//
// Monetary values are fixed-point decimals throughout; nothing on the money
// path goes through float64. Stored totals carry two decimal places,
// fuel-per-distance quotients carry four.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a monetary amount from its string form. The empty
// string is a zero amount; negative amounts are rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// Round2 rounds to two decimal places, half away from zero. Used for every
// stored monetary total.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Round4 rounds to four decimal places. Used for the gas-per-km quotient.
func Round4(d decimal.Decimal) decimal.Decimal {
	return d.Round(4)
}
