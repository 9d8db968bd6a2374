package validate

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// MinQuantity is the smallest amount accepted by the upload flow.
	MinQuantity = decimal.RequireFromString("0.01")
	// MaxQuantity is the largest value NUMERIC(10,2) can hold.
	MaxQuantity = decimal.RequireFromString("99999999.99")
)

const quantityScale = 2

// Quantity parses a strictly positive amount (at least MinQuantity).
// Both "1,5" and "1.5" are accepted.
func Quantity(raw string) (decimal.Decimal, error) {
	d, err := parseQuantity(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if d.LessThan(MinQuantity) {
		return decimal.Zero, fail(InvalidQuantity, ReasonTooSmall)
	}
	return d, nil
}

// QuantityAllowZero is like Quantity but accepts zero, for corrections of
// stock that has been used up.
func QuantityAllowZero(raw string) (decimal.Decimal, error) {
	d, err := parseQuantity(raw)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsZero() && d.LessThan(MinQuantity) {
		return decimal.Zero, fail(InvalidQuantity, ReasonTooSmall)
	}
	return d, nil
}

func parseQuantity(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero, fail(InvalidQuantity, ReasonMalformed)
	}
	s = strings.ReplaceAll(s, ",", ".")
	if !isPlainDecimal(s) {
		return decimal.Zero, fail(InvalidQuantity, ReasonMalformed)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fail(InvalidQuantity, ReasonMalformed)
	}
	if d.IsNegative() {
		return decimal.Zero, fail(InvalidQuantity, ReasonNegative)
	}
	if d.Exponent() < -quantityScale && !d.Equal(d.Round(quantityScale)) {
		if d.LessThan(MinQuantity) {
			return decimal.Zero, fail(InvalidQuantity, ReasonTooSmall)
		}
		return decimal.Zero, fail(InvalidQuantity, ReasonMalformed)
	}
	d = d.Round(quantityScale)
	if d.GreaterThan(MaxQuantity) {
		return decimal.Zero, fail(InvalidQuantity, ReasonTooLarge)
	}
	return d, nil
}

// isPlainDecimal accepts an optional sign, digits and at most one dot.
// Exponent notation and thousands separators are rejected.
func isPlainDecimal(s string) bool {
	if s[0] == '-' || s[0] == '+' {
		s = s[1:]
	}
	if s == "" || s == "." {
		return false
	}
	dots := 0
	for _, r := range s {
		switch {
		case r == '.':
			dots++
			if dots > 1 {
				return false
			}
		case r < '0' || r > '9':
			return false
		}
	}
	return true
}
