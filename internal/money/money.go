// Package money holds the currency helpers shared by the cart, checkout and receipt code.
// All amounts are int64 minor units (cents).
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

var hundred = decimal.NewFromInt(100)

// Format renders cents as "$" followed by the amount with exactly two decimals.
// Negative amounts keep their sign after the dollar sign ("$-4.00").
func Format(cents int64) string {
	return "$" + decimal.New(cents, -2).StringFixed(2)
}

// ParseAmount converts a keypad string such as "20", "20." or "12.345" into cents,
// rounding half away from zero on the cent boundary. Only digits and one decimal
// point are accepted, so the result is never negative.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "." {
		return 0, ErrInvalidAmount
	}
	if strings.Trim(s, "0123456789.") != "" || strings.Count(s, ".") > 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	s = strings.TrimSuffix(s, ".")
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d.Mul(hundred).Round(0).IntPart(), nil
}

// SplitEvenly divides total into n shares that sum to total. Every share gets
// total/n and the first total%n shares get one extra cent. n < 1 is treated as 1.
func SplitEvenly(total int64, n int) []int64 {
	if n < 1 {
		n = 1
	}
	base := total / int64(n)
	rem := total % int64(n)

	out := make([]int64, n)
	for i := range out {
		out[i] = base
		if int64(i) < rem {
			out[i]++
		}
	}
	return out
}
