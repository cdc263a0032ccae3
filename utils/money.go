package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatPrice formats a decimal amount as a string like "$1,234.50".
// Always two decimals; comma as thousands separator.
func FormatPrice(amount decimal.Decimal) string {
	neg := amount.IsNegative()
	if neg {
		amount = amount.Neg()
	}

	s := amount.StringFixed(2)
	dot := strings.IndexByte(s, '.')
	whole, frac := s[:dot], s[dot:]

	var b strings.Builder
	// Pre-allocate: digits + separators + sign + $
	b.Grow(len(s) + len(whole)/3 + 2)
	if neg {
		b.WriteString("-$")
	} else {
		b.WriteString("$")
	}

	// Insert separators from the left.
	rem := len(whole) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(whole[:rem])
	for i := rem; i < len(whole); i += 3 {
		b.WriteByte(',')
		b.WriteString(whole[i : i+3])
	}
	b.WriteString(frac)

	return b.String()
}

// RoundPrice rounds an amount to cents for display
func RoundPrice(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}
