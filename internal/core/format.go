// Package core provides the report domain types and the number formatting
// used by every report column.
//
// Amounts are formatted the Brazilian way: "." groups thousands and ","
// separates decimals, always with two decimal digits.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FormatCurrency formats x with two decimals, "." as thousands separator and
// "," as decimal separator. No currency symbol is added.
//
// Examples:
//
//	FormatCurrency(1234.5)  -> "1.234,50"
//	FormatCurrency(-0.5)    -> "-0,50"
//	FormatCurrency(1000000) -> "1.000.000,00"
func FormatCurrency(x decimal.Decimal) string {
	raw := x.StringFixed(2)

	negative := strings.HasPrefix(raw, "-")
	raw = strings.TrimPrefix(raw, "-")

	parts := strings.SplitN(raw, ".", 2)
	intPart := groupThousands(parts[0])
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	result := intPart + "," + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// FormatPercentage scales the fraction x by 100 and formats it with two
// decimals and a trailing "%": 0.5 -> "50,00%".
func FormatPercentage(x decimal.Decimal) string {
	return strings.Replace(x.Mul(hundred).StringFixed(2), ".", ",", 1) + "%"
}

// ParseDecimal converts a plain decimal string ("1234.5") into a Decimal.
func ParseDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrNotANumber
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNotANumber, s)
	}
	return d, nil
}

// Ratio returns num/den, or zero when den is zero.
func Ratio(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.Div(den)
}

// groupThousands inserts "." every three digits from the right.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
