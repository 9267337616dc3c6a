package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Format renders an amount with its ISO currency code, two fraction digits and
// comma thousands separators, e.g. "USD 1,250.00". IDR keeps the dotted,
// fraction-less local convention.
func Format(amount decimal.Decimal, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "IDR" {
		return FormatIDR(amount)
	}

	negative := amount.IsNegative()
	if negative {
		amount = amount.Neg()
	}

	fixed := amount.StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")
	formatted := addThousandsSeparator(intPart, ",") + "." + fracPart

	result := formatted
	if code != "" {
		result = code + " " + formatted
	}
	if negative {
		result = "-" + result
	}

	return result
}

func FormatIDR(amount decimal.Decimal) string {
	rounded := amount.Round(0)

	negative := rounded.IsNegative()
	if negative {
		rounded = rounded.Neg()
	}

	formatted := addThousandsSeparator(rounded.StringFixed(0), ".")

	result := "IDR " + formatted
	if negative {
		result = "-" + result
	}

	return result
}

func addThousandsSeparator(s string, sep string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	numSeps := (n - 1) / 3
	result := make([]byte, n+numSeps)

	j := len(result) - 1
	for i := n - 1; i >= 0; i-- {
		result[j] = s[i]
		j--

		pos := n - i
		if pos%3 == 0 && i > 0 {
			result[j] = sep[0]
			j--
		}
	}

	return string(result)
}
