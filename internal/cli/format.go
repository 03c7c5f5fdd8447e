// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes every formatted amount.
var CurrencySymbol = "₹"

// CompactUnits enables lakh/crore shorthand for large amounts.
var CompactUnits = true

var (
	lakh  = decimal.NewFromInt(100_000)
	crore = decimal.NewFromInt(10_000_000)
)

// FormatCurrency formats an amount for display, rounding to the nearest unit.
// e.g., 1234.6 -> "₹1,235", 250000 -> "₹2.5 lakh", 31000000 -> "₹3.1 crore"
func FormatCurrency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return CurrencySymbol + "?"
	}
	d := decimal.NewFromFloat(amount)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	if CompactUnits {
		switch {
		case d.GreaterThanOrEqual(crore):
			return sign + CurrencySymbol + d.Div(crore).StringFixed(1) + " crore"
		case d.GreaterThanOrEqual(lakh):
			return sign + CurrencySymbol + d.Div(lakh).StringFixed(1) + " lakh"
		}
	}
	return sign + CurrencySymbol + FormatNumber(d.Round(0).IntPart())
}

// FormatAmount formats an amount with full digits, ignoring compact units.
func FormatAmount(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(0)
	if d.IsNegative() {
		return "-" + CurrencySymbol + FormatNumber(d.Neg().IntPart())
	}
	return CurrencySymbol + FormatNumber(d.IntPart())
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-100 value as a percentage string.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatDelta formats a signed difference in percentage points.
func FormatDelta(pts float64) string {
	if pts >= 0 {
		return fmt.Sprintf("+%.1f pts", pts)
	}
	return fmt.Sprintf("%.1f pts", pts)
}

// FormatMonths formats a month count as years and months.
// e.g., 3 -> "3 mo", 14.2 -> "1y 3mo"
func FormatMonths(months float64, unbounded bool) string {
	if unbounded {
		return "never"
	}
	n := int(math.Ceil(months))
	if n <= 0 {
		return "done"
	}
	if n < 12 {
		return fmt.Sprintf("%d mo", n)
	}
	if n%12 == 0 {
		return fmt.Sprintf("%dy", n/12)
	}
	return fmt.Sprintf("%dy %dmo", n/12, n%12)
}
