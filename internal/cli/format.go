// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount with the currency symbol and thousands
// separators, always with two decimal places. Negative amounts keep the sign
// in front of the symbol: "-$70.00".
func FormatMoney(amount decimal.Decimal, symbol string) string {
	neg := amount.IsNegative()
	abs := amount.Abs().StringFixed(2)

	whole, frac, _ := strings.Cut(abs, ".")
	out := symbol + groupThousands(whole) + "." + frac
	if neg {
		return "-" + out
	}
	return out
}

// FormatDate renders a date for tables: "Mar 10, 2025".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("Jan 2, 2006")
}

// FormatShortDate renders a compact date: "Mar 10".
func FormatShortDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("Jan 2")
}

// FormatDays renders a day count: "21 days", "1 day", "today".
func FormatDays(n int) string {
	switch {
	case n <= 0:
		return "today"
	case n == 1:
		return "1 day"
	default:
		return fmt.Sprintf("%d days", n)
	}
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}
	return groupThousands(strconv.FormatInt(n, 10))
}

func groupThousands(s string) string {
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

// TitleCase upper-cases the first letter of a bucket or cycle name for
// display ("needs" -> "Needs").
func TitleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
