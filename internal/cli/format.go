// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/theirongolddev/capex/internal/types"
)

// FormatCost formats a currency amount with two decimals and thousands
// separators. e.g., 1234.5 -> "$1,234.50", -40 -> "-$40.00"
func FormatCost(cost float64) string {
	if cost < 0 {
		return "-" + FormatCost(-cost)
	}
	cents := int64(math.Round(cost * 100))
	return fmt.Sprintf("$%s.%02d", FormatNumber(cents/100), cents%100)
}

// FormatCompactCost formats a currency amount for narrow grid cells.
// e.g., 950 -> "$950", 12500 -> "$12.5K", 2300000 -> "$2.3M"
func FormatCompactCost(cost float64) string {
	if cost < 0 {
		return "-" + FormatCompactCost(-cost)
	}
	switch {
	case cost >= 1_000_000:
		return fmt.Sprintf("$%.1fM", cost/1_000_000)
	case cost >= 10_000:
		return fmt.Sprintf("$%.1fK", cost/1_000)
	case cost == math.Trunc(cost):
		return fmt.Sprintf("$%.0f", cost)
	default:
		return fmt.Sprintf("$%.2f", cost)
	}
}

// FormatBudget formats an optional budget; nil renders as "-".
func FormatBudget(budget *float64) string {
	if budget == nil {
		return "-"
	}
	return FormatCost(*budget)
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

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatAllocation formats a 0-100 allocation without trailing zeros.
// e.g., 50 -> "50%", 37.5 -> "37.5%"
func FormatAllocation(pct float64) string {
	return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}

// FormatDelta formats a signed amount, e.g. remaining budget.
func FormatDelta(delta float64) string {
	if delta >= 0 {
		return "+" + FormatCost(delta)
	}
	return "-" + FormatCost(-delta)
}

// FormatMonthHeader returns the 3-letter month abbreviation used as a grid
// column header.
func FormatMonthHeader(m types.Month) string {
	return m.Month.String()[:3]
}

// FormatDate renders an optional ISO date; empty renders as "-".
func FormatDate(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
