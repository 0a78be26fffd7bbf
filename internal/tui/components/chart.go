package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/capex/internal/tui/theme"
)

// sparkRunes maps values onto block characters scaled to peak.
func sparkRunes(values []float64, peak float64) string {
	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	if peak <= 0 {
		peak = 1
	}

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		if idx >= len(blocks) {
			idx = len(blocks) - 1
		}
		if idx < 0 {
			idx = 0
		}
		buf.WriteRune(blocks[idx])
	}
	return buf.String()
}

func peakOf(values []float64) float64 {
	peak := 0.0
	for _, v := range values {
		peak = math.Max(peak, v)
	}
	return peak
}

// MonthBar is one month of the forecast/actual chart.
type MonthBar struct {
	Label    string
	Forecast float64
	Actual   float64
}

// ForecastActualChart draws a forecast column and an actual column for every
// month against a dollar axis. Actuals above their month's forecast are drawn
// in the warning colour. A positive monthlyBudget adds a dashed reference
// line. When the bars do not fit it falls back to MonthlyComparison.
func ForecastActualChart(months []MonthBar, monthlyBudget float64, width, height int) string {
	n := len(months)
	if n == 0 {
		return ""
	}

	peak := math.Max(monthlyBudget, 0)
	for _, m := range months {
		peak = math.Max(peak, math.Max(m.Forecast, m.Actual))
	}
	if peak <= 0 {
		peak = 1
	}
	step := chartTickStep(peak)
	ceiling := math.Ceil(peak/step) * step

	yLabelW := max(len(formatChartLabel(ceiling)), len(formatChartLabel(monthlyBudget))) + 1
	barW := min(((width-yLabelW-1)/n-1)/2, 3)
	if height < 3 || barW < 1 {
		forecast := make([]float64, n)
		actual := make([]float64, n)
		for i, m := range months {
			forecast[i], actual[i] = m.Forecast, m.Actual
		}
		return MonthlyComparison(forecast, actual)
	}
	groupW := 2*barW + 1

	t := theme.Active
	bg := lipgloss.NewStyle().Background(t.Surface)
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	forecastStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	actualStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	overStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	budgetStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface)

	// Row 1..height whose band holds the budget line; 0 means none.
	budgetRow := 0
	if monthlyBudget > 0 {
		budgetRow = clampInt(int(math.Ceil(monthlyBudget/ceiling*float64(height))), 1, height)
	}

	var b strings.Builder
	for row := height; row >= 1; row-- {
		top := ceiling * float64(row) / float64(height)
		bottom := ceiling * float64(row-1) / float64(height)
		onLine := row == budgetRow

		label := ""
		switch {
		case row == height:
			label = formatChartLabel(ceiling)
		case onLine:
			label = formatChartLabel(monthlyBudget)
		}
		b.WriteString(axisStyle.Render(fmt.Sprintf("%*s│", yLabelW, label)))

		for i, m := range months {
			style := actualStyle
			if m.Actual > m.Forecast {
				style = overStyle
			}
			b.WriteString(barCell(m.Forecast, top, bottom, barW, forecastStyle, budgetStyle, bg, onLine))
			b.WriteString(barCell(m.Actual, top, bottom, barW, style, budgetStyle, bg, onLine))
			switch {
			case i == n-1:
			case onLine:
				b.WriteString(budgetStyle.Render("┄"))
			default:
				b.WriteString(bg.Render(" "))
			}
		}
		b.WriteString("\n")
	}

	axisLen := n*groupW - 1
	b.WriteString(axisStyle.Render(fmt.Sprintf("%*s└%s", yLabelW, "0", strings.Repeat("─", axisLen))))
	b.WriteString("\n")

	var labels strings.Builder
	for _, m := range months {
		lbl := m.Label
		if groupW < 4 {
			lbl = firstRunes(lbl, 1)
		} else {
			lbl = firstRunes(lbl, 3)
		}
		fmt.Fprintf(&labels, "%-*s", groupW, lbl)
	}
	b.WriteString(bg.Render(strings.Repeat(" ", yLabelW+1)))
	b.WriteString(axisStyle.Render(strings.TrimRight(labels.String(), " ")))
	b.WriteString("\n")

	b.WriteString(bg.Render(strings.Repeat(" ", yLabelW+1)))
	b.WriteString(forecastStyle.Render("█"))
	b.WriteString(axisStyle.Render(" forecast  "))
	b.WriteString(actualStyle.Render("█"))
	b.WriteString(axisStyle.Render(" actual  "))
	b.WriteString(overStyle.Render("█"))
	b.WriteString(axisStyle.Render(" over forecast"))
	if monthlyBudget > 0 {
		b.WriteString(axisStyle.Render("  "))
		b.WriteString(budgetStyle.Render("┄"))
		b.WriteString(axisStyle.Render(" budget/month"))
	}
	return b.String()
}

// barCell renders one bar column for the band (bottom, top]. Empty space on
// the budget row is drawn as the dashed line.
func barCell(v, top, bottom float64, w int, style, lineStyle, bg lipgloss.Style, onLine bool) string {
	blocks := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	switch {
	case v > 0 && v >= top:
		return style.Render(strings.Repeat("█", w))
	case v > bottom:
		idx := clampInt(int((v-bottom)/(top-bottom)*8), 1, 8)
		return style.Render(strings.Repeat(string(blocks[idx]), w))
	case onLine:
		return lineStyle.Render(strings.Repeat("┄", w))
	default:
		return bg.Render(strings.Repeat(" ", w))
	}
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func firstRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// chartTickStep computes a nice tick interval targeting ~5 ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	exp := math.Floor(math.Log10(rough))
	base := math.Pow(10, exp)
	frac := rough / base

	switch {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

func formatChartLabel(v float64) string {
	switch {
	case v >= 1e6:
		if v == math.Trunc(v/1e6)*1e6 {
			return fmt.Sprintf("$%.0fM", v/1e6)
		}
		return fmt.Sprintf("$%.1fM", v/1e6)
	case v >= 1e3:
		if v == math.Trunc(v/1e3)*1e3 {
			return fmt.Sprintf("$%.0fk", v/1e3)
		}
		return fmt.Sprintf("$%.1fk", v/1e3)
	case v >= 1:
		return fmt.Sprintf("$%.0f", v)
	default:
		return fmt.Sprintf("$%.2f", v)
	}
}

// MonthlyComparison renders forecast and actual monthly series as two
// sparklines on a shared scale, so the rows compare directly.
func MonthlyComparison(forecast, actual []float64) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	forecastStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	actualStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	peak := math.Max(peakOf(forecast), peakOf(actual))

	var b strings.Builder
	b.WriteString(labelStyle.Render("Forecast "))
	b.WriteString(forecastStyle.Render(sparkRunes(forecast, peak)))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Actual   "))
	b.WriteString(actualStyle.Render(sparkRunes(actual, peak)))
	b.WriteString("\n")
	initials := "JFMAMJJASOND"
	b.WriteString(dimStyle.Render("         " + initials[:min(len(forecast), len(initials))]))
	return b.String()
}
