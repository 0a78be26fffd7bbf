package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theirongolddev/capex/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	widths := LayoutRow(100, 3)
	assert.Equal(t, []int{34, 33, 33}, widths)
	assert.Nil(t, LayoutRow(10, 0))
}

func TestCardRowBackgroundFill(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	require.Less(t, shortLines, tallLines)

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	assert.Len(t, lines, tallLines)

	for i, line := range lines[shortLines:] {
		assert.Contains(t, line, "\x1b[", "padding line %d has no styling", i+shortLines)
	}
}

func TestCardRowWidthConsistency(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "A", 30)
	tallCard := ContentCard("Tall", "A\nB\nC\nD\nE\nF", 20)

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	want := lipgloss.Width(lines[0])
	for i, line := range lines {
		assert.Equal(t, want, lipgloss.Width(line), "line %d", i)
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	row := MetricCardRow([]Metric{
		{Label: "Forecast", Value: "$1,200.00"},
		{Label: "Actual", Value: "$900.00", Note: "75% of forecast"},
	}, 60)
	assert.Equal(t, 60, lipgloss.Width(row))
	assert.Contains(t, row, "Forecast")
	assert.Contains(t, row, "75% of forecast")
}

func TestTabVisualWidthMatchesRender(t *testing.T) {
	theme.SetActive("flexoki-dark")

	for active := range Tabs {
		bar := RenderTabBar(active, 2025, 200)
		want := 0
		for i, tab := range Tabs {
			want += TabVisualWidth(tab, i == active)
			if i < len(Tabs)-1 {
				want++
			}
		}
		assert.Equal(t, want, lipgloss.Width(renderTabs(active)))
		assert.Equal(t, 200, lipgloss.Width(bar))
		assert.Contains(t, bar, "2025")
	}
}

func TestTabIdxByKey(t *testing.T) {
	assert.Equal(t, TabForecasts, TabIdxByKey('f'))
	assert.Equal(t, TabProjects, TabIdxByKey('p'))
	assert.Equal(t, -1, TabIdxByKey('z'))
}

func TestRenderStatusBarShowsMessage(t *testing.T) {
	bar := RenderStatusBar(80, "[?]help  [q]uit", Status{Text: "invalid number", Error: true})
	assert.Equal(t, 80, lipgloss.Width(bar))
	assert.Contains(t, bar, "invalid number")
	assert.Contains(t, bar, "[q]uit")
}

func TestRenderStatusBarNarrowDropsHints(t *testing.T) {
	bar := RenderStatusBar(20, "[?]help  [q]uit  [enter]edit", Status{Text: "saved"})
	assert.NotContains(t, bar, "[q]uit")
	assert.Contains(t, bar, "saved")
}

func TestBudgetUsed(t *testing.T) {
	assert.InDelta(t, 0.5, BudgetUsed(50, 100), 1e-9)
	assert.InDelta(t, 1.0, BudgetUsed(5, 0), 1e-9)
	assert.InDelta(t, 0.0, BudgetUsed(0, 0), 1e-9)
}

func TestBudgetBarFlagsOverBudget(t *testing.T) {
	over := BudgetBar("PV-1", 150, 100, 10, 20)
	assert.Contains(t, over, "150%")
	assert.Contains(t, over, "over")

	under := BudgetBar("PV-2", 50, 100, 10, 20)
	assert.Contains(t, under, "50%")
	assert.NotContains(t, under, "over")
}

func TestChartTickStep(t *testing.T) {
	assert.InDelta(t, 1.0, chartTickStep(0), 1e-9)
	assert.InDelta(t, 200.0, chartTickStep(1000), 1e-9)
	assert.InDelta(t, 5000.0, chartTickStep(20000), 1e-9)
}

func TestFormatChartLabel(t *testing.T) {
	assert.Equal(t, "$2k", formatChartLabel(2000))
	assert.Equal(t, "$2.5k", formatChartLabel(2500))
	assert.Equal(t, "$1M", formatChartLabel(1e6))
	assert.Equal(t, "$40", formatChartLabel(40))
}

func TestMonthlyComparisonSharedScale(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() { lipgloss.SetColorProfile(termenv.TrueColor) })

	out := MonthlyComparison(
		[]float64{0, 100, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		[]float64{0, 0, 50, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "▁█▁")
	assert.Contains(t, lines[1], "▁▁▄")
	assert.Contains(t, lines[2], "JFMAMJJASOND")
}

func chartMonths() []MonthBar {
	names := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	months := make([]MonthBar, len(names))
	for i, n := range names {
		months[i] = MonthBar{Label: n}
	}
	months[2].Forecast = 1000
	months[3].Actual = 1200
	return months
}

func TestForecastActualChart(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() { lipgloss.SetColorProfile(termenv.TrueColor) })

	out := ForecastActualChart(chartMonths(), 500, 80, 6)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 9, "six bar rows, axis, month labels, legend")

	assert.True(t, strings.HasPrefix(lines[0], " $1.2k│"), lines[0])
	assert.Contains(t, lines[0], "██", "April actual reaches the top")

	// $500 of a $1.2k axis over six rows lands in the third row from the bottom.
	assert.True(t, strings.HasPrefix(lines[3], "  $500│"), lines[3])
	assert.Contains(t, lines[3], "┄")
	assert.NotContains(t, lines[2], "┄")

	assert.Contains(t, lines[7], "Jan  Feb  Mar")
	assert.Contains(t, lines[8], "budget/month")
}

func TestForecastActualChartWithoutBudget(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() { lipgloss.SetColorProfile(termenv.TrueColor) })

	out := ForecastActualChart(chartMonths(), 0, 80, 6)
	assert.NotContains(t, out, "┄")
	assert.NotContains(t, out, "budget/month")
}

func TestForecastActualChartNarrowFallsBack(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)
	t.Cleanup(func() { lipgloss.SetColorProfile(termenv.TrueColor) })

	out := ForecastActualChart(chartMonths(), 500, 20, 6)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[2], "JFMAMJJASOND")
	assert.Empty(t, ForecastActualChart(nil, 0, 80, 6))
}
