package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/capex/internal/cli"
	"github.com/theirongolddev/capex/internal/tui/components"
	"github.com/theirongolddev/capex/internal/tui/theme"
)

func (a App) renderSummaryTab(cw int) string {
	t := theme.Active
	stats := a.stats

	if len(a.snap.Resources) == 0 && len(a.snap.Projects) == 0 {
		return emptyState(cw, "Nothing tracked yet.", "Add resources and projects with `capex resources add` and `capex projects add`.")
	}

	budgetNote := "no budgets set"
	if stats.TotalBudget > 0 {
		budgetNote = cli.FormatPercent(stats.TotalForecast/stats.TotalBudget) + " forecast"
	}
	actualNote := ""
	if stats.TotalForecast > 0 {
		actualNote = cli.FormatPercent(stats.TotalActual/stats.TotalForecast) + " of forecast"
	}
	overColor := t.Green
	if stats.OverBudget > 0 {
		overColor = t.Red
	}

	cards := components.MetricCardRow([]components.Metric{
		{Label: "Forecast", Value: cli.FormatCost(stats.TotalForecast), Note: fmt.Sprintf("%d active resources", stats.ActiveResources)},
		{Label: "Actual", Value: cli.FormatCost(stats.TotalActual), Note: actualNote},
		{Label: "Budget", Value: cli.FormatCost(stats.TotalBudget), Note: budgetNote},
		{Label: "Over budget", Value: fmt.Sprintf("%d of %d", stats.OverBudget, stats.Projects), Color: overColor},
	}, cw)

	halves := components.LayoutRow(cw, 2)

	// Budget bars for projects that have a budget.
	var bars strings.Builder
	labelW := 16
	barW := max(components.CardInnerWidth(halves[0])-labelW-12, 8)
	noBudget := 0
	for _, p := range stats.ByProject {
		if p.Budget == nil {
			noBudget++
			continue
		}
		bars.WriteString(components.BudgetBar(p.Name, p.Total, *p.Budget, labelW, barW))
		bars.WriteString("\n")
	}
	if noBudget > 0 {
		bars.WriteString(lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).
			Render(fmt.Sprintf("%d project(s) without a budget", noBudget)))
	}
	budgetCard := components.ContentCard("Budget by project", strings.TrimRight(bars.String(), "\n"), halves[0])

	// Monthly forecast and actual cost against the even monthly budget share.
	months := make([]components.MonthBar, len(stats.Monthly))
	for i, m := range stats.Monthly {
		months[i] = components.MonthBar{
			Label:    cli.FormatMonthHeader(m.Month),
			Forecast: m.Forecast,
			Actual:   m.Actual,
		}
	}
	chart := components.ForecastActualChart(months, stats.TotalBudget/12, components.CardInnerWidth(halves[1]), 8)
	chartCard := components.ContentCard(fmt.Sprintf("Monthly cost %d", a.year), chart, halves[1])

	return cards + "\n" + components.CardRow([]string{budgetCard, chartCard}) + "\n" + a.renderTopResources(cw)
}

func (a App) renderTopResources(cw int) string {
	t := theme.Active
	if len(a.stats.ByResource) == 0 {
		return ""
	}

	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	for i, r := range a.stats.ByResource {
		if i == 5 {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("… %d more", len(a.stats.ByResource)-5)))
			break
		}
		b.WriteString(rowStyle.Render(fmt.Sprintf("%-24s", truncStr(r.Name, 23))))
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%-10s%-18s", r.Location, truncStr(r.Company, 17))))
		b.WriteString(rowStyle.Render(fmt.Sprintf("%14s", cli.FormatCost(r.Total))))
		b.WriteString("\n")
	}
	return components.ContentCard(fmt.Sprintf("Top resources %d", a.year), strings.TrimRight(b.String(), "\n"), cw)
}
