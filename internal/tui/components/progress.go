package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/capex/internal/tui/theme"
)

// BudgetUsed returns spent as a fraction of budget. A zero budget counts as
// fully used once anything is spent.
func BudgetUsed(spent, budget float64) float64 {
	switch {
	case budget > 0:
		return spent / budget
	case spent > 0:
		return 1
	default:
		return 0
	}
}

// BudgetBar renders a labeled bar of forecast spend against a project budget.
// The bar fills to at most 100%; the percentage shows the true figure.
func BudgetBar(label string, spent, budget float64, labelW, barWidth int) string {
	t := theme.Active
	used := BudgetUsed(spent, budget)
	color := t.BudgetColor(used)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)

	fill := used
	if fill > 1 {
		fill = 1
	}

	out := labelStyle.Render(fmt.Sprintf("%-*s", labelW, truncate(label, labelW))) +
		spaceStyle.Render(" ") +
		bar.ViewAs(fill) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%4.0f%%", used*100))
	if used > 1 {
		out += spaceStyle.Render(" ") + pctStyle.Render("over")
	}
	return out
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
