package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/capex/internal/cli"
	"github.com/theirongolddev/capex/internal/tui/theme"
)

func (a App) updateForecastsKey(key string) (tea.Model, tea.Cmd) {
	if cur, moved := moveGrid(key, a.forecastCur, len(a.forecast)); moved {
		a.forecastCur = cur
		return a, nil
	}

	switch key {
	case "n":
		return a, a.openForm(formNewForecast)
	}

	if len(a.forecast) == 0 {
		return a, nil
	}
	row := a.forecast[a.forecastCur.row]
	cell := row.Cells[a.forecastCur.col]

	switch key {
	case "enter", "e":
		value := ""
		if cell.Set {
			value = formatInputNumber(cell.Allocation)
		}
		prompt := fmt.Sprintf("%s · %s %% for %s", row.ResourceName, row.ProjectName, cell.Month.Label())
		return a, a.startEdit(prompt, value)
	case "x", "delete", "backspace":
		if !cell.Set {
			return a, nil
		}
		if _, err := a.tracker.ClearAllocation(row.ForecastID, cell.Month); err != nil {
			a.fail(err)
			return a, nil
		}
		a.reload()
		a.ok("%s cleared", cell.Month.Label())
	}
	return a, nil
}

func (a *App) commitAllocation(raw string) {
	if len(a.forecast) == 0 {
		return
	}
	row := a.forecast[a.forecastCur.row]
	m := row.Cells[a.forecastCur.col].Month

	f, err := a.tracker.SetAllocationInput(row.ForecastID, m, raw)
	if err != nil {
		a.fail(fmt.Errorf("%s: %w", m.Label(), err))
		return
	}
	a.reload()
	if pct, ok := f.Allocation(m); ok {
		a.ok("%s set to %s", m.Label(), cli.FormatAllocation(pct))
	} else {
		a.ok("%s cleared", m.Label())
	}
}

func (a App) renderForecastsTab(cw, h int) string {
	t := theme.Active
	if len(a.forecast) == 0 {
		return emptyState(cw, "No forecasts yet.", "Press n to assign a resource to a project.")
	}

	rows := make([]gridRow, len(a.forecast))
	for i, f := range a.forecast {
		r := gridRow{
			label:  f.ResourceName,
			detail: f.ProjectName,
			dim:    !f.Active,
			cells:  make([]gridCell, len(f.Cells)),
			total:  cli.FormatCost(f.Total),
		}
		for j, c := range f.Cells {
			if c.Set {
				r.cells[j] = gridCell{text: cli.FormatAllocation(c.Allocation), kind: cellValue}
			} else {
				r.cells[j] = gridCell{kind: cellEmpty}
			}
		}
		rows[i] = r
	}

	grid := renderGrid(a.year, rows, a.forecastCur, cw, h-2)

	detailStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Background)
	sel := a.forecast[a.forecastCur.row]
	cell := sel.Cells[a.forecastCur.col]
	detail := fmt.Sprintf(" %s · %s", sel.ResourceName, cell.Month.Label())
	if cell.Set {
		detail += fmt.Sprintf(" · %s = %s", cli.FormatAllocation(cell.Allocation), cli.FormatCost(cell.Cost))
	}
	if !sel.Active {
		detail += fmt.Sprintf(" · inactive in %d", a.year)
	}

	return grid + "\n" + detailStyle.Render(detail)
}

func emptyState(cw int, title, hint string) string {
	t := theme.Active
	titleStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Background).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Background)
	body := titleStyle.Render(title) + "\n" + hintStyle.Render(hint)
	return lipgloss.PlaceHorizontal(cw, lipgloss.Center, "\n\n"+body,
		lipgloss.WithWhitespaceBackground(t.Background))
}
