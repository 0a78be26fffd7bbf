package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/capex/internal/cli"
	"github.com/theirongolddev/capex/internal/tui/theme"
)

func (a App) updateActualsKey(key string) (tea.Model, tea.Cmd) {
	if cur, moved := moveGrid(key, a.actualCur, len(a.actual)); moved {
		a.actualCur = cur
		return a, nil
	}
	if len(a.actual) == 0 {
		return a, nil
	}

	row := a.actual[a.actualCur.row]
	cell := row.Cells[a.actualCur.col]

	switch key {
	case "enter", "e":
		if !cell.Expected {
			a.fail(fmt.Errorf("%s is blocked: no allocation in %s", cell.Month.Label(), cell.ForecastMonth.Label()))
			return a, nil
		}
		value := ""
		if cell.Actual != nil {
			value = formatInputNumber(*cell.Actual)
		}
		prompt := fmt.Sprintf("%s · %s actual for %s", row.ResourceName, row.ProjectName, cell.Month.Label())
		return a, a.startEdit(prompt, value)
	case "x", "delete", "backspace":
		// Clearing is allowed on blocked cells so stale actuals can be removed.
		if cell.Actual == nil {
			return a, nil
		}
		if _, _, err := a.tracker.SetActual(row.Pair.ResourceID, row.Pair.ProjectPVNumber, cell.Month, nil); err != nil {
			a.fail(err)
			return a, nil
		}
		a.reload()
		a.ok("%s actual cleared", cell.Month.Label())
	}
	return a, nil
}

func (a *App) commitActual(raw string) {
	if len(a.actual) == 0 {
		return
	}
	row := a.actual[a.actualCur.row]
	m := row.Cells[a.actualCur.col].Month

	act, present, err := a.tracker.SetActualInput(row.Pair.ResourceID, row.Pair.ProjectPVNumber, m, raw)
	if err != nil {
		a.fail(fmt.Errorf("%s: %w", m.Label(), err))
		return
	}
	a.reload()
	if present {
		a.ok("%s actual %s", m.Label(), cli.FormatCost(act.CapitalCost))
	} else {
		a.ok("%s actual cleared", m.Label())
	}
}

func (a App) renderActualsTab(cw, h int) string {
	t := theme.Active
	if len(a.actual) == 0 {
		return emptyState(cw, "No forecasts yet.", "Actuals are recorded against forecast pairs.")
	}

	rows := make([]gridRow, len(a.actual))
	for i, r := range a.actual {
		gr := gridRow{
			label:  r.ResourceName,
			detail: r.ProjectName,
			cells:  make([]gridCell, len(r.Cells)),
			total:  cli.FormatCost(r.Total),
		}
		for j, c := range r.Cells {
			switch {
			case !c.Expected && c.Actual != nil:
				gr.cells[j] = gridCell{text: cli.FormatCompactCost(*c.Actual) + "!", kind: cellWarn}
			case !c.Expected:
				gr.cells[j] = gridCell{text: "·", kind: cellBlocked}
			case c.Actual != nil:
				gr.cells[j] = gridCell{text: cli.FormatCompactCost(*c.Actual), kind: cellValue}
			default:
				gr.cells[j] = gridCell{kind: cellEmpty}
			}
		}
		rows[i] = gr
	}

	grid := renderGrid(a.year, rows, a.actualCur, cw, h-2)

	detailStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Background)
	sel := a.actual[a.actualCur.row]
	cell := sel.Cells[a.actualCur.col]
	var detail string
	if cell.Expected {
		detail = fmt.Sprintf(" %s fulfils %s: %s forecast = %s",
			cell.Month.Label(), cell.ForecastMonth.Label(),
			cli.FormatAllocation(cell.Allocation), cli.FormatCost(cell.ForecastCost))
		if cell.Actual != nil {
			detail += " · " + cli.FormatDelta(*cell.Actual-cell.ForecastCost)
		}
	} else {
		detail = fmt.Sprintf(" %s blocked: no allocation in %s", cell.Month.Label(), cell.ForecastMonth.Label())
		if cell.Actual != nil {
			detail += " · stale actual, press x to clear"
		}
	}

	return grid + "\n" + detailStyle.Render(detail)
}
