package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/capex/internal/cli"
	"github.com/theirongolddev/capex/internal/pipeline"
	"github.com/theirongolddev/capex/internal/tui/components"
	"github.com/theirongolddev/capex/internal/tui/theme"
)

// listColumn is one column of a read-only list view.
type listColumn struct {
	title string
	width int
	right bool
}

// renderList draws a cursor-highlighted list, scrolling to keep the cursor
// in view.
func renderList(cols []listColumn, rows [][]string, dim []bool, cursor, height int) string {
	t := theme.Active

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Background).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Background)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Background)
	selStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)

	cell := func(c listColumn, s string) string {
		s = truncStr(s, c.width-1)
		if c.right {
			return fmt.Sprintf("%*s ", c.width-1, s)
		}
		return fmt.Sprintf("%-*s", c.width, s)
	}

	var b strings.Builder
	var header strings.Builder
	header.WriteString(" ")
	for _, c := range cols {
		header.WriteString(cell(c, c.title))
	}
	b.WriteString(headerStyle.Render(header.String()))
	b.WriteString("\n")

	visible := max(height-2, 1)
	first := clamp(cursor-visible+1, 0, max(len(rows)-visible, 0))
	for r := first; r < len(rows) && r < first+visible; r++ {
		var line strings.Builder
		line.WriteString(" ")
		for i, c := range cols {
			line.WriteString(cell(c, rows[r][i]))
		}
		switch {
		case r == cursor:
			b.WriteString(selStyle.Render(line.String()))
		case dim[r]:
			b.WriteString(dimStyle.Render(line.String()))
		default:
			b.WriteString(textStyle.Render(line.String()))
		}
		b.WriteString("\n")
	}
	if len(rows) > visible {
		b.WriteString(dimStyle.Render(fmt.Sprintf(" %d-%d of %d", first+1, min(first+visible, len(rows)), len(rows))))
	}
	return b.String()
}

func (a App) renderResourcesTab(cw, h int) string {
	if len(a.snap.Resources) == 0 {
		return emptyState(cw, "No resources yet.", "Add one with `capex resources add`.")
	}
	if len(a.resources) == 0 {
		return emptyState(cw, fmt.Sprintf("No resources active in %d.", a.year), "Press E to show ended resources.")
	}

	cols := []listColumn{
		{title: "ID", width: 12},
		{title: "Name", width: 24},
		{title: "Company", width: 18},
		{title: "Location", width: 10},
		{title: "Rate", width: 13, right: true},
		{title: "End", width: 12},
		{title: "Status", width: 14},
		{title: fmt.Sprintf("Forecast %d", a.year), width: 16, right: true},
	}

	rows := make([][]string, len(a.resources))
	dim := make([]bool, len(a.resources))
	for i, row := range a.resources {
		r := row.Resource
		total := "-"
		if row.Active {
			total = cli.FormatCost(row.Total)
		}
		dim[i] = !row.Active
		rows[i] = []string{
			r.ID,
			r.FullName,
			r.Company,
			string(r.Location),
			cli.FormatCost(r.Rate),
			cli.FormatDate(r.EndDate),
			activeLabel(r.EndDate, row.Active, a.year),
			total,
		}
	}
	return renderList(cols, rows, dim, a.resourceCur, h)
}

func (a App) renderProjectsTab(cw, h int) string {
	t := theme.Active
	if len(a.snap.Projects) == 0 {
		return emptyState(cw, "No projects yet.", "Add one with `capex projects add`.")
	}

	cols := []listColumn{
		{title: "PV", width: 12},
		{title: "Name", width: 24},
		{title: "Oracle Account", width: 16},
		{title: "Budget", width: 15, right: true},
		{title: fmt.Sprintf("Forecast %d", a.year), width: 16, right: true},
		{title: "Actual", width: 15, right: true},
		{title: "Status", width: 12},
	}

	rows := make([][]string, len(a.snap.Projects))
	dim := make([]bool, len(a.snap.Projects))
	for i, p := range a.snap.Projects {
		status := "no budget"
		if p.HasBudget() {
			status = "ok"
			if pipeline.IsOverBudget(a.snap, p.PVNumber, a.year) {
				status = "OVER"
			}
		}
		rows[i] = []string{
			p.PVNumber,
			p.Name,
			p.OracleAccount,
			cli.FormatBudget(p.Budget),
			cli.FormatCost(pipeline.TotalByProject(a.snap, p.PVNumber, a.year)),
			cli.FormatCost(pipeline.ActualTotalByProject(a.snap, p.PVNumber, a.year)),
			status,
		}
	}
	list := renderList(cols, rows, dim, a.projectCur, h-3)

	// Budget bar for the selected project.
	sel := a.snap.Projects[a.projectCur]
	if !sel.HasBudget() {
		return list
	}
	total := pipeline.TotalByProject(a.snap, sel.PVNumber, a.year)
	bar := components.BudgetBar(sel.Name, total, *sel.Budget, 24, max(cw-40, 10))
	remaining := *sel.Budget - total
	note := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Background).
		Render(fmt.Sprintf("  remaining %s", cli.FormatDelta(remaining)))
	return list + "\n " + bar + note
}

// activeLabel describes whether a resource is active in year.
func activeLabel(endDate string, active bool, year int) string {
	switch {
	case active:
		return "active"
	case endDate != "":
		return "ended " + endDate[:min(len(endDate), 7)]
	default:
		return fmt.Sprintf("inactive %d", year)
	}
}
