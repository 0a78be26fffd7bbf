package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/capex/internal/cli"
	"github.com/theirongolddev/capex/internal/tui/components"
	"github.com/theirongolddev/capex/internal/tui/theme"
	"github.com/theirongolddev/capex/internal/types"
)

type cellKind int

const (
	cellValue cellKind = iota
	cellEmpty
	cellBlocked
	cellWarn
)

type gridCell struct {
	text string
	kind cellKind
}

type gridRow struct {
	label  string
	detail string
	dim    bool
	cells  []gridCell
	total  string
}

const (
	gridLabelW  = 20
	gridDetailW = 16
	gridCellW   = 8
	gridTotalW  = 12
)

// visibleMonths returns the first month index and count that fit in width,
// keeping the cursor column in view.
func visibleMonths(width, col int) (start, n int) {
	fixed := gridLabelW + gridDetailW + gridTotalW + 4
	n = clamp((width-fixed)/gridCellW, 1, 12)
	start = clamp(col-n+1, 0, 12-n)
	return start, n
}

// renderGrid lays out month rows with a highlighted cursor cell. Rows beyond
// height scroll to keep the cursor visible.
func renderGrid(year int, rows []gridRow, cur gridState, width, height int) string {
	t := theme.Active

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Background).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Background)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Background)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Background)
	warnStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Background).Bold(true)
	rowHiStyle := lipgloss.NewStyle().Background(t.SurfaceHover)
	cursorStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.AccentDim).Bold(true)

	start, n := visibleMonths(width, cur.col)
	months := types.MonthsOfYear(year)

	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf(" %-*s%-*s", gridLabelW, "Resource", gridDetailW, "Project")))
	for i := start; i < start+n; i++ {
		b.WriteString(headerStyle.Render(fmt.Sprintf("%*s", gridCellW, cli.FormatMonthHeader(months[i]))))
	}
	b.WriteString(headerStyle.Render(fmt.Sprintf("%*s", gridTotalW, "Total")))
	b.WriteString("\n")

	visible := max(height-2, 1)
	first := clamp(cur.row-visible+1, 0, max(len(rows)-visible, 0))
	for r := first; r < len(rows) && r < first+visible; r++ {
		row := rows[r]
		selected := r == cur.row

		label := fmt.Sprintf(" %-*s%-*s", gridLabelW, truncStr(row.label, gridLabelW-1), gridDetailW, truncStr(row.detail, gridDetailW-1))
		switch {
		case selected:
			b.WriteString(rowHiStyle.Foreground(t.TextPrimary).Render(label))
		case row.dim:
			b.WriteString(dimStyle.Render(label))
		default:
			b.WriteString(textStyle.Render(label))
		}

		for i := start; i < start+n; i++ {
			c := row.cells[i]
			text := fmt.Sprintf("%*s", gridCellW, c.text)
			switch {
			case selected && i == cur.col:
				b.WriteString(cursorStyle.Render(text))
			case c.kind == cellBlocked:
				b.WriteString(dimStyle.Render(text))
			case c.kind == cellWarn:
				b.WriteString(warnStyle.Render(text))
			case selected:
				b.WriteString(rowHiStyle.Foreground(t.TextPrimary).Render(text))
			default:
				b.WriteString(textStyle.Render(text))
			}
		}
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%*s", gridTotalW, row.total)))
		b.WriteString("\n")
	}

	if len(rows) > visible {
		b.WriteString(dimStyle.Render(fmt.Sprintf(" %d-%d of %d", first+1, min(first+visible, len(rows)), len(rows))))
	}
	return b.String()
}

// ─── Cell editing ───────────────────────────────────────────────

func (a *App) startEdit(prompt, value string) tea.Cmd {
	ti := textinput.New()
	ti.Prompt = prompt + " › "
	ti.CharLimit = 20
	ti.Width = 20
	ti.SetValue(value)
	ti.CursorEnd()
	ti.Focus()

	a.input = ti
	a.editing = true
	a.status = components.Status{}
	return textinput.Blink
}

func (a App) updateEditInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.editing = false
		a.commitEdit(strings.TrimSpace(a.input.Value()))
		return a, nil
	case "esc":
		a.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// commitEdit writes the edited cell through the tracker. A rejected value
// leaves the store unchanged and is reported in the status bar.
func (a *App) commitEdit(raw string) {
	switch a.activeTab {
	case components.TabForecasts:
		a.commitAllocation(raw)
	case components.TabActuals:
		a.commitActual(raw)
	}
}

func (a App) renderEditLine(width int) string {
	t := theme.Active
	style := lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Background(t.SurfaceBright).
		Width(width)
	return style.Render(" " + a.input.View())
}

func formatInputNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
