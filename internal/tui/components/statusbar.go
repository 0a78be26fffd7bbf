package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/capex/internal/tui/theme"
)

// Status is the message shown in the status bar after an action.
type Status struct {
	Text  string
	Error bool
}

// RenderStatusBar renders the bottom status bar: key hints on the left and
// the last action's outcome on the right.
func RenderStatusBar(width int, hints string, status Status) string {
	t := theme.Active

	barStyle := lipgloss.NewStyle().
		Background(t.Surface)

	hintStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	msgStyle := lipgloss.NewStyle().
		Foreground(t.Green).
		Background(t.Surface)
	if status.Error {
		msgStyle = msgStyle.Foreground(t.Red).Bold(true)
	}

	left := hintStyle.Render(" " + hints)
	right := ""
	if status.Text != "" {
		right = msgStyle.Render(status.Text + " ")
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		// Hints give way to the message.
		left = ""
		padding = width - lipgloss.Width(right)
		if padding < 0 {
			padding = 0
		}
	}

	return left + barStyle.Render(strings.Repeat(" ", padding)) + right
}
