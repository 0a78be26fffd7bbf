package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/capex/internal/tui/theme"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // position of the shortcut letter in the name (-1 if not in name)
}

// Tab indexes, in display order.
const (
	TabForecasts = iota
	TabActuals
	TabSummary
	TabResources
	TabProjects
)

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Forecasts", Key: 'f', KeyPos: 0},
	{Name: "Actuals", Key: 'a', KeyPos: 0},
	{Name: "Summary", Key: 's', KeyPos: 0},
	{Name: "Resources", Key: 'r', KeyPos: 0},
	{Name: "Projects", Key: 'p', KeyPos: 0},
}

// TabVisualWidth is the rendered width of one tab, including its padding and
// the shortcut brackets shown on inactive tabs.
func TabVisualWidth(tab Tab, active bool) int {
	w := lipgloss.Width(tab.Name) + 2
	if !active {
		w += 2
		if tab.KeyPos < 0 {
			w++
		}
	}
	return w
}

// RenderTabBar renders the tab bar with the given active index. Tabs are
// separated by one column; the right side shows the year.
func RenderTabBar(activeIdx, year, width int) string {
	t := theme.Active

	barStyle := lipgloss.NewStyle().Background(t.Surface)
	keyStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)
	dimKeyStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	left := renderTabs(activeIdx)
	right := dimKeyStyle.Render("[ ") +
		keyStyle.Render(strconv.Itoa(year)) +
		dimKeyStyle.Render(" ] ")

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return barStyle.Width(width).Render(left)
	}
	return left + barStyle.Render(strings.Repeat(" ", gap)) + right
}

func renderTabs(activeIdx int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.SurfaceHover).
		Bold(true).
		Padding(0, 1)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	dimKeyStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	sepStyle := lipgloss.NewStyle().
		Foreground(t.Border).
		Background(t.Surface)

	var b strings.Builder
	for i, tab := range Tabs {
		if i > 0 {
			b.WriteString(sepStyle.Render("│"))
		}
		if i == activeIdx {
			b.WriteString(activeStyle.Render(tab.Name))
			continue
		}

		b.WriteString(inactiveStyle.Render(" "))
		if tab.KeyPos >= 0 && tab.KeyPos < len(tab.Name) {
			b.WriteString(inactiveStyle.Render(tab.Name[:tab.KeyPos]))
			b.WriteString(dimKeyStyle.Render("["))
			b.WriteString(keyStyle.Render(string(tab.Name[tab.KeyPos])))
			b.WriteString(dimKeyStyle.Render("]"))
			b.WriteString(inactiveStyle.Render(tab.Name[tab.KeyPos+1:]))
		} else {
			b.WriteString(inactiveStyle.Render(tab.Name))
			b.WriteString(dimKeyStyle.Render("["))
			b.WriteString(keyStyle.Render(string(tab.Key)))
			b.WriteString(dimKeyStyle.Render("]"))
		}
		b.WriteString(inactiveStyle.Render(" "))
	}
	return b.String()
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
