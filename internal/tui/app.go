// Package tui provides the interactive Bubble Tea dashboard for capex.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/theirongolddev/capex/internal/model"
	"github.com/theirongolddev/capex/internal/pipeline"
	"github.com/theirongolddev/capex/internal/tracker"
	"github.com/theirongolddev/capex/internal/tui/components"
	"github.com/theirongolddev/capex/internal/tui/theme"
)

// DataLoadedMsg is sent when the initial read of the store finishes.
type DataLoadedMsg struct {
	Snapshot model.Snapshot
	Year     int
	Err      error
}

// Options configures a new App.
type Options struct {
	// Year overrides the stored year selection for this session when > 0.
	Year int
	// FirstRun opens the setup wizard once data has loaded.
	FirstRun bool
}

type formKind int

const (
	formNone formKind = iota
	formSetup
	formNewForecast
)

// gridState is the cursor position in a month grid.
type gridState struct {
	row int
	col int // month index, 0 = January
}

// App is the root Bubble Tea model.
type App struct {
	tracker *tracker.Tracker
	log     zerolog.Logger

	// Data
	snap     model.Snapshot
	year     int
	loaded   bool
	loadErr  error
	forecast []pipeline.ForecastRow
	actual   []pipeline.ActualRow
	stats    model.SummaryStats

	resources []pipeline.ResourceListRow
	showEnded bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	status    components.Status

	// Per-tab state
	forecastCur gridState
	actualCur   gridState
	resourceCur int
	projectCur  int

	// In-place cell editing
	editing bool
	input   textinput.Model

	// Embedded huh forms
	form        *huh.Form
	formKind    formKind
	setupVals   SetupValues
	newForecast newForecastValues
	needSetup   bool

	spinner      spinner.Model
	yearOverride int
}

const (
	minTerminalWidth = 80
	maxContentWidth  = 180
	minContentHeight = 5
)

// NewApp creates a new TUI app model backed by t.
func NewApp(t *tracker.Tracker, log zerolog.Logger, opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		tracker:      t,
		log:          log,
		needSetup:    opts.FirstRun,
		yearOverride: opts.Year,
		spinner:      sp,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.tracker, a.yearOverride),
		a.spinner.Tick,
	)
}

// loadDataCmd reads the store off the UI goroutine.
func loadDataCmd(t *tracker.Tracker, year int) tea.Cmd {
	return func() tea.Msg {
		s, err := t.Snapshot()
		if err != nil {
			return DataLoadedMsg{Err: err}
		}
		if year <= 0 {
			year, err = t.SelectedYear()
			if err != nil {
				return DataLoadedMsg{Err: err}
			}
		}
		return DataLoadedMsg{Snapshot: s, Year: year}
	}
}

// recompute rebuilds every derived view from the snapshot and year.
func (a *App) recompute() {
	a.forecast = pipeline.ForecastGrid(a.snap, a.year)
	a.actual = pipeline.ActualGrid(a.snap, a.year)
	a.stats = pipeline.Summarize(a.snap, a.year)
	a.resources = pipeline.ResourceList(a.snap, a.year, a.showEnded)

	a.forecastCur.row = clamp(a.forecastCur.row, 0, len(a.forecast)-1)
	a.actualCur.row = clamp(a.actualCur.row, 0, len(a.actual)-1)
	a.resourceCur = clamp(a.resourceCur, 0, len(a.resources)-1)
	a.projectCur = clamp(a.projectCur, 0, len(a.snap.Projects)-1)
}

// reload re-reads the store after a write.
func (a *App) reload() {
	s, err := a.tracker.Snapshot()
	if err != nil {
		a.fail(err)
		return
	}
	a.snap = s
	a.recompute()
}

func (a *App) fail(err error) {
	a.status = components.Status{Text: err.Error(), Error: true}
	a.log.Debug().Err(err).Msg("tui action failed")
}

func (a *App) ok(format string, args ...any) {
	a.status = components.Status{Text: fmt.Sprintf(format, args...)}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.form != nil {
			a.form = a.form.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case DataLoadedMsg:
		a.loaded = true
		if msg.Err != nil {
			a.loadErr = msg.Err
			a.fail(msg.Err)
			return a, nil
		}
		a.snap = msg.Snapshot
		a.year = msg.Year
		a.recompute()

		if a.needSetup {
			a.needSetup = false
			return a, a.openForm(formSetup)
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.form != nil || a.editing {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if !a.loaded {
			return a, nil
		}
		if a.form != nil {
			return a.updateForm(msg)
		}
		if a.editing {
			return a.updateEditInput(msg)
		}
		return a.updateKey(msg)
	}

	// Forward everything else to an open form (cursor blinks, etc.)
	if a.form != nil {
		return a.updateForm(msg)
	}
	if a.editing {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	case "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "[":
		a.changeYear(a.year - 1)
		return a, nil
	case "]":
		a.changeYear(a.year + 1)
		return a, nil
	case "R":
		a.reload()
		a.ok("reloaded")
		return a, nil
	}

	if len(msg.Runes) == 1 {
		if idx := components.TabIdxByKey(msg.Runes[0]); idx >= 0 {
			a.activeTab = idx
			return a, nil
		}
	}

	switch a.activeTab {
	case components.TabForecasts:
		return a.updateForecastsKey(key)
	case components.TabActuals:
		return a.updateActualsKey(key)
	case components.TabResources:
		if key == "E" {
			a.showEnded = !a.showEnded
			a.recompute()
			return a, nil
		}
		a.resourceCur = moveList(key, a.resourceCur, len(a.resources))
	case components.TabProjects:
		a.projectCur = moveList(key, a.projectCur, len(a.snap.Projects))
	}
	return a, nil
}

// changeYear persists the new selection and recomputes every view.
func (a *App) changeYear(year int) {
	if err := a.tracker.SetSelectedYear(year); err != nil {
		a.fail(err)
		return
	}
	a.year = year
	a.recompute()
	a.ok("year %d", year)
}

// moveGrid applies a navigation key to a grid cursor.
func moveGrid(key string, cur gridState, rows int) (gridState, bool) {
	switch key {
	case "j", "down":
		cur.row++
	case "k", "up":
		cur.row--
	case "h", "left":
		cur.col--
	case "l", "right":
		cur.col++
	case "g", "home":
		cur.row = 0
	case "G", "end":
		cur.row = rows - 1
	case "0":
		cur.col = 0
	case "$":
		cur.col = 11
	default:
		return cur, false
	}
	cur.row = clamp(cur.row, 0, rows-1)
	cur.col = clamp(cur.col, 0, 11)
	return cur, true
}

func moveList(key string, cur, n int) int {
	switch key {
	case "j", "down":
		cur++
	case "k", "up":
		cur--
	case "g", "home":
		cur = 0
	case "G", "end":
		cur = n - 1
	}
	return clamp(cur, 0, n-1)
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		return a.updateKey(tea.KeyMsg{Type: tea.KeyUp})
	case tea.MouseButtonWheelDown:
		return a.updateKey(tea.KeyMsg{Type: tea.KeyDown})
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow the same width rules as RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}

// ─── Forms ──────────────────────────────────────────────────────

func (a *App) openForm(kind formKind) tea.Cmd {
	switch kind {
	case formSetup:
		a.setupVals = setupValuesFromDisk()
		a.form = NewSetupForm(&a.setupVals)
	case formNewForecast:
		form, err := newForecastForm(a.snap, a.year, &a.newForecast)
		if err != nil {
			a.fail(err)
			return nil
		}
		a.form = form
	default:
		return nil
	}
	a.formKind = kind
	if a.width > 0 {
		a.form = a.form.WithWidth(a.width).WithHeight(a.height)
	}
	return a.form.Init()
}

func (a App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		a.form = nil
		a.formKind = formNone
		return a, nil
	}

	form, cmd := a.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.form = f
	}

	switch a.form.State {
	case huh.StateCompleted:
		switch a.formKind {
		case formSetup:
			if err := saveSetup(a.setupVals); err != nil {
				a.fail(err)
			} else {
				a.ok("settings saved")
			}
		case formNewForecast:
			a.submitNewForecast()
		}
		a.form = nil
		a.formKind = formNone
		return a, nil
	case huh.StateAborted:
		a.form = nil
		a.formKind = formNone
		return a, nil
	}
	return a, cmd
}

// ─── View ───────────────────────────────────────────────────────

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.loadErr != nil {
		return a.viewLoadError()
	}
	if a.form != nil {
		return a.form.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  capex needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ capex"))
	b.WriteString(subtitleStyle.Render(" · Capital Expenditure"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" Reading store..."))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewLoadError() string {
	t := theme.Active
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Red).
		Foreground(t.TextPrimary).
		Padding(1, 3)
	body := "Could not read the store:\n\n" + a.loadErr.Error() + "\n\nPress q to quit."
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, style.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	sectionStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Cyan).
		Background(t.Surface).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	dimStyle := lipgloss.NewStyle().
		Foreground(t.TextDim).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"f a s r p", "Jump to tab"},
			{"Tab S-Tab", "Next / Previous tab"},
			{"[ ]", "Previous / Next year"},
			{"j k", "Move between rows"},
			{"h l", "Move between months"},
			{"g G", "First / Last row"},
		}},
		{"Editing", []struct{ key, desc string }{
			{"Enter", "Edit the selected cell"},
			{"x Del", "Clear the selected cell"},
			{"n", "New forecast (Forecasts tab)"},
			{"E", "Show / hide ended resources"},
			{"Esc", "Cancel"},
		}},
		{"General", []struct{ key, desc string }{
			{"R", "Reload from store"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Actual cells marked · have no allocation in the month before."))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, a.year, w)

	footer := components.RenderStatusBar(w, a.hints(), a.status)
	if a.editing {
		footer = a.renderEditLine(w) + "\n" + footer
	}

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(footer), minContentHeight)

	var content string
	switch a.activeTab {
	case components.TabForecasts:
		content = a.renderForecastsTab(cw, contentH)
	case components.TabActuals:
		content = a.renderActualsTab(cw, contentH)
	case components.TabSummary:
		content = a.renderSummaryTab(cw)
	case components.TabResources:
		content = a.renderResourcesTab(cw, contentH)
	case components.TabProjects:
		content = a.renderProjectsTab(cw, contentH)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) hints() string {
	switch {
	case a.editing:
		return "[enter]save  [esc]cancel  empty clears"
	case a.activeTab == components.TabForecasts:
		return "[enter]edit  [x]clear  [n]ew  [ ]year  [?]help  [q]uit"
	case a.activeTab == components.TabActuals:
		return "[enter]edit  [x]clear  [ ]year  [?]help  [q]uit"
	case a.activeTab == components.TabResources && a.showEnded:
		return "[E]hide ended  [ ]year  [?]help  [q]uit"
	case a.activeTab == components.TabResources:
		return "[E]show ended  [ ]year  [?]help  [q]uit"
	default:
		return "[ ]year  [?]help  [q]uit"
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color so
// gaps between cards keep the theme background.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
