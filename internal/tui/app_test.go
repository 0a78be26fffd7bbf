package tui

import (
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theirongolddev/capex/internal/model"
	"github.com/theirongolddev/capex/internal/store"
	"github.com/theirongolddev/capex/internal/tracker"
	"github.com/theirongolddev/capex/internal/tui/components"
	"github.com/theirongolddev/capex/internal/types"
)

func ptr(v float64) *float64 { return &v }

func newTestTracker(t *testing.T) *tracker.Tracker {
	t.Helper()
	n := 0
	return tracker.New(store.NewMemory(), zerolog.Nop(),
		tracker.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
		tracker.WithClock(func() time.Time {
			return time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
		}),
	)
}

// seeded returns a tracker with R1 (rate 100) on P1 at 50% in March 2025.
func seeded(t *testing.T) *tracker.Tracker {
	t.Helper()
	tr := newTestTracker(t)
	_, err := tr.AddResource(model.ResourceDraft{ID: "R1", FullName: "Ada Lovelace", Rate: ptr(100), Company: "Acme"})
	require.NoError(t, err)
	_, err = tr.AddProject(model.ProjectDraft{PVNumber: "P1", Name: "Platform", OracleAccount: "OA-1", Budget: ptr(40)})
	require.NoError(t, err)
	f, err := tr.AddForecast("R1", "P1")
	require.NoError(t, err)
	_, err = tr.SetAllocation(f.ID, types.MustParseMonth("2025-03"), 50)
	require.NoError(t, err)
	return tr
}

func loadedApp(t *testing.T, tr *tracker.Tracker) App {
	t.Helper()
	a := NewApp(tr, zerolog.Nop(), Options{})
	a = update(a, loadDataCmd(tr, 0)())
	return update(a, tea.WindowSizeMsg{Width: 160, Height: 40})
}

func update(a App, msg tea.Msg) App {
	m, _ := a.Update(msg)
	return m.(App)
}

func press(a App, keys ...string) App {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		a = update(a, msg)
	}
	return a
}

// edit opens the selected cell, replaces its text with value and saves.
func edit(t *testing.T, a App, value string) App {
	t.Helper()
	a = press(a, "enter")
	require.True(t, a.editing, "cell should open for editing")
	a.input.SetValue(value)
	return press(a, "enter")
}

func allocation(t *testing.T, tr *tracker.Tracker, m string) (float64, bool) {
	t.Helper()
	fs, err := tr.Forecasts()
	require.NoError(t, err)
	require.Len(t, fs, 1)
	return fs[0].Allocation(types.MustParseMonth(m))
}

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := range components.Tabs {
		a := App{activeTab: active}
		pos := 0
		for i, tab := range components.Tabs {
			w := components.TabVisualWidth(tab, i == active)
			assert.Equal(t, i, a.tabAtX(pos+w/2), "active=%d tab=%d", active, i)
			pos += w + 1
		}
		assert.Equal(t, -1, a.tabAtX(pos+50))
	}
}

func TestLoadBuildsViews(t *testing.T) {
	a := loadedApp(t, seeded(t))

	assert.True(t, a.loaded)
	assert.Equal(t, 2025, a.year)
	require.Len(t, a.forecast, 1)
	require.Len(t, a.actual, 1)
	assert.InDelta(t, 50.0, a.stats.TotalForecast, 1e-9)
	assert.Equal(t, 1, a.stats.OverBudget)
}

func TestEditAllocation(t *testing.T) {
	tr := seeded(t)
	a := loadedApp(t, tr)

	a = press(a, "l", "l")
	assert.Equal(t, 2, a.forecastCur.col)

	a = press(a, "enter")
	require.True(t, a.editing)
	assert.Equal(t, "50", a.input.Value(), "input starts from the stored value")
	a.input.SetValue("75")
	a = press(a, "enter")

	assert.False(t, a.editing)
	assert.False(t, a.status.Error, a.status.Text)
	pct, ok := allocation(t, tr, "2025-03")
	require.True(t, ok)
	assert.InDelta(t, 75.0, pct, 1e-9)
	assert.InDelta(t, 75.0, a.stats.TotalForecast, 1e-9, "views recompute after a write")
}

func TestEditAllocationClamps(t *testing.T) {
	tr := seeded(t)
	a := loadedApp(t, tr)

	a = edit(t, press(a, "l"), "150")
	pct, ok := allocation(t, tr, "2025-02")
	require.True(t, ok)
	assert.InDelta(t, 100.0, pct, 1e-9)
}

func TestEditAllocationInvalidKeepsValue(t *testing.T) {
	tr := seeded(t)
	a := loadedApp(t, tr)

	a = edit(t, press(a, "l", "l"), "abc")

	assert.True(t, a.status.Error)
	assert.Contains(t, a.status.Text, model.ErrInvalidNumber.Error())
	pct, ok := allocation(t, tr, "2025-03")
	require.True(t, ok)
	assert.InDelta(t, 50.0, pct, 1e-9)
}

func TestEditEscapeCancels(t *testing.T) {
	tr := seeded(t)
	a := loadedApp(t, tr)

	a = press(a, "l", "l", "enter")
	a.input.SetValue("10")
	a = press(a, "esc")

	assert.False(t, a.editing)
	pct, _ := allocation(t, tr, "2025-03")
	assert.InDelta(t, 50.0, pct, 1e-9)
}

func TestEmptyInputClearsAllocation(t *testing.T) {
	tr := seeded(t)
	a := loadedApp(t, tr)

	a = edit(t, press(a, "l", "l"), "")
	_, ok := allocation(t, tr, "2025-03")
	assert.False(t, ok)
	assert.False(t, a.status.Error)
}

func TestClearKeyRemovesAllocation(t *testing.T) {
	tr := seeded(t)
	a := loadedApp(t, tr)

	a = press(a, "l", "l", "x")
	_, ok := allocation(t, tr, "2025-03")
	assert.False(t, ok)
	assert.Contains(t, a.status.Text, "cleared")
}

func TestActualBlockedCell(t *testing.T) {
	tr := seeded(t)
	a := loadedApp(t, tr)

	a = press(a, "a")
	require.Equal(t, components.TabActuals, a.activeTab)

	// January fulfils December 2024, which has no allocation.
	a = press(a, "enter")
	assert.False(t, a.editing)
	assert.True(t, a.status.Error)
	assert.Contains(t, a.status.Text, "blocked")

	acts, err := tr.Actuals()
	require.NoError(t, err)
	assert.Empty(t, acts)
}

func TestActualExpectedCell(t *testing.T) {
	tr := seeded(t)
	a := loadedApp(t, tr)

	// April fulfils the 50% March allocation.
	a = edit(t, press(a, "a", "l", "l", "l"), "40")
	assert.False(t, a.status.Error, a.status.Text)

	acts, err := tr.Actuals()
	require.NoError(t, err)
	require.Len(t, acts, 1)
	assert.Equal(t, types.MustParseMonth("2025-04"), acts[0].Month)
	assert.InDelta(t, 40.0, acts[0].CapitalCost, 1e-9)
	require.NotNil(t, a.actual[0].Cells[3].Actual)

	// Clearing removes it again.
	a = press(a, "x")
	acts, err = tr.Actuals()
	require.NoError(t, err)
	assert.Empty(t, acts)
	assert.Nil(t, a.actual[0].Cells[3].Actual)
}

func TestStaleActualCanBeCleared(t *testing.T) {
	tr := seeded(t)
	_, _, err := tr.SetActual("R1", "P1", types.MustParseMonth("2025-04"), ptr(40))
	require.NoError(t, err)
	fs, err := tr.Forecasts()
	require.NoError(t, err)
	_, err = tr.ClearAllocation(fs[0].ID, types.MustParseMonth("2025-03"))
	require.NoError(t, err)

	a := loadedApp(t, tr)
	a = press(a, "a", "l", "l", "l")
	cell := a.actual[0].Cells[3]
	require.False(t, cell.Expected)
	require.NotNil(t, cell.Actual)

	a = press(a, "x")
	acts, err := tr.Actuals()
	require.NoError(t, err)
	assert.Empty(t, acts)
	assert.False(t, a.status.Error)
}

func TestYearSwitchPersists(t *testing.T) {
	tr := seeded(t)
	a := loadedApp(t, tr)

	a = press(a, "]")
	assert.Equal(t, 2026, a.year)
	year, err := tr.SelectedYear()
	require.NoError(t, err)
	assert.Equal(t, 2026, year)
	assert.InDelta(t, 0.0, a.stats.TotalForecast, 1e-9)
	assert.False(t, a.forecast[0].Cells[2].Set)

	a = press(a, "[", "[")
	assert.Equal(t, 2024, a.year)
}

func TestYearOverrideIsNotPersisted(t *testing.T) {
	tr := seeded(t)
	a := NewApp(tr, zerolog.Nop(), Options{Year: 2030})
	a = update(a, loadDataCmd(tr, a.yearOverride)())
	assert.Equal(t, 2030, a.year)

	year, err := tr.SelectedYear()
	require.NoError(t, err)
	assert.Equal(t, 2025, year)
}

func TestNewForecastNeedsData(t *testing.T) {
	a := loadedApp(t, newTestTracker(t))

	a = press(a, "n")
	assert.Nil(t, a.form)
	assert.True(t, a.status.Error)
	assert.Equal(t, errNothingToPick.Error(), a.status.Text)
}

func TestNewForecastFormOffersActiveResources(t *testing.T) {
	tr := seeded(t)
	_, err := tr.AddResource(model.ResourceDraft{ID: "R2", FullName: "Old Hand", Rate: ptr(10), Company: "Acme", EndDate: "2024-06-01"})
	require.NoError(t, err)
	a := loadedApp(t, tr)

	var v newForecastValues
	form, err := newForecastForm(a.snap, a.year, &v)
	require.NoError(t, err)
	require.NotNil(t, form)
	assert.Equal(t, "R1", v.ResourceID, "defaults to the first active resource")
	assert.Equal(t, "P1", v.PVNumber)
}

func TestSubmitNewForecast(t *testing.T) {
	tr := seeded(t)
	_, err := tr.AddProject(model.ProjectDraft{PVNumber: "P2", Name: "Data", OracleAccount: "OA-2"})
	require.NoError(t, err)
	a := loadedApp(t, tr)

	a.newForecast = newForecastValues{ResourceID: "R1", PVNumber: "P2"}
	a.submitNewForecast()
	require.False(t, a.status.Error, a.status.Text)
	require.Len(t, a.forecast, 2)
	assert.Equal(t, "P2", a.forecast[a.forecastCur.row].Pair.ProjectPVNumber)

	// The pair is now taken.
	a.submitNewForecast()
	assert.True(t, a.status.Error)
	assert.Len(t, a.forecast, 2)
}

func TestTabKeys(t *testing.T) {
	a := loadedApp(t, seeded(t))

	for key, want := range map[string]int{
		"f": components.TabForecasts,
		"a": components.TabActuals,
		"s": components.TabSummary,
		"r": components.TabResources,
		"p": components.TabProjects,
	} {
		a = press(a, key)
		assert.Equal(t, want, a.activeTab, key)
	}

	a = press(a, "tab")
	assert.Equal(t, components.TabForecasts, a.activeTab, "tab wraps around")
}

func TestViewRendersEveryTab(t *testing.T) {
	a := loadedApp(t, seeded(t))

	for _, key := range []string{"f", "a", "s", "r", "p"} {
		a = press(a, key)
		out := a.View()
		assert.Contains(t, out, "2025", key)
	}

	a = press(a, "f")
	assert.Contains(t, a.View(), "Ada Lovelace")
	assert.Contains(t, a.View(), "50%")

	a = press(a, "p")
	assert.Contains(t, a.View(), "OVER")
}

func TestHelpToggle(t *testing.T) {
	a := loadedApp(t, seeded(t))

	a = press(a, "?")
	assert.True(t, a.showHelp)
	assert.Contains(t, a.View(), "Keyboard Shortcuts")

	a = press(a, "j")
	assert.False(t, a.showHelp, "any key closes help")
	assert.Equal(t, 0, a.forecastCur.row)
}

func TestResourcesTabHidesEnded(t *testing.T) {
	tr := seeded(t)
	_, err := tr.AddResource(model.ResourceDraft{ID: "R2", FullName: "Old Hand", Rate: ptr(10), Company: "Acme", EndDate: "2024-06-01"})
	require.NoError(t, err)
	a := loadedApp(t, tr)

	a = press(a, "r")
	require.Len(t, a.resources, 1)
	assert.Contains(t, a.View(), "Ada Lovelace")
	assert.NotContains(t, a.View(), "Old Hand")

	a = press(a, "E")
	require.Len(t, a.resources, 2)
	assert.Contains(t, a.View(), "Old Hand")
	assert.False(t, a.resources[1].Active)

	a = press(a, "j", "E")
	assert.Len(t, a.resources, 1)
	assert.Equal(t, 0, a.resourceCur, "cursor stays on a listed row")
}

func TestTooNarrow(t *testing.T) {
	a := loadedApp(t, seeded(t))
	a = update(a, tea.WindowSizeMsg{Width: 60, Height: 20})
	assert.Contains(t, a.View(), "Terminal too narrow")
}

func TestKeysIgnoredUntilLoaded(t *testing.T) {
	a := NewApp(seeded(t), zerolog.Nop(), Options{})
	a = press(a, "a")
	assert.Equal(t, components.TabForecasts, a.activeTab)
}
