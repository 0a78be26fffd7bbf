package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/theirongolddev/capex/internal/config"
	"github.com/theirongolddev/capex/internal/model"
	"github.com/theirongolddev/capex/internal/pipeline"
	"github.com/theirongolddev/capex/internal/tui/theme"
)

// setupValuesFromDisk seeds the wizard from the saved config, falling back
// to defaults when the file is missing or unreadable.
func setupValuesFromDisk() SetupValues {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	return SetupValuesFrom(cfg)
}

// saveSetup writes the wizard's answers and applies the chosen theme.
func saveSetup(v SetupValues) error {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	if err := v.Apply(&cfg); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	theme.SetActive(cfg.Appearance.Theme)
	return nil
}

// errNothingToPick is reported when the new-forecast picker would be empty.
var errNothingToPick = errors.New("add an active resource and a project first")

// newForecastValues holds the new-forecast picker's answers.
type newForecastValues struct {
	ResourceID string
	PVNumber   string
}

// newForecastForm offers resources active in year and every project.
func newForecastForm(s model.Snapshot, year int, v *newForecastValues) (*huh.Form, error) {
	active := pipeline.ActiveResources(s.Resources, year)
	if len(active) == 0 || len(s.Projects) == 0 {
		return nil, errNothingToPick
	}

	resources := make([]huh.Option[string], len(active))
	for i, r := range active {
		resources[i] = huh.NewOption(fmt.Sprintf("%s (%s)", r.FullName, r.ID), r.ID)
	}
	projects := make([]huh.Option[string], len(s.Projects))
	for i, p := range s.Projects {
		projects[i] = huh.NewOption(fmt.Sprintf("%s (%s)", p.Name, p.PVNumber), p.PVNumber)
	}

	*v = newForecastValues{ResourceID: active[0].ID, PVNumber: s.Projects[0].PVNumber}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(fmt.Sprintf("Resource (active in %d)", year)).
				Options(resources...).
				Value(&v.ResourceID),
			huh.NewSelect[string]().
				Title("Project").
				Options(projects...).
				Value(&v.PVNumber),
		),
	).WithTheme(formTheme()), nil
}

func (a *App) submitNewForecast() {
	f, err := a.tracker.AddForecastForYear(a.newForecast.ResourceID, a.newForecast.PVNumber, a.year)
	if err != nil {
		a.fail(err)
		return
	}
	a.reload()
	for i, row := range a.forecast {
		if row.ForecastID == f.ID {
			a.forecastCur.row = i
		}
	}
	a.ok("forecast added for %s on %s", a.snap.ResourceName(f.ResourceID), a.snap.ProjectName(f.ProjectPVNumber))
}
