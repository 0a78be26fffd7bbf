package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/theirongolddev/capex/internal/config"
	"github.com/theirongolddev/capex/internal/model"
	"github.com/theirongolddev/capex/internal/tui/theme"
)

// ResourceFields holds the resource form's text inputs.
type ResourceFields struct {
	ID        string
	FullName  string
	Rate      string
	Location  string
	Company   string
	StartDate string
	EndDate   string
}

// ResourceFieldsFrom seeds the form from an existing resource.
func ResourceFieldsFrom(r model.Resource) ResourceFields {
	return ResourceFields{
		ID:        r.ID,
		FullName:  r.FullName,
		Rate:      strconv.FormatFloat(r.Rate, 'f', -1, 64),
		Location:  string(r.Location),
		Company:   r.Company,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}
}

// Draft converts the entered text to a draft. Only the rate is parsed here;
// everything else is validated by the draft's Build.
func (f ResourceFields) Draft() (model.ResourceDraft, error) {
	rate, err := optionalAmount(f.Rate)
	if err != nil {
		return model.ResourceDraft{}, fmt.Errorf("rate: %w", err)
	}
	return model.ResourceDraft{
		ID:        f.ID,
		FullName:  f.FullName,
		Rate:      rate,
		Location:  f.Location,
		Company:   f.Company,
		StartDate: f.StartDate,
		EndDate:   f.EndDate,
	}, nil
}

// NewResourceForm builds the add/edit resource form. When editing the id is
// fixed and not shown as an input.
func NewResourceForm(f *ResourceFields, editing bool) *huh.Form {
	if f.Location == "" {
		f.Location = string(model.Onshore)
	}

	var fields []huh.Field
	if editing {
		fields = append(fields, huh.NewNote().Title("Resource "+f.ID))
	} else {
		fields = append(fields, huh.NewInput().
			Title("ID").
			Description("Unique, cannot be changed later").
			Value(&f.ID).
			Validate(required("id")))
	}
	fields = append(fields,
		huh.NewInput().Title("Full name").Value(&f.FullName).Validate(required("full name")),
		huh.NewInput().Title("Monthly rate").Value(&f.Rate).Validate(requiredAmount),
		huh.NewSelect[string]().
			Title("Location").
			Options(huh.NewOptions(string(model.Onshore), string(model.Offshore))...).
			Value(&f.Location),
		huh.NewInput().Title("Company").Value(&f.Company).Validate(required("company")),
		huh.NewInput().Title("Start date").Description("YYYY-MM-DD, optional").Value(&f.StartDate).Validate(optionalDate),
		huh.NewInput().Title("End date").Description("YYYY-MM-DD, optional").Value(&f.EndDate).Validate(optionalDate),
	)

	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(formTheme())
}

// ProjectFields holds the project form's text inputs.
type ProjectFields struct {
	PVNumber      string
	Name          string
	OracleAccount string
	Budget        string
}

// ProjectFieldsFrom seeds the form from an existing project.
func ProjectFieldsFrom(p model.Project) ProjectFields {
	f := ProjectFields{
		PVNumber:      p.PVNumber,
		Name:          p.Name,
		OracleAccount: p.OracleAccount,
	}
	if p.Budget != nil {
		f.Budget = strconv.FormatFloat(*p.Budget, 'f', -1, 64)
	}
	return f
}

// Draft converts the entered text to a draft. An empty budget means none.
func (f ProjectFields) Draft() (model.ProjectDraft, error) {
	budget, err := optionalAmount(f.Budget)
	if err != nil {
		return model.ProjectDraft{}, fmt.Errorf("budget: %w", err)
	}
	return model.ProjectDraft{
		PVNumber:      f.PVNumber,
		Name:          f.Name,
		OracleAccount: f.OracleAccount,
		Budget:        budget,
	}, nil
}

// NewProjectForm builds the add/edit project form.
func NewProjectForm(f *ProjectFields, editing bool) *huh.Form {
	var fields []huh.Field
	if editing {
		fields = append(fields, huh.NewNote().Title("Project "+f.PVNumber))
	} else {
		fields = append(fields, huh.NewInput().
			Title("PV number").
			Description("Unique, cannot be changed later").
			Value(&f.PVNumber).
			Validate(required("pv number")))
	}
	fields = append(fields,
		huh.NewInput().Title("Name").Value(&f.Name).Validate(required("name")),
		huh.NewInput().Title("Oracle account").Value(&f.OracleAccount).Validate(required("oracle account")),
		huh.NewInput().Title("Budget").Description("Leave empty for no budget").Value(&f.Budget).Validate(func(s string) error {
			_, err := optionalAmount(s)
			return err
		}),
	)

	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(formTheme())
}

// SetupValues holds the setup wizard's answers.
type SetupValues struct {
	DBPath      string
	DefaultYear string
	Theme       string
	LogLevel    string
}

// SetupValuesFrom seeds the wizard from the current config.
func SetupValuesFrom(cfg config.Config) SetupValues {
	v := SetupValues{
		DBPath:   cfg.General.DBPath,
		Theme:    cfg.Appearance.Theme,
		LogLevel: cfg.Log.Level,
	}
	if cfg.General.DefaultYear > 0 {
		v.DefaultYear = strconv.Itoa(cfg.General.DefaultYear)
	}
	return v
}

// Apply writes the answers into cfg.
func (v SetupValues) Apply(cfg *config.Config) error {
	cfg.General.DBPath = strings.TrimSpace(v.DBPath)
	cfg.General.DefaultYear = 0
	if s := strings.TrimSpace(v.DefaultYear); s != "" {
		year, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("default year %q: %w", s, model.ErrInvalidNumber)
		}
		cfg.General.DefaultYear = year
	}
	cfg.Appearance.Theme = v.Theme
	cfg.Log.Level = v.LogLevel
	return nil
}

// NewSetupForm builds the first-run setup wizard.
func NewSetupForm(v *SetupValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to capex").
				Description("Track capital expenditure: resources, projects,\nmonthly forecasts and actuals.\n\nPress Enter to begin."),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Store location").
				Description("Leave empty for "+config.DBPath(config.DefaultConfig())).
				Value(&v.DBPath),
			huh.NewInput().
				Title("Default year").
				Description("Used until a year is selected. Empty means the current year.").
				Value(&v.DefaultYear).
				Validate(optionalYear),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&v.Theme),
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("error", "warn", "info", "debug")...).
				Value(&v.LogLevel),
		),
	).WithTheme(formTheme())
}

func formTheme() *huh.Theme {
	switch theme.Active.Name {
	case theme.CatppuccinMocha.Name:
		return huh.ThemeCatppuccin()
	case theme.Terminal.Name:
		return huh.ThemeBase16()
	default:
		return huh.ThemeCharm()
	}
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func requiredAmount(s string) error {
	v, err := optionalAmount(s)
	if err != nil {
		return err
	}
	if v == nil {
		return errors.New("rate is required")
	}
	return nil
}

// optionalAmount parses a non-negative amount. Empty input yields nil.
func optionalAmount(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, model.ErrInvalidNumber
	}
	if err := model.CheckAmount("amount", v); err != nil {
		return nil, err
	}
	return &v, nil
}

func optionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(model.DateLayout, s); err != nil {
		return model.ErrInvalidDate
	}
	return nil
}

func optionalYear(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	year, err := strconv.Atoi(s)
	if err != nil || year < 1 || year > 9999 {
		return errors.New("year must be a number between 1 and 9999")
	}
	return nil
}
