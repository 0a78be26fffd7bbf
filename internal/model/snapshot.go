package model

import "github.com/theirongolddev/capex/internal/types"

// UnknownLabel is shown for references to deleted resources or projects.
const UnknownLabel = "Unknown"

// Snapshot is the full tracker state read at one instant. It is also the
// whole-store export document.
type Snapshot struct {
	Forecasts []Forecast `json:"forecasts"`
	Resources []Resource `json:"resources"`
	Projects  []Project  `json:"projects"`
	Actuals   []Actual   `json:"actuals"`
}

// Resource looks up a resource by id.
func (s Snapshot) Resource(id string) (Resource, bool) {
	for _, r := range s.Resources {
		if r.ID == id {
			return r, true
		}
	}
	return Resource{}, false
}

// Project looks up a project by PV number.
func (s Snapshot) Project(pv string) (Project, bool) {
	for _, p := range s.Projects {
		if p.PVNumber == pv {
			return p, true
		}
	}
	return Project{}, false
}

// ResourceName returns the resource's full name or UnknownLabel.
func (s Snapshot) ResourceName(id string) string {
	if r, ok := s.Resource(id); ok {
		return r.FullName
	}
	return UnknownLabel
}

// ProjectName returns the project's name or UnknownLabel.
func (s Snapshot) ProjectName(pv string) string {
	if p, ok := s.Project(pv); ok {
		return p.Name
	}
	return UnknownLabel
}

// ForecastFor returns the forecast bound to the pair, if any.
func (s Snapshot) ForecastFor(pair Pair) (Forecast, bool) {
	return FindForecast(s.Forecasts, pair)
}

// ActualFor returns the actual recorded for the pair in month m, if any.
func (s Snapshot) ActualFor(pair Pair, m types.Month) (Actual, bool) {
	for _, a := range s.Actuals {
		if a.Pair() == pair && a.Month.Equal(m) {
			return a, true
		}
	}
	return Actual{}, false
}

// FindForecast returns the first forecast bound to pair.
func FindForecast(forecasts []Forecast, pair Pair) (Forecast, bool) {
	for _, f := range forecasts {
		if f.Pair() == pair {
			return f, true
		}
	}
	return Forecast{}, false
}
