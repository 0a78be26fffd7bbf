package tracker

import (
	"fmt"
	"math"

	"github.com/theirongolddev/capex/internal/model"
	"github.com/theirongolddev/capex/internal/pipeline"
	"github.com/theirongolddev/capex/internal/store"
	"github.com/theirongolddev/capex/internal/types"
)

// AddForecast creates an empty forecast for the pair. The resource must exist
// and be active in the selected year, the project must exist, and the pair
// must not already have a forecast.
func (t *Tracker) AddForecast(resourceID, pvNumber string) (model.Forecast, error) {
	year, err := t.SelectedYear()
	if err != nil {
		return model.Forecast{}, err
	}
	return t.AddForecastForYear(resourceID, pvNumber, year)
}

// AddForecastForYear is AddForecast with the activity check made against
// year instead of the selected year.
func (t *Tracker) AddForecastForYear(resourceID, pvNumber string, year int) (model.Forecast, error) {
	s, err := t.Snapshot()
	if err != nil {
		return model.Forecast{}, err
	}

	r, ok := s.Resource(resourceID)
	if !ok {
		return model.Forecast{}, fmt.Errorf("%w: %q", ErrUnknownResource, resourceID)
	}
	if _, ok := s.Project(pvNumber); !ok {
		return model.Forecast{}, fmt.Errorf("%w: %q", ErrUnknownProject, pvNumber)
	}
	if !pipeline.IsActive(r, year) {
		return model.Forecast{}, fmt.Errorf("resource %q in %d: %w", resourceID, year, ErrInactiveResource)
	}
	pair := model.Pair{ResourceID: resourceID, ProjectPVNumber: pvNumber}
	if _, ok := s.ForecastFor(pair); ok {
		return model.Forecast{}, fmt.Errorf("forecast for %s on %s: %w", resourceID, pvNumber, ErrDuplicateKey)
	}

	f := model.Forecast{
		ID:              t.newID(),
		ResourceID:      resourceID,
		ProjectPVNumber: pvNumber,
		Allocations:     model.Allocations{},
	}
	if err := store.Save(t.store, store.KeyForecasts, append(s.Forecasts, f)); err != nil {
		return model.Forecast{}, err
	}
	t.log.Debug().Str("forecast", f.ID).Str("resource", resourceID).Str("project", pvNumber).Msg("forecast added")
	return f, nil
}

// SetAllocation stores pct for month m on the forecast, clamped to [0,100].
func (t *Tracker) SetAllocation(forecastID string, m types.Month, pct float64) (model.Forecast, error) {
	if math.IsNaN(pct) {
		return model.Forecast{}, fmt.Errorf("%w: allocation", ErrInvalidNumber)
	}
	return t.updateForecast(forecastID, func(f model.Forecast) model.Forecast {
		return f.WithAllocation(m, pct)
	})
}

// ClearAllocation removes the allocation for month m from the forecast.
func (t *Tracker) ClearAllocation(forecastID string, m types.Month) (model.Forecast, error) {
	return t.updateForecast(forecastID, func(f model.Forecast) model.Forecast {
		return f.WithoutAllocation(m)
	})
}

// SetAllocationInput applies user-entered text to a forecast month. Empty
// text clears the month; text that is not a number is rejected with
// ErrInvalidNumber and the previous value is kept.
func (t *Tracker) SetAllocationInput(forecastID string, m types.Month, raw string) (model.Forecast, error) {
	pct, ok, err := parseAmount(raw)
	if err != nil {
		return model.Forecast{}, err
	}
	if !ok {
		return t.ClearAllocation(forecastID, m)
	}
	return t.SetAllocation(forecastID, m, pct)
}

// DeleteForecast removes the forecast. Actuals for its pair are kept.
func (t *Tracker) DeleteForecast(id string) error {
	forecasts, err := t.Forecasts()
	if err != nil {
		return err
	}
	i := indexForecast(forecasts, id)
	if i < 0 {
		return fmt.Errorf("forecast %q: %w", id, ErrNotFound)
	}

	forecasts = append(forecasts[:i], forecasts[i+1:]...)
	if err := store.Save(t.store, store.KeyForecasts, forecasts); err != nil {
		return err
	}
	t.log.Debug().Str("forecast", id).Msg("forecast deleted")
	return nil
}

func (t *Tracker) updateForecast(id string, fn func(model.Forecast) model.Forecast) (model.Forecast, error) {
	forecasts, err := t.Forecasts()
	if err != nil {
		return model.Forecast{}, err
	}
	i := indexForecast(forecasts, id)
	if i < 0 {
		return model.Forecast{}, fmt.Errorf("forecast %q: %w", id, ErrNotFound)
	}

	forecasts[i] = fn(forecasts[i])
	if err := store.Save(t.store, store.KeyForecasts, forecasts); err != nil {
		return model.Forecast{}, err
	}
	t.log.Debug().Str("forecast", id).Int("months", len(forecasts[i].Allocations)).Msg("forecast updated")
	return forecasts[i], nil
}

func indexForecast(forecasts []model.Forecast, id string) int {
	for i, f := range forecasts {
		if f.ID == id {
			return i
		}
	}
	return -1
}
