package tracker

import (
	"fmt"

	"github.com/theirongolddev/capex/internal/model"
	"github.com/theirongolddev/capex/internal/pipeline"
	"github.com/theirongolddev/capex/internal/store"
	"github.com/theirongolddev/capex/internal/types"
)

// SetActual upserts or clears the actual for the pair in month m.
//
// A non-nil cost creates the record, or replaces the cost of the existing one
// keeping its id. The pair must have a positive forecast allocation in the
// month before m. A nil cost deletes the record if present; clearing is
// allowed even when the cell is no longer expected. The returned bool reports
// whether a record exists after the call.
func (t *Tracker) SetActual(resourceID, pvNumber string, m types.Month, cost *float64) (model.Actual, bool, error) {
	actuals, err := t.Actuals()
	if err != nil {
		return model.Actual{}, false, err
	}
	pair := model.Pair{ResourceID: resourceID, ProjectPVNumber: pvNumber}
	i := indexActual(actuals, pair, m)

	if cost == nil {
		if i < 0 {
			return model.Actual{}, false, nil
		}
		removed := actuals[i]
		actuals = append(actuals[:i], actuals[i+1:]...)
		if err := store.Save(t.store, store.KeyActuals, actuals); err != nil {
			return model.Actual{}, false, err
		}
		t.log.Debug().Str("actual", removed.ID).Str("month", m.String()).Msg("actual cleared")
		return model.Actual{}, false, nil
	}

	if err := model.CheckAmount("capital cost", *cost); err != nil {
		return model.Actual{}, false, err
	}
	forecasts, err := t.Forecasts()
	if err != nil {
		return model.Actual{}, false, err
	}
	if !pipeline.IsExpectedActual(forecasts, pair, m) {
		return model.Actual{}, false, fmt.Errorf("%s on %s in %s: %w", resourceID, pvNumber, m, ErrUnexpectedActual)
	}

	var a model.Actual
	if i >= 0 {
		actuals[i].CapitalCost = *cost
		a = actuals[i]
	} else {
		a = model.Actual{
			ID:              t.newID(),
			ResourceID:      resourceID,
			ProjectPVNumber: pvNumber,
			Month:           m,
			CapitalCost:     *cost,
		}
		actuals = append(actuals, a)
	}

	if err := store.Save(t.store, store.KeyActuals, actuals); err != nil {
		return model.Actual{}, false, err
	}
	t.log.Debug().Str("actual", a.ID).Str("month", m.String()).Float64("cost", a.CapitalCost).Msg("actual set")
	return a, true, nil
}

// SetActualInput applies user-entered text to an actual cell. Empty text
// clears the record; text that is not a number is rejected with
// ErrInvalidNumber.
func (t *Tracker) SetActualInput(resourceID, pvNumber string, m types.Month, raw string) (model.Actual, bool, error) {
	cost, ok, err := parseAmount(raw)
	if err != nil {
		return model.Actual{}, false, err
	}
	if !ok {
		return t.SetActual(resourceID, pvNumber, m, nil)
	}
	return t.SetActual(resourceID, pvNumber, m, &cost)
}

func indexActual(actuals []model.Actual, pair model.Pair, m types.Month) int {
	for i, a := range actuals {
		if a.Pair() == pair && a.Month.Equal(m) {
			return i
		}
	}
	return -1
}
