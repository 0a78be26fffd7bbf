package pipeline

import (
	"github.com/theirongolddev/capex/internal/model"
	"github.com/theirongolddev/capex/internal/types"
)

// PreviousMonth returns the month key before key, e.g. "2025-01" -> "2024-12".
func PreviousMonth(key string) (string, error) {
	m, err := types.ParseMonth(key)
	if err != nil {
		return "", err
	}
	return m.Prev().String(), nil
}

// NextMonth returns the month key after key.
func NextMonth(key string) (string, error) {
	m, err := types.ParseMonth(key)
	if err != nil {
		return "", err
	}
	return m.Next().String(), nil
}

// ForecastMonthFor returns the forecast month an actual recorded in
// actualMonth fulfils.
func ForecastMonthFor(actualMonth types.Month) types.Month {
	return actualMonth.Prev()
}

// HasExpectedAllocation reports whether a forecast exists for the pair and
// holds an allocation strictly greater than zero for forecastMonth.
func HasExpectedAllocation(forecasts []model.Forecast, resourceID, pvNumber string, forecastMonth types.Month) bool {
	f, ok := model.FindForecast(forecasts, model.Pair{ResourceID: resourceID, ProjectPVNumber: pvNumber})
	if !ok {
		return false
	}
	pct, ok := f.Allocation(forecastMonth)
	return ok && pct > 0
}

// IsExpectedActual reports whether an actual for the pair in actualMonth is
// backed by a positive forecast allocation in the month before.
func IsExpectedActual(forecasts []model.Forecast, pair model.Pair, actualMonth types.Month) bool {
	return HasExpectedAllocation(forecasts, pair.ResourceID, pair.ProjectPVNumber, ForecastMonthFor(actualMonth))
}

// ReconciliationPairs returns the distinct resource/project pairs that have a
// forecast, in first-seen order. Pairs that only have actuals never appear.
func ReconciliationPairs(forecasts []model.Forecast) []model.Pair {
	seen := make(map[model.Pair]struct{}, len(forecasts))
	pairs := make([]model.Pair, 0, len(forecasts))
	for _, f := range forecasts {
		p := f.Pair()
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		pairs = append(pairs, p)
	}
	return pairs
}

// ActualCell is one month of an actuals row.
type ActualCell struct {
	Month         types.Month
	ForecastMonth types.Month
	Expected      bool    // editable; false renders as blocked
	Allocation    float64 // forecast percentage for ForecastMonth
	ForecastCost  float64 // cost of that allocation
	Actual        *float64
	ActualID      string
}

// ActualRow is the twelve-month actuals timeline of one pair.
type ActualRow struct {
	Pair         model.Pair
	ResourceName string
	ProjectName  string
	Cells        []ActualCell
	Total        float64 // sum of recorded actuals in the row
}

// ActualGrid aligns actuals for year against the prior-month forecasts, one
// row per forecast pair.
func ActualGrid(s model.Snapshot, year int) []ActualRow {
	months := types.MonthsOfYear(year)
	pairs := ReconciliationPairs(s.Forecasts)

	rows := make([]ActualRow, 0, len(pairs))
	for _, pair := range pairs {
		f, _ := s.ForecastFor(pair)
		row := ActualRow{
			Pair:         pair,
			ResourceName: s.ResourceName(pair.ResourceID),
			ProjectName:  s.ProjectName(pair.ProjectPVNumber),
			Cells:        make([]ActualCell, len(months)),
		}

		var total float64
		for i, m := range months {
			fm := ForecastMonthFor(m)
			pct, _ := f.Allocation(fm)
			cell := ActualCell{
				Month:         m,
				ForecastMonth: fm,
				Expected:      pct > 0,
				Allocation:    pct,
				ForecastCost:  ForecastMonthCost(s, f, fm),
			}
			if a, ok := s.ActualFor(pair, m); ok {
				cost := a.CapitalCost
				cell.Actual = &cost
				cell.ActualID = a.ID
				total += cost
			}
			row.Cells[i] = cell
		}
		row.Total = total
		rows = append(rows, row)
	}
	return rows
}
