package pipeline

import (
	"github.com/shopspring/decimal"
	"github.com/theirongolddev/capex/internal/model"
	"github.com/theirongolddev/capex/internal/types"
)

var hundred = decimal.NewFromInt(100)

// MonthlyCost returns the cost of committing pct percent of a resource billed
// at rate per month. pct is expected to be clamped to [0,100] already.
func MonthlyCost(rate, pct float64) float64 {
	return rate * pct / 100
}

// monthlyCostDecimal is MonthlyCost in exact decimal arithmetic, used when
// summing many months.
func monthlyCostDecimal(rate, pct float64) decimal.Decimal {
	return decimal.NewFromFloat(rate).Mul(decimal.NewFromFloat(pct)).Div(hundred)
}

// ForecastMonthCost prices the forecast's allocation for month m at its
// resource's rate. A missing resource or allocation costs zero.
func ForecastMonthCost(s model.Snapshot, f model.Forecast, m types.Month) float64 {
	r, ok := s.Resource(f.ResourceID)
	if !ok {
		return 0
	}
	pct, ok := f.Allocation(m)
	if !ok {
		return 0
	}
	return MonthlyCost(r.Rate, pct)
}

// forecastYearCost sums a forecast's cost over the months of year at rate.
func forecastYearCost(rate float64, f model.Forecast, year int) decimal.Decimal {
	total := decimal.Zero
	for m, pct := range f.Allocations {
		if !m.InYear(year) {
			continue
		}
		total = total.Add(monthlyCostDecimal(rate, pct))
	}
	return total
}
