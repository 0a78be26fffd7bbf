// Package pipeline computes capex costs: monthly cost from allocation and rate,
// forecast/actual reconciliation, and per-resource and per-project rollups.
// Every function is a pure computation over a model.Snapshot.
package pipeline

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/theirongolddev/capex/internal/model"
	"github.com/theirongolddev/capex/internal/types"
)

// IsActive reports whether the resource takes part in year: it has no end
// date, or its end date falls in year or later.
func IsActive(r model.Resource, year int) bool {
	endYear, ok := r.EndYear()
	if !ok {
		return true
	}
	return endYear >= year
}

// ActiveResources returns the resources active in year, in store order.
func ActiveResources(resources []model.Resource, year int) []model.Resource {
	var result []model.Resource
	for _, r := range resources {
		if IsActive(r, year) {
			result = append(result, r)
		}
	}
	return result
}

// ResourceListRow is one row of a resource list.
type ResourceListRow struct {
	Resource model.Resource
	Active   bool
	Total    float64 // zero unless Active
}

// ResourceList returns the resources to show for year in store order with
// their forecast totals. Resources not active in year are left out unless
// includeEnded is set, and never carry a total.
func ResourceList(s model.Snapshot, year int, includeEnded bool) []ResourceListRow {
	rows := make([]ResourceListRow, 0, len(s.Resources))
	for _, r := range s.Resources {
		row := ResourceListRow{Resource: r, Active: IsActive(r, year)}
		switch {
		case row.Active:
			row.Total = TotalByResource(s, r.ID, year)
		case !includeEnded:
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// TotalByResource sums the forecast cost of every forecast of resourceID over
// the months of year. A resource that no longer exists totals zero.
func TotalByResource(s model.Snapshot, resourceID string, year int) float64 {
	return totalByResource(s, resourceID, year).InexactFloat64()
}

func totalByResource(s model.Snapshot, resourceID string, year int) decimal.Decimal {
	r, ok := s.Resource(resourceID)
	if !ok {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, f := range s.Forecasts {
		if f.ResourceID != resourceID {
			continue
		}
		total = total.Add(forecastYearCost(r.Rate, f, year))
	}
	return total
}

// TotalByProject sums the forecast cost of every forecast on pvNumber over the
// months of year, each priced at its own resource's rate. Resource activity
// does not matter here; forecasts of deleted resources contribute zero.
func TotalByProject(s model.Snapshot, pvNumber string, year int) float64 {
	return totalByProject(s, pvNumber, year).InexactFloat64()
}

func totalByProject(s model.Snapshot, pvNumber string, year int) decimal.Decimal {
	total := decimal.Zero
	for _, f := range s.Forecasts {
		if f.ProjectPVNumber != pvNumber {
			continue
		}
		r, ok := s.Resource(f.ResourceID)
		if !ok {
			continue
		}
		total = total.Add(forecastYearCost(r.Rate, f, year))
	}
	return total
}

// IsOverBudget reports whether the project defines a budget and its forecast
// total for year exceeds it. A project without a budget is never over.
func IsOverBudget(s model.Snapshot, pvNumber string, year int) bool {
	p, ok := s.Project(pvNumber)
	if !ok || !p.HasBudget() {
		return false
	}
	return totalByProject(s, pvNumber, year).GreaterThan(decimal.NewFromFloat(*p.Budget))
}

// ActualTotalByProject sums the recorded actuals of pvNumber whose month is in
// year.
func ActualTotalByProject(s model.Snapshot, pvNumber string, year int) float64 {
	total := decimal.Zero
	for _, a := range s.Actuals {
		if a.ProjectPVNumber == pvNumber && a.Month.InYear(year) {
			total = total.Add(decimal.NewFromFloat(a.CapitalCost))
		}
	}
	return total.InexactFloat64()
}

// Summarize computes the year rollup: per-resource totals for active
// resources, per-project totals against budget, and a monthly series.
func Summarize(s model.Snapshot, year int) model.SummaryStats {
	stats := model.SummaryStats{Year: year}

	overall := decimal.Zero
	for _, r := range ActiveResources(s.Resources, year) {
		total := totalByResource(s, r.ID, year)
		overall = overall.Add(total)

		rs := model.ResourceStats{
			ResourceID: r.ID,
			Name:       r.FullName,
			Location:   r.Location,
			Company:    r.Company,
			Rate:       r.Rate,
			Total:      total.InexactFloat64(),
		}
		for _, f := range s.Forecasts {
			if f.ResourceID == r.ID {
				rs.Forecasts++
			}
		}
		stats.ByResource = append(stats.ByResource, rs)
	}
	stats.TotalForecast = overall.InexactFloat64()
	stats.ActiveResources = len(stats.ByResource)

	actualTotal := decimal.Zero
	budgetTotal := decimal.Zero
	for _, p := range s.Projects {
		total := totalByProject(s, p.PVNumber, year)
		actual := ActualTotalByProject(s, p.PVNumber, year)

		ps := model.ProjectStats{
			PVNumber:      p.PVNumber,
			Name:          p.Name,
			OracleAccount: p.OracleAccount,
			Budget:        p.Budget,
			Total:         total.InexactFloat64(),
			Actual:        actual,
		}
		for _, f := range s.Forecasts {
			if f.ProjectPVNumber == p.PVNumber {
				ps.Forecasts++
			}
		}
		if p.HasBudget() {
			budget := decimal.NewFromFloat(*p.Budget)
			budgetTotal = budgetTotal.Add(budget)
			ps.Remaining = budget.Sub(total).InexactFloat64()
			ps.OverBudget = total.GreaterThan(budget)
			switch {
			case budget.IsPositive():
				ps.UsedPercent = total.Div(budget).InexactFloat64()
			case total.IsPositive():
				ps.UsedPercent = 1
			}
			if ps.OverBudget {
				stats.OverBudget++
			}
		}
		actualTotal = actualTotal.Add(decimal.NewFromFloat(actual))
		stats.ByProject = append(stats.ByProject, ps)
	}
	stats.Projects = len(stats.ByProject)
	stats.TotalActual = actualTotal.InexactFloat64()
	stats.TotalBudget = budgetTotal.InexactFloat64()

	// Highest spend first; ties keep store order.
	sort.SliceStable(stats.ByResource, func(i, j int) bool {
		return stats.ByResource[i].Total > stats.ByResource[j].Total
	})
	sort.SliceStable(stats.ByProject, func(i, j int) bool {
		return stats.ByProject[i].Total > stats.ByProject[j].Total
	})

	stats.Monthly = AggregateMonths(s, year)
	return stats
}

// AggregateMonths returns forecast and actual cost for each month of year.
// Forecast cost covers every forecast whose resource still exists.
func AggregateMonths(s model.Snapshot, year int) []model.MonthStats {
	months := types.MonthsOfYear(year)
	forecast := make([]decimal.Decimal, len(months))
	actual := make([]decimal.Decimal, len(months))
	for i := range months {
		forecast[i] = decimal.Zero
		actual[i] = decimal.Zero
	}

	for _, f := range s.Forecasts {
		r, ok := s.Resource(f.ResourceID)
		if !ok {
			continue
		}
		for m, pct := range f.Allocations {
			if !m.InYear(year) {
				continue
			}
			idx := int(m.Month) - 1
			forecast[idx] = forecast[idx].Add(monthlyCostDecimal(r.Rate, pct))
		}
	}
	for _, a := range s.Actuals {
		if !a.Month.InYear(year) {
			continue
		}
		idx := int(a.Month.Month) - 1
		actual[idx] = actual[idx].Add(decimal.NewFromFloat(a.CapitalCost))
	}

	out := make([]model.MonthStats, len(months))
	for i, m := range months {
		out[i] = model.MonthStats{
			Month:    m,
			Forecast: forecast[i].InexactFloat64(),
			Actual:   actual[i].InexactFloat64(),
		}
	}
	return out
}

// ForecastCell is one month of a forecast row.
type ForecastCell struct {
	Month      types.Month
	Allocation float64
	Set        bool // an allocation is stored for the month
	Cost       float64
}

// ForecastRow is the twelve-month view of one forecast.
type ForecastRow struct {
	ForecastID   string
	Pair         model.Pair
	ResourceName string
	ProjectName  string
	Active       bool
	Cells        []ForecastCell
	Total        float64
}

// ForecastGrid lays out every forecast across the months of year, in store
// order. Dangling references are labelled model.UnknownLabel.
func ForecastGrid(s model.Snapshot, year int) []ForecastRow {
	months := types.MonthsOfYear(year)
	rows := make([]ForecastRow, 0, len(s.Forecasts))
	for _, f := range s.Forecasts {
		r, hasResource := s.Resource(f.ResourceID)
		row := ForecastRow{
			ForecastID:   f.ID,
			Pair:         f.Pair(),
			ResourceName: s.ResourceName(f.ResourceID),
			ProjectName:  s.ProjectName(f.ProjectPVNumber),
			Active:       hasResource && IsActive(r, year),
			Cells:        make([]ForecastCell, len(months)),
		}
		for i, m := range months {
			pct, ok := f.Allocation(m)
			row.Cells[i] = ForecastCell{
				Month:      m,
				Allocation: pct,
				Set:        ok,
				Cost:       ForecastMonthCost(s, f, m),
			}
		}
		if hasResource {
			row.Total = forecastYearCost(r.Rate, f, year).InexactFloat64()
		}
		rows = append(rows, row)
	}
	return rows
}
