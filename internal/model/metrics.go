package model

import "github.com/theirongolddev/capex/internal/types"

// SummaryStats holds the year-level rollup shown on the summary view.
type SummaryStats struct {
	Year int

	TotalForecast float64 // sum over active resources
	TotalActual   float64
	TotalBudget   float64 // sum over projects that define a budget

	ActiveResources int
	Projects        int
	OverBudget      int

	ByResource []ResourceStats
	ByProject  []ProjectStats
	Monthly    []MonthStats
}

// ResourceStats holds the forecast total for one active resource.
type ResourceStats struct {
	ResourceID string
	Name       string
	Location   Location
	Company    string
	Rate       float64
	Forecasts  int
	Total      float64
}

// ProjectStats holds forecast and actual totals for one project, compared to
// its budget.
type ProjectStats struct {
	PVNumber      string
	Name          string
	OracleAccount string
	Budget        *float64
	Forecasts     int
	Total         float64
	Actual        float64
	Remaining     float64 // budget minus total; zero without a budget
	UsedPercent   float64 // total as a fraction of budget; zero without a budget
	OverBudget    bool
}

// MonthStats holds forecast and actual cost for one calendar month.
type MonthStats struct {
	Month    types.Month
	Forecast float64
	Actual   float64
}
