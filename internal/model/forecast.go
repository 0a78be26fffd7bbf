package model

import (
	"math"

	"github.com/theirongolddev/capex/internal/types"
)

// Pair identifies a resource assigned to a project.
type Pair struct {
	ResourceID      string
	ProjectPVNumber string
}

// Allocations maps a month to the percentage (0-100) of a resource's capacity
// committed to a project in that month.
type Allocations map[types.Month]float64

// Forecast is the planned month-by-month allocation of one resource to one
// project. The pair is fixed for the forecast's lifetime.
type Forecast struct {
	ID              string      `json:"id"`
	ResourceID      string      `json:"resourceId"`
	ProjectPVNumber string      `json:"projectPvNumber"`
	Allocations     Allocations `json:"allocations"`
}

// Pair returns the resource/project pair the forecast is bound to.
func (f Forecast) Pair() Pair {
	return Pair{ResourceID: f.ResourceID, ProjectPVNumber: f.ProjectPVNumber}
}

// Allocation returns the stored percentage for m and whether one is stored.
func (f Forecast) Allocation(m types.Month) (float64, bool) {
	v, ok := f.Allocations[m]
	return v, ok
}

// WithAllocation returns a copy of f with month m set to pct, clamped to
// [0,100]. The receiver's map is not modified.
func (f Forecast) WithAllocation(m types.Month, pct float64) Forecast {
	next := f.cloneAllocations()
	next[m] = ClampPercent(pct)
	f.Allocations = next
	return f
}

// WithoutAllocation returns a copy of f with month m removed.
func (f Forecast) WithoutAllocation(m types.Month) Forecast {
	next := f.cloneAllocations()
	delete(next, m)
	f.Allocations = next
	return f
}

func (f Forecast) cloneAllocations() Allocations {
	next := make(Allocations, len(f.Allocations)+1)
	for k, v := range f.Allocations {
		next[k] = v
	}
	return next
}

// ClampPercent limits an allocation to [0,100].
func ClampPercent(pct float64) float64 {
	return math.Min(100, math.Max(0, pct))
}

// Actual is the realized capital cost of one resource on one project for one
// month. It fulfils the forecast allocation of the month before.
type Actual struct {
	ID              string      `json:"id"`
	ResourceID      string      `json:"resourceId"`
	ProjectPVNumber string      `json:"projectPvNumber"`
	Month           types.Month `json:"month"`
	CapitalCost     float64     `json:"capitalCost"`
}

// Pair returns the resource/project pair of the actual.
func (a Actual) Pair() Pair {
	return Pair{ResourceID: a.ResourceID, ProjectPVNumber: a.ProjectPVNumber}
}
