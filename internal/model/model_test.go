package model_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theirongolddev/capex/internal/model"
	"github.com/theirongolddev/capex/internal/types"
)

func ptr(f float64) *float64 { return &f }

func TestResourceDraftBuild(t *testing.T) {
	r, err := model.ResourceDraft{
		ID:       " R1 ",
		FullName: "Ada Lovelace",
		Rate:     ptr(100),
		Company:  "Analytical",
		EndDate:  "2024-06-01",
	}.Build()
	require.NoError(t, err)

	assert.Equal(t, "R1", r.ID)
	assert.Equal(t, model.Onshore, r.Location)
	assert.Equal(t, "2024-06-01", r.EndDate)

	year, ok := r.EndYear()
	assert.True(t, ok)
	assert.Equal(t, 2024, year)
}

func TestResourceDraftBuildRejects(t *testing.T) {
	base := model.ResourceDraft{ID: "R1", FullName: "Ada", Rate: ptr(10), Company: "X"}

	tests := []struct {
		name   string
		mutate func(d *model.ResourceDraft)
		want   error
	}{
		{"missing id", func(d *model.ResourceDraft) { d.ID = "  " }, model.ErrRequiredField},
		{"missing name", func(d *model.ResourceDraft) { d.FullName = "" }, model.ErrRequiredField},
		{"missing rate", func(d *model.ResourceDraft) { d.Rate = nil }, model.ErrRequiredField},
		{"missing company", func(d *model.ResourceDraft) { d.Company = "" }, model.ErrRequiredField},
		{"negative rate", func(d *model.ResourceDraft) { d.Rate = ptr(-1) }, model.ErrNegativeValue},
		{"nan rate", func(d *model.ResourceDraft) { d.Rate = ptr(math.NaN()) }, model.ErrInvalidNumber},
		{"bad location", func(d *model.ResourceDraft) { d.Location = "Moon" }, model.ErrInvalidLocation},
		{"bad end date", func(d *model.ResourceDraft) { d.EndDate = "2024-13-01" }, model.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := base
			tt.mutate(&d)
			_, err := d.Build()
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestZeroRateAllowed(t *testing.T) {
	_, err := model.ResourceDraft{ID: "R1", FullName: "Ada", Rate: ptr(0), Company: "X"}.Build()
	assert.NoError(t, err)
}

func TestParseLocation(t *testing.T) {
	loc, err := model.ParseLocation("offshore")
	require.NoError(t, err)
	assert.Equal(t, model.Offshore, loc)
}

func TestProjectDraftBuild(t *testing.T) {
	p, err := model.ProjectDraft{PVNumber: "P1", Name: "Platform", OracleAccount: "4100"}.Build()
	require.NoError(t, err)
	assert.False(t, p.HasBudget())

	_, err = model.ProjectDraft{PVNumber: "P1", Name: "Platform", OracleAccount: "4100", Budget: ptr(-5)}.Build()
	assert.ErrorIs(t, err, model.ErrNegativeValue)

	_, err = model.ProjectDraft{PVNumber: "P1", Name: "Platform"}.Build()
	assert.ErrorIs(t, err, model.ErrRequiredField)
}

func TestDraftRoundTrip(t *testing.T) {
	r := model.Resource{ID: "R1", FullName: "Ada", Rate: 12.5, Location: model.Offshore, Company: "X"}
	built, err := model.DraftFromResource(r).Build()
	require.NoError(t, err)
	assert.Equal(t, r, built)

	p := model.Project{PVNumber: "P1", Name: "N", OracleAccount: "A", Budget: ptr(40)}
	builtP, err := model.DraftFromProject(p).Build()
	require.NoError(t, err)
	assert.Equal(t, p, builtP)
}

func TestClampPercent(t *testing.T) {
	assert.Equal(t, 0.0, model.ClampPercent(-5))
	assert.Equal(t, 100.0, model.ClampPercent(150))
	assert.Equal(t, 42.5, model.ClampPercent(42.5))
}

func TestWithAllocationDoesNotAlias(t *testing.T) {
	march := types.MustParseMonth("2025-03")
	f := model.Forecast{ID: "f1", Allocations: model.Allocations{}}

	g := f.WithAllocation(march, 120)
	assert.Empty(t, f.Allocations)

	v, ok := g.Allocation(march)
	assert.True(t, ok)
	assert.Equal(t, 100.0, v)

	h := g.WithoutAllocation(march)
	_, ok = h.Allocation(march)
	assert.False(t, ok)
	_, ok = g.Allocation(march)
	assert.True(t, ok)
}

func TestSnapshotLookups(t *testing.T) {
	s := model.Snapshot{
		Resources: []model.Resource{{ID: "R1", FullName: "Ada"}},
		Projects:  []model.Project{{PVNumber: "P1", Name: "Platform"}},
	}

	assert.Equal(t, "Ada", s.ResourceName("R1"))
	assert.Equal(t, model.UnknownLabel, s.ResourceName("R9"))
	assert.Equal(t, "Platform", s.ProjectName("P1"))
	assert.Equal(t, model.UnknownLabel, s.ProjectName("P9"))
}

func TestSnapshotJSONShape(t *testing.T) {
	s := model.Snapshot{
		Forecasts: []model.Forecast{{
			ID: "f1", ResourceID: "R1", ProjectPVNumber: "P1",
			Allocations: model.Allocations{types.MustParseMonth("2025-03"): 50},
		}},
		Resources: []model.Resource{{ID: "R1", FullName: "Ada", Rate: 100, Location: model.Onshore, Company: "X"}},
		Projects:  []model.Project{{PVNumber: "P1", Name: "Platform", OracleAccount: "4100", Budget: ptr(40)}},
		Actuals: []model.Actual{{
			ID: "a1", ResourceID: "R1", ProjectPVNumber: "P1",
			Month: types.MustParseMonth("2025-04"), CapitalCost: 49.5,
		}},
	}

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"forecasts": [{"id": "f1", "resourceId": "R1", "projectPvNumber": "P1", "allocations": {"2025-03": 50}}],
		"resources": [{"id": "R1", "fullName": "Ada", "rate": 100, "location": "Onshore", "company": "X"}],
		"projects": [{"pvNumber": "P1", "name": "Platform", "oracleAccount": "4100", "budget": 40}],
		"actuals": [{"id": "a1", "resourceId": "R1", "projectPvNumber": "P1", "month": "2025-04", "capitalCost": 49.5}]
	}`, string(data))
}
