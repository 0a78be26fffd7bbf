package pipeline_test

import (
	"fmt"
	"testing"

	"github.com/theirongolddev/capex/internal/model"
	"github.com/theirongolddev/capex/internal/pipeline"
	"github.com/theirongolddev/capex/internal/types"
)

// benchSnapshot builds a portfolio of n resources, each forecast on every
// project at 25% for the whole year, with actuals recorded for half the year.
func benchSnapshot(n, projects int) model.Snapshot {
	var s model.Snapshot
	for p := range projects {
		budget := 500000.0
		s.Projects = append(s.Projects, model.Project{
			PVNumber:      fmt.Sprintf("PV-%03d", p),
			Name:          fmt.Sprintf("Project %d", p),
			OracleAccount: fmt.Sprintf("OA-%03d", p),
			Budget:        &budget,
		})
	}
	months := types.MonthsOfYear(2025)
	for r := range n {
		id := fmt.Sprintf("R%04d", r)
		s.Resources = append(s.Resources, model.Resource{ID: id, FullName: id, Rate: 9000, Location: model.Offshore})
		for _, p := range s.Projects {
			alloc := model.Allocations{}
			for _, m := range months {
				alloc[m] = 25
			}
			s.Forecasts = append(s.Forecasts, model.Forecast{
				ID: id + p.PVNumber, ResourceID: id, ProjectPVNumber: p.PVNumber, Allocations: alloc,
			})
			for _, m := range months[1:7] {
				s.Actuals = append(s.Actuals, model.Actual{
					ID: id + p.PVNumber + m.String(), ResourceID: id, ProjectPVNumber: p.PVNumber, Month: m, CapitalCost: 2200,
				})
			}
		}
	}
	return s
}

func BenchmarkSummarize(b *testing.B) {
	s := benchSnapshot(200, 10)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		stats := pipeline.Summarize(s, 2025)
		if stats.ActiveResources != 200 {
			b.Fatalf("active resources = %d", stats.ActiveResources)
		}
	}
}

func BenchmarkActualGrid(b *testing.B) {
	s := benchSnapshot(200, 10)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rows := pipeline.ActualGrid(s, 2025)
		if len(rows) != 2000 {
			b.Fatalf("rows = %d", len(rows))
		}
	}
}
