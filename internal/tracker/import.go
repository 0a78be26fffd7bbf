package tracker

import (
	"fmt"
	"math"

	"github.com/theirongolddev/capex/internal/model"
	"github.com/theirongolddev/capex/internal/store"
)

// Import replaces all four collections with the snapshot. The snapshot is
// checked first; on a validation error nothing is written. On a store that
// implements store.Batcher the four collections are replaced atomically;
// otherwise they are written in turn and a failed write leaves the earlier
// ones replaced.
func (t *Tracker) Import(s model.Snapshot) error {
	s, err := normalizeSnapshot(s)
	if err != nil {
		return err
	}

	err = store.SaveAll(t.store,
		store.Entry{Key: store.KeyResources, Value: s.Resources},
		store.Entry{Key: store.KeyProjects, Value: s.Projects},
		store.Entry{Key: store.KeyForecasts, Value: s.Forecasts},
		store.Entry{Key: store.KeyActuals, Value: s.Actuals},
	)
	if err != nil {
		return fmt.Errorf("importing snapshot: %w", err)
	}

	t.log.Info().
		Int("resources", len(s.Resources)).
		Int("projects", len(s.Projects)).
		Int("forecasts", len(s.Forecasts)).
		Int("actuals", len(s.Actuals)).
		Msg("snapshot imported")
	return nil
}

// normalizeSnapshot runs every record through the same rules as the
// interactive operations and checks the natural-key uniqueness invariants.
func normalizeSnapshot(in model.Snapshot) (model.Snapshot, error) {
	out := model.Snapshot{
		Resources: make([]model.Resource, 0, len(in.Resources)),
		Projects:  make([]model.Project, 0, len(in.Projects)),
		Forecasts: make([]model.Forecast, 0, len(in.Forecasts)),
		Actuals:   make([]model.Actual, 0, len(in.Actuals)),
	}

	seenResources := make(map[string]bool, len(in.Resources))
	for _, r := range in.Resources {
		built, err := model.DraftFromResource(r).Build()
		if err != nil {
			return model.Snapshot{}, fmt.Errorf("resource %q: %w", r.ID, err)
		}
		if seenResources[built.ID] {
			return model.Snapshot{}, fmt.Errorf("resource %q: %w", built.ID, ErrDuplicateKey)
		}
		seenResources[built.ID] = true
		out.Resources = append(out.Resources, built)
	}

	seenProjects := make(map[string]bool, len(in.Projects))
	for _, p := range in.Projects {
		built, err := model.DraftFromProject(p).Build()
		if err != nil {
			return model.Snapshot{}, fmt.Errorf("project %q: %w", p.PVNumber, err)
		}
		if seenProjects[built.PVNumber] {
			return model.Snapshot{}, fmt.Errorf("project %q: %w", built.PVNumber, ErrDuplicateKey)
		}
		seenProjects[built.PVNumber] = true
		out.Projects = append(out.Projects, built)
	}

	forecastIDs := make(map[string]bool, len(in.Forecasts))
	pairs := make(map[model.Pair]bool, len(in.Forecasts))
	for _, f := range in.Forecasts {
		if f.ID == "" {
			return model.Snapshot{}, fmt.Errorf("forecast: %w: id", ErrRequiredField)
		}
		if forecastIDs[f.ID] {
			return model.Snapshot{}, fmt.Errorf("forecast %q: %w", f.ID, ErrDuplicateKey)
		}
		if pairs[f.Pair()] {
			return model.Snapshot{}, fmt.Errorf("forecast for %s on %s: %w", f.ResourceID, f.ProjectPVNumber, ErrDuplicateKey)
		}
		forecastIDs[f.ID] = true
		pairs[f.Pair()] = true

		clamped := make(model.Allocations, len(f.Allocations))
		for m, pct := range f.Allocations {
			if math.IsNaN(pct) {
				return model.Snapshot{}, fmt.Errorf("forecast %q %s: %w", f.ID, m, ErrInvalidNumber)
			}
			clamped[m] = model.ClampPercent(pct)
		}
		f.Allocations = clamped
		out.Forecasts = append(out.Forecasts, f)
	}

	type actualKey struct {
		pair  model.Pair
		month string
	}
	actualIDs := make(map[string]bool, len(in.Actuals))
	cells := make(map[actualKey]bool, len(in.Actuals))
	for _, a := range in.Actuals {
		if a.ID == "" {
			return model.Snapshot{}, fmt.Errorf("actual: %w: id", ErrRequiredField)
		}
		if a.Month.IsZero() {
			return model.Snapshot{}, fmt.Errorf("actual %q: %w: month", a.ID, ErrRequiredField)
		}
		if err := model.CheckAmount("capital cost", a.CapitalCost); err != nil {
			return model.Snapshot{}, fmt.Errorf("actual %q: %w", a.ID, err)
		}
		k := actualKey{pair: a.Pair(), month: a.Month.String()}
		if actualIDs[a.ID] || cells[k] {
			return model.Snapshot{}, fmt.Errorf("actual %q: %w", a.ID, ErrDuplicateKey)
		}
		actualIDs[a.ID] = true
		cells[k] = true
		out.Actuals = append(out.Actuals, a)
	}

	return out, nil
}
