package tracker_test

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theirongolddev/capex/internal/model"
	"github.com/theirongolddev/capex/internal/pipeline"
	"github.com/theirongolddev/capex/internal/store"
	"github.com/theirongolddev/capex/internal/tracker"
	"github.com/theirongolddev/capex/internal/types"
)

func ptr(v float64) *float64 { return &v }

func month(s string) types.Month { return types.MustParseMonth(s) }

// failingStore rejects every write after the first n.
type failingStore struct {
	*store.Memory
	writes int
	limit  int
}

func (f *failingStore) Set(key store.Key, value []byte) error {
	if f.writes >= f.limit {
		return errors.New("disk full")
	}
	f.writes++
	return f.Memory.Set(key, value)
}

func newTracker(t *testing.T) (*tracker.Tracker, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	n := 0
	tr := tracker.New(mem, zerolog.Nop(),
		tracker.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
		tracker.WithClock(func() time.Time {
			return time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
		}),
	)
	return tr, mem
}

// seed creates R1 (rate 100) and P1 and a forecast with 50% in 2025-03.
func seed(t *testing.T, tr *tracker.Tracker) model.Forecast {
	t.Helper()
	_, err := tr.AddResource(model.ResourceDraft{ID: "R1", FullName: "Ada Lovelace", Rate: ptr(100), Company: "Acme"})
	require.NoError(t, err)
	_, err = tr.AddProject(model.ProjectDraft{PVNumber: "P1", Name: "Platform", OracleAccount: "OA-1"})
	require.NoError(t, err)
	f, err := tr.AddForecast("R1", "P1")
	require.NoError(t, err)
	f, err = tr.SetAllocation(f.ID, month("2025-03"), 50)
	require.NoError(t, err)
	return f
}

func TestEmptyStore(t *testing.T) {
	tr, _ := newTracker(t)
	s, err := tr.Snapshot()
	require.NoError(t, err)
	assert.NotNil(t, s.Resources)
	assert.Empty(t, s.Resources)
	assert.Empty(t, s.Forecasts)

	year, err := tr.SelectedYear()
	require.NoError(t, err)
	assert.Equal(t, 2025, year, "defaults to the current year")
}

func TestSelectedYear(t *testing.T) {
	tr, _ := newTracker(t)
	require.NoError(t, tr.SetSelectedYear(2027))
	year, err := tr.SelectedYear()
	require.NoError(t, err)
	assert.Equal(t, 2027, year)

	assert.ErrorIs(t, tr.SetSelectedYear(0), tracker.ErrInvalidNumber)
}

func TestSelectedYearDefault(t *testing.T) {
	mem := store.NewMemory()
	tr := tracker.New(mem, zerolog.Nop(), tracker.WithDefaultYear(2030))

	year, err := tr.SelectedYear()
	require.NoError(t, err)
	assert.Equal(t, 2030, year, "configured default applies while nothing is stored")

	require.NoError(t, tr.SetSelectedYear(2026))
	year, err = tr.SelectedYear()
	require.NoError(t, err)
	assert.Equal(t, 2026, year, "stored year wins over the default")
}

func TestResourceLifecycle(t *testing.T) {
	tr, _ := newTracker(t)

	r, err := tr.AddResource(model.ResourceDraft{ID: " R1 ", FullName: "Ada", Rate: ptr(100), Location: "offshore", Company: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "R1", r.ID)
	assert.Equal(t, model.Offshore, r.Location)

	_, err = tr.AddResource(model.ResourceDraft{ID: "R1", FullName: "Other", Rate: ptr(1), Company: "X"})
	assert.ErrorIs(t, err, tracker.ErrDuplicateKey)

	d := model.DraftFromResource(r)
	d.ID = "ignored"
	d.Rate = ptr(150)
	updated, err := tr.UpdateResource("R1", d)
	require.NoError(t, err)
	assert.Equal(t, "R1", updated.ID, "id is immutable")
	assert.Equal(t, 150.0, updated.Rate)

	_, err = tr.UpdateResource("R9", d)
	assert.ErrorIs(t, err, tracker.ErrNotFound)

	_, err = tr.UpdateResource("R1", model.ResourceDraft{FullName: "Ada", Rate: ptr(-1), Company: "Acme"})
	assert.ErrorIs(t, err, tracker.ErrNegativeValue)

	resources, err := tr.Resources()
	require.NoError(t, err)
	require.Len(t, resources, 1)
	assert.Equal(t, 150.0, resources[0].Rate, "rejected update leaves the record alone")

	require.NoError(t, tr.DeleteResource("R1"))
	assert.ErrorIs(t, tr.DeleteResource("R1"), tracker.ErrNotFound)
}

func TestProjectLifecycle(t *testing.T) {
	tr, _ := newTracker(t)

	_, err := tr.AddProject(model.ProjectDraft{PVNumber: "P1", Name: "Platform"})
	assert.ErrorIs(t, err, tracker.ErrRequiredField)

	p, err := tr.AddProject(model.ProjectDraft{PVNumber: "P1", Name: "Platform", OracleAccount: "OA", Budget: ptr(1000)})
	require.NoError(t, err)
	require.True(t, p.HasBudget())

	_, err = tr.AddProject(model.ProjectDraft{PVNumber: "P1", Name: "Again", OracleAccount: "OA"})
	assert.ErrorIs(t, err, tracker.ErrDuplicateKey)

	d := model.DraftFromProject(p)
	d.Budget = nil
	p, err = tr.UpdateProject("P1", d)
	require.NoError(t, err)
	assert.False(t, p.HasBudget())

	require.NoError(t, tr.DeleteProject("P1"))
	projects, err := tr.Projects()
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestAddForecastValidation(t *testing.T) {
	tr, _ := newTracker(t)
	seed(t, tr)

	_, err := tr.AddForecast("R9", "P1")
	assert.ErrorIs(t, err, tracker.ErrUnknownResource)

	_, err = tr.AddForecast("R1", "P9")
	assert.ErrorIs(t, err, tracker.ErrUnknownProject)

	_, err = tr.AddForecast("R1", "P1")
	assert.ErrorIs(t, err, tracker.ErrDuplicateKey)

	_, err = tr.AddResource(model.ResourceDraft{ID: "R2", FullName: "Gone", Rate: ptr(10), Company: "Acme", EndDate: "2024-06-01"})
	require.NoError(t, err)
	_, err = tr.AddForecast("R2", "P1")
	assert.ErrorIs(t, err, tracker.ErrInactiveResource)

	require.NoError(t, tr.SetSelectedYear(2024))
	f, err := tr.AddForecast("R2", "P1")
	require.NoError(t, err)
	assert.NotEmpty(t, f.ID)
	assert.Empty(t, f.Allocations)
}

func TestSetAllocationClampsAndClears(t *testing.T) {
	tr, _ := newTracker(t)
	f := seed(t, tr)

	f, err := tr.SetAllocation(f.ID, month("2025-04"), 140)
	require.NoError(t, err)
	assert.Equal(t, 100.0, f.Allocations[month("2025-04")])

	f, err = tr.SetAllocation(f.ID, month("2025-05"), -5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, f.Allocations[month("2025-05")])

	f, err = tr.SetAllocationInput(f.ID, month("2025-04"), "  ")
	require.NoError(t, err)
	_, ok := f.Allocation(month("2025-04"))
	assert.False(t, ok, "empty input clears the month")

	_, err = tr.SetAllocationInput(f.ID, month("2025-03"), "abc")
	assert.ErrorIs(t, err, tracker.ErrInvalidNumber)
	forecasts, err := tr.Forecasts()
	require.NoError(t, err)
	assert.Equal(t, 50.0, forecasts[0].Allocations[month("2025-03")], "invalid input keeps previous value")

	f, err = tr.SetAllocationInput(f.ID, month("2025-03"), "37.5")
	require.NoError(t, err)
	assert.Equal(t, 37.5, f.Allocations[month("2025-03")])

	_, err = tr.SetAllocation("nope", month("2025-03"), 10)
	assert.ErrorIs(t, err, tracker.ErrNotFound)
}

func TestSetActualUpsertKeepsID(t *testing.T) {
	tr, _ := newTracker(t)
	seed(t, tr)

	a, ok, err := tr.SetActual("R1", "P1", month("2025-04"), ptr(40))
	require.NoError(t, err)
	require.True(t, ok)
	firstID := a.ID

	a, ok, err = tr.SetActual("R1", "P1", month("2025-04"), ptr(55))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, firstID, a.ID)

	actuals, err := tr.Actuals()
	require.NoError(t, err)
	require.Len(t, actuals, 1)
	assert.Equal(t, 55.0, actuals[0].CapitalCost)
	assert.Equal(t, firstID, actuals[0].ID)
}

func TestSetActualClear(t *testing.T) {
	tr, _ := newTracker(t)
	seed(t, tr)

	_, _, err := tr.SetActual("R1", "P1", month("2025-04"), ptr(40))
	require.NoError(t, err)

	_, ok, err := tr.SetActualInput("R1", "P1", month("2025-04"), "")
	require.NoError(t, err)
	assert.False(t, ok)

	actuals, err := tr.Actuals()
	require.NoError(t, err)
	assert.Empty(t, actuals)

	// Clearing an absent record is a no-op.
	_, ok, err = tr.SetActual("R1", "P1", month("2025-04"), nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetActualRejections(t *testing.T) {
	tr, _ := newTracker(t)
	seed(t, tr)

	_, _, err := tr.SetActual("R1", "P1", month("2025-04"), ptr(-1))
	assert.ErrorIs(t, err, tracker.ErrNegativeValue)

	_, _, err = tr.SetActualInput("R1", "P1", month("2025-04"), "12abc")
	assert.ErrorIs(t, err, tracker.ErrInvalidNumber)

	// 2025-03 has no allocation in 2025-02.
	_, _, err = tr.SetActual("R1", "P1", month("2025-03"), ptr(10))
	assert.ErrorIs(t, err, tracker.ErrUnexpectedActual)

	actuals, err := tr.Actuals()
	require.NoError(t, err)
	assert.Empty(t, actuals)
}

func TestOrphanActualCanBeCleared(t *testing.T) {
	tr, _ := newTracker(t)
	f := seed(t, tr)

	_, _, err := tr.SetActual("R1", "P1", month("2025-04"), ptr(40))
	require.NoError(t, err)
	_, err = tr.SetAllocation(f.ID, month("2025-03"), 0)
	require.NoError(t, err)

	forecasts, err := tr.Forecasts()
	require.NoError(t, err)
	assert.False(t, pipeline.IsExpectedActual(forecasts, f.Pair(), month("2025-04")))

	_, _, err = tr.SetActual("R1", "P1", month("2025-04"), ptr(41))
	assert.ErrorIs(t, err, tracker.ErrUnexpectedActual)

	_, _, err = tr.SetActual("R1", "P1", month("2025-04"), nil)
	require.NoError(t, err)
	actuals, err := tr.Actuals()
	require.NoError(t, err)
	assert.Empty(t, actuals)
}

func TestDeleteForecastKeepsActuals(t *testing.T) {
	tr, _ := newTracker(t)
	f := seed(t, tr)
	_, _, err := tr.SetActual("R1", "P1", month("2025-04"), ptr(40))
	require.NoError(t, err)

	require.NoError(t, tr.DeleteForecast(f.ID))
	assert.ErrorIs(t, tr.DeleteForecast(f.ID), tracker.ErrNotFound)

	s, err := tr.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, s.Forecasts)
	assert.Len(t, s.Actuals, 1)
	assert.Empty(t, pipeline.ActualGrid(s, 2025), "pairs come from forecasts only")
}

func TestDanglingReferencesAfterDelete(t *testing.T) {
	tr, _ := newTracker(t)
	seed(t, tr)
	require.NoError(t, tr.DeleteResource("R1"))

	s, err := tr.Snapshot()
	require.NoError(t, err)
	require.Len(t, s.Forecasts, 1)
	assert.Zero(t, pipeline.TotalByProject(s, "P1", 2025))
	assert.Equal(t, model.UnknownLabel, pipeline.ForecastGrid(s, 2025)[0].ResourceName)
}

func TestTotalsThroughTracker(t *testing.T) {
	tr, _ := newTracker(t)
	seed(t, tr)
	_, err := tr.UpdateProject("P1", model.ProjectDraft{Name: "Platform", OracleAccount: "OA-1", Budget: ptr(40)})
	require.NoError(t, err)

	s, err := tr.Snapshot()
	require.NoError(t, err)
	assert.InDelta(t, 50.0, pipeline.TotalByResource(s, "R1", 2025), 1e-9)
	assert.InDelta(t, 50.0, pipeline.TotalByProject(s, "P1", 2025), 1e-9)
	assert.True(t, pipeline.IsOverBudget(s, "P1", 2025))
}

func TestStoreUnchangedOnWriteError(t *testing.T) {
	fs := &failingStore{Memory: store.NewMemory(), limit: 1}
	tr := tracker.New(fs, zerolog.Nop())

	_, err := tr.AddProject(model.ProjectDraft{PVNumber: "P1", Name: "Platform", OracleAccount: "OA"})
	require.NoError(t, err)

	_, err = tr.AddProject(model.ProjectDraft{PVNumber: "P2", Name: "Billing", OracleAccount: "OB"})
	require.Error(t, err)

	projects, err := tr.Projects()
	require.NoError(t, err)
	assert.Len(t, projects, 1)
}

// batchStore applies batches through SetBatch and can be told to fail them.
type batchStore struct {
	*store.Memory
	fail bool
}

func (b *batchStore) SetBatch(values map[store.Key][]byte) error {
	if b.fail {
		return errors.New("disk full")
	}
	for k, v := range values {
		if err := b.Memory.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}

func importSnapshot() model.Snapshot {
	return model.Snapshot{
		Resources: []model.Resource{{ID: "R9", FullName: "Grace Hopper", Rate: 10, Location: model.Onshore, Company: "Navy"}},
		Projects:  []model.Project{{PVNumber: "P9", Name: "Compiler", OracleAccount: "OA-9"}},
		Forecasts: []model.Forecast{{ID: "f9", ResourceID: "R9", ProjectPVNumber: "P9", Allocations: model.Allocations{}}},
	}
}

func TestImportBatchFailureLeavesStore(t *testing.T) {
	bs := &batchStore{Memory: store.NewMemory()}
	tr := tracker.New(bs, zerolog.Nop())
	seed(t, tr)
	before, err := tr.Snapshot()
	require.NoError(t, err)

	bs.fail = true
	err = tr.Import(importSnapshot())
	require.Error(t, err)

	after, err := tr.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestImportSQLiteIsAtomic(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "capex.db"), zerolog.Nop())
	require.NoError(t, err)
	defer db.Close()

	tr := tracker.New(db, zerolog.Nop())
	require.NoError(t, tr.Import(importSnapshot()))

	s, err := tr.Snapshot()
	require.NoError(t, err)
	require.Len(t, s.Resources, 1)
	assert.Equal(t, "R9", s.Resources[0].ID)
	assert.Len(t, s.Projects, 1)
	assert.Len(t, s.Forecasts, 1)
	assert.Empty(t, s.Actuals)
}

func TestImportWithoutBatchWritesInOrder(t *testing.T) {
	fs := &failingStore{Memory: store.NewMemory(), limit: 2}
	tr := tracker.New(fs, zerolog.Nop())

	err := tr.Import(importSnapshot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing forecasts")
	assert.Equal(t, []store.Key{store.KeyProjects, store.KeyResources}, fs.Keys())
}

func TestImport(t *testing.T) {
	tr, _ := newTracker(t)
	seed(t, tr)

	in := model.Snapshot{
		Resources: []model.Resource{{ID: "R5", FullName: "Linus", Rate: 10, Company: "OSS"}},
		Projects:  []model.Project{{PVNumber: "P5", Name: "Kernel", OracleAccount: "OA"}},
		Forecasts: []model.Forecast{{ID: "f5", ResourceID: "R5", ProjectPVNumber: "P5",
			Allocations: model.Allocations{month("2025-01"): 250}}},
		Actuals: []model.Actual{{ID: "a5", ResourceID: "R5", ProjectPVNumber: "P5", Month: month("2025-02"), CapitalCost: 9}},
	}
	require.NoError(t, tr.Import(in))

	s, err := tr.Snapshot()
	require.NoError(t, err)
	require.Len(t, s.Resources, 1)
	assert.Equal(t, model.Onshore, s.Resources[0].Location)
	assert.Equal(t, 100.0, s.Forecasts[0].Allocations[month("2025-01")], "allocations clamped on import")
	assert.Len(t, s.Actuals, 1)
}

func TestImportRejectsDuplicates(t *testing.T) {
	tests := []struct {
		name string
		snap model.Snapshot
		want error
	}{
		{
			name: "resource id",
			snap: model.Snapshot{Resources: []model.Resource{
				{ID: "R1", FullName: "A", Company: "C"},
				{ID: "R1", FullName: "B", Company: "C"},
			}},
			want: tracker.ErrDuplicateKey,
		},
		{
			name: "project pv",
			snap: model.Snapshot{Projects: []model.Project{
				{PVNumber: "P1", Name: "A", OracleAccount: "O"},
				{PVNumber: "P1", Name: "B", OracleAccount: "O"},
			}},
			want: tracker.ErrDuplicateKey,
		},
		{
			name: "forecast pair",
			snap: model.Snapshot{Forecasts: []model.Forecast{
				{ID: "f1", ResourceID: "R1", ProjectPVNumber: "P1"},
				{ID: "f2", ResourceID: "R1", ProjectPVNumber: "P1"},
			}},
			want: tracker.ErrDuplicateKey,
		},
		{
			name: "actual cell",
			snap: model.Snapshot{Actuals: []model.Actual{
				{ID: "a1", ResourceID: "R1", ProjectPVNumber: "P1", Month: month("2025-01")},
				{ID: "a2", ResourceID: "R1", ProjectPVNumber: "P1", Month: month("2025-01")},
			}},
			want: tracker.ErrDuplicateKey,
		},
		{
			name: "negative cost",
			snap: model.Snapshot{Actuals: []model.Actual{
				{ID: "a1", ResourceID: "R1", ProjectPVNumber: "P1", Month: month("2025-01"), CapitalCost: -3},
			}},
			want: tracker.ErrNegativeValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, mem := newTracker(t)
			seed(t, tr)
			before := mem.Keys()

			err := tr.Import(tt.snap)
			assert.ErrorIs(t, err, tt.want)

			s, err := tr.Snapshot()
			require.NoError(t, err)
			assert.Len(t, s.Resources, 1, "store untouched")
			assert.Equal(t, before, mem.Keys())
		})
	}
}
