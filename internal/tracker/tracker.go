// Package tracker is the write boundary of capex. Every mutation reads the
// whole collection from the store, computes the replacement and writes it
// back. A rejected change writes nothing; single-collection writes are
// all-or-nothing at the store.
package tracker

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/theirongolddev/capex/internal/model"
	"github.com/theirongolddev/capex/internal/store"
)

// Tracker validates and applies changes to the entity store.
type Tracker struct {
	store store.Store
	log   zerolog.Logger
	newID func() string
	now   func() time.Time

	defaultYear int
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithIDGenerator replaces the UUID generator used for forecast and actual ids.
func WithIDGenerator(fn func() string) Option {
	return func(t *Tracker) { t.newID = fn }
}

// WithClock replaces the clock used to default the selected year.
func WithClock(fn func() time.Time) Option {
	return func(t *Tracker) { t.now = fn }
}

// WithDefaultYear sets the selected year reported while none is stored.
func WithDefaultYear(year int) Option {
	return func(t *Tracker) { t.defaultYear = year }
}

// New returns a Tracker writing to s.
func New(s store.Store, log zerolog.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		store: s,
		log:   log,
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Snapshot reads all four collections.
func (t *Tracker) Snapshot() (model.Snapshot, error) {
	var s model.Snapshot
	var err error
	if s.Resources, err = t.Resources(); err != nil {
		return model.Snapshot{}, err
	}
	if s.Projects, err = t.Projects(); err != nil {
		return model.Snapshot{}, err
	}
	if s.Forecasts, err = t.Forecasts(); err != nil {
		return model.Snapshot{}, err
	}
	if s.Actuals, err = t.Actuals(); err != nil {
		return model.Snapshot{}, err
	}
	return s, nil
}

// Resources returns every resource in store order.
func (t *Tracker) Resources() ([]model.Resource, error) {
	return loadList[model.Resource](t.store, store.KeyResources)
}

// Projects returns every project in store order.
func (t *Tracker) Projects() ([]model.Project, error) {
	return loadList[model.Project](t.store, store.KeyProjects)
}

// Forecasts returns every forecast in store order.
func (t *Tracker) Forecasts() ([]model.Forecast, error) {
	fs, err := loadList[model.Forecast](t.store, store.KeyForecasts)
	if err != nil {
		return nil, err
	}
	for i := range fs {
		if fs[i].Allocations == nil {
			fs[i].Allocations = model.Allocations{}
		}
	}
	return fs, nil
}

// Actuals returns every actual in store order.
func (t *Tracker) Actuals() ([]model.Actual, error) {
	return loadList[model.Actual](t.store, store.KeyActuals)
}

// SelectedYear returns the stored selected year. When none is stored it
// falls back to the configured default year, then the current calendar year.
func (t *Tracker) SelectedYear() (int, error) {
	year, err := store.Load(t.store, store.KeySelectedYear, 0)
	if err != nil {
		return 0, err
	}
	switch {
	case year > 0:
		return year, nil
	case t.defaultYear > 0:
		return t.defaultYear, nil
	default:
		return t.now().Year(), nil
	}
}

// SetSelectedYear stores the year used for aggregation and forecast creation.
func (t *Tracker) SetSelectedYear(year int) error {
	if year < 1 || year > 9999 {
		return fmt.Errorf("%w: year %d", ErrInvalidNumber, year)
	}
	if err := store.Save(t.store, store.KeySelectedYear, year); err != nil {
		return err
	}
	t.log.Debug().Int("year", year).Msg("selected year changed")
	return nil
}

func loadList[T any](s store.Store, key store.Key) ([]T, error) {
	v, err := store.Load(s, key, []T{})
	if err != nil {
		return nil, err
	}
	if v == nil {
		v = []T{}
	}
	return v, nil
}

// parseAmount parses user-entered numeric text. Empty input reports ok=false.
func parseAmount(raw string) (v float64, ok bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}
	v, err = strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
	}
	return v, true, nil
}
