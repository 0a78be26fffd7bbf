// Package types implements calendar value types shared across capex.
package types

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrInvalidMonth is returned when a month key is not in YYYY-MM form.
var ErrInvalidMonth = errors.New("invalid month, expected YYYY-MM")

// Month is a calendar month in a specific year. It carries no day, time or
// location, so arithmetic on it never drifts.
type Month struct {
	Year  int
	Month time.Month
}

// NewMonth returns a new Month, normalizing out-of-range month numbers into
// the neighbouring years.
func NewMonth(year int, month time.Month) Month {
	return fromIndex(year*12 + int(month) - 1)
}

// ParseMonth parses a "YYYY-MM" string.
func ParseMonth(s string) (Month, error) {
	if len(s) != 7 || s[4] != '-' {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil || s[0] == '-' || s[0] == '+' {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	month, err := strconv.Atoi(s[5:])
	if err != nil || month < 1 || month > 12 || s[5] == '-' || s[5] == '+' {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return Month{Year: year, Month: time.Month(month)}, nil
}

// MustParseMonth is like ParseMonth but panics on error. Intended for tests
// and constant tables.
func MustParseMonth(s string) Month {
	m, err := ParseMonth(s)
	if err != nil {
		panic(err)
	}
	return m
}

// MonthsOfYear returns January through December of year.
func MonthsOfYear(year int) []Month {
	months := make([]Month, 12)
	for i := range months {
		months[i] = Month{Year: year, Month: time.Month(i + 1)}
	}
	return months
}

func (m Month) index() int {
	return m.Year*12 + int(m.Month) - 1
}

func fromIndex(idx int) Month {
	year := idx / 12
	rem := idx % 12
	if rem < 0 {
		rem += 12
		year--
	}
	return Month{Year: year, Month: time.Month(rem + 1)}
}

// String returns the month formatted as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Label returns a short display form, e.g. "Mar 2025".
func (m Month) Label() string {
	return fmt.Sprintf("%s %d", m.Month.String()[:3], m.Year)
}

// IsZero reports if the month is the zero value.
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// AddMonths adds n calendar months. n may be negative.
func (m Month) AddMonths(n int) Month {
	return fromIndex(m.index() + n)
}

// Prev returns the month before m.
func (m Month) Prev() Month {
	return m.AddMonths(-1)
}

// Next returns the month after m.
func (m Month) Next() Month {
	return m.AddMonths(1)
}

// Compare returns -1, 0 or +1 depending on whether m is before, equal to or
// after n.
func (m Month) Compare(n Month) int {
	switch a, b := m.index(), n.index(); {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Before reports whether m is before n.
func (m Month) Before(n Month) bool {
	return m.Compare(n) < 0
}

// After reports whether m is after n.
func (m Month) After(n Month) bool {
	return m.Compare(n) > 0
}

// Equal reports whether m and n represent the same month.
func (m Month) Equal(n Month) bool {
	return m.Compare(n) == 0
}

// InYear reports whether m falls in the given calendar year.
func (m Month) InYear(year int) bool {
	return m.Year == year
}

// MarshalText implements encoding.TextMarshaler. This also makes Month usable
// as a JSON object key.
func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Month) UnmarshalText(data []byte) error {
	parsed, err := ParseMonth(string(data))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
