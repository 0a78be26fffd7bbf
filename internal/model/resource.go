// Package model defines the capex domain records and the drafts they are
// built from.
package model

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Location is where a resource works from.
type Location string

// Known locations.
const (
	Onshore  Location = "Onshore"
	Offshore Location = "Offshore"
)

// ParseLocation accepts a location name case-insensitively. An empty string
// yields Onshore, the form default.
func ParseLocation(s string) (Location, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "onshore":
		return Onshore, nil
	case "offshore":
		return Offshore, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidLocation, s)
	}
}

// DateLayout is the ISO calendar date format used for start and end dates.
const DateLayout = "2006-01-02"

// Resource is a staffable person or contractor with a monthly billing rate.
type Resource struct {
	ID        string   `json:"id"`
	FullName  string   `json:"fullName"`
	Rate      float64  `json:"rate"`
	Location  Location `json:"location"`
	Company   string   `json:"company"`
	StartDate string   `json:"startDate,omitempty"`
	EndDate   string   `json:"endDate,omitempty"`
}

// EndYear returns the calendar year of EndDate, or false when the resource
// has no end date.
func (r Resource) EndYear() (int, bool) {
	if r.EndDate == "" {
		return 0, false
	}
	t, err := time.Parse(DateLayout, r.EndDate)
	if err != nil {
		return 0, false
	}
	return t.Year(), true
}

// ResourceDraft holds resource fields as entered, before validation.
type ResourceDraft struct {
	ID        string
	FullName  string
	Rate      *float64
	Location  string
	Company   string
	StartDate string
	EndDate   string
}

// DraftFromResource seeds a draft from an existing record, for editing.
func DraftFromResource(r Resource) ResourceDraft {
	rate := r.Rate
	return ResourceDraft{
		ID:        r.ID,
		FullName:  r.FullName,
		Rate:      &rate,
		Location:  string(r.Location),
		Company:   r.Company,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}
}

// Build validates the draft and returns the committed Resource.
func (d ResourceDraft) Build() (Resource, error) {
	id := strings.TrimSpace(d.ID)
	name := strings.TrimSpace(d.FullName)
	company := strings.TrimSpace(d.Company)

	switch {
	case id == "":
		return Resource{}, fmt.Errorf("%w: id", ErrRequiredField)
	case name == "":
		return Resource{}, fmt.Errorf("%w: full name", ErrRequiredField)
	case d.Rate == nil:
		return Resource{}, fmt.Errorf("%w: rate", ErrRequiredField)
	case company == "":
		return Resource{}, fmt.Errorf("%w: company", ErrRequiredField)
	}

	if err := CheckAmount("rate", *d.Rate); err != nil {
		return Resource{}, err
	}

	loc, err := ParseLocation(d.Location)
	if err != nil {
		return Resource{}, err
	}

	start, err := normalizeDate("start date", d.StartDate)
	if err != nil {
		return Resource{}, err
	}
	end, err := normalizeDate("end date", d.EndDate)
	if err != nil {
		return Resource{}, err
	}

	return Resource{
		ID:        id,
		FullName:  name,
		Rate:      *d.Rate,
		Location:  loc,
		Company:   company,
		StartDate: start,
		EndDate:   end,
	}, nil
}

// CheckAmount rejects negative or non-finite monetary values.
func CheckAmount(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s", ErrInvalidNumber, field)
	}
	if v < 0 {
		return fmt.Errorf("%w: %s", ErrNegativeValue, field)
	}
	return nil
}

func normalizeDate(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %s %q", ErrInvalidDate, field, s)
	}
	return t.Format(DateLayout), nil
}
