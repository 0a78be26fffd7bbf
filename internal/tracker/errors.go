package tracker

import (
	"errors"

	"github.com/theirongolddev/capex/internal/model"
)

// Errors returned by Tracker operations. Wrapped errors carry the offending
// key or field; test with errors.Is.
var (
	ErrDuplicateKey     = errors.New("already exists")
	ErrNotFound         = errors.New("not found")
	ErrUnknownResource  = errors.New("unknown resource")
	ErrUnknownProject   = errors.New("unknown project")
	ErrInactiveResource = errors.New("resource is not active in the selected year")
	ErrUnexpectedActual = errors.New("no forecast allocation for the previous month")

	ErrRequiredField   = model.ErrRequiredField
	ErrNegativeValue   = model.ErrNegativeValue
	ErrInvalidNumber   = model.ErrInvalidNumber
	ErrInvalidLocation = model.ErrInvalidLocation
	ErrInvalidDate     = model.ErrInvalidDate
)
