package model

import "errors"

// Validation errors returned when a draft or numeric input is rejected.
var (
	ErrRequiredField   = errors.New("required field missing")
	ErrNegativeValue   = errors.New("value must not be negative")
	ErrInvalidNumber   = errors.New("not a valid number")
	ErrInvalidLocation = errors.New("location must be Onshore or Offshore")
	ErrInvalidDate     = errors.New("date must be YYYY-MM-DD")
)
