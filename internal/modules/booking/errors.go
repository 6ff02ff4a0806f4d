package booking

import "errors"

var (
	ErrValidation       = errors.New("validation error")
	ErrNotAvailable     = errors.New("property is not available for the selected dates")
	ErrPropertyNotFound = errors.New("property not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrForbidden        = errors.New("access denied")
)
