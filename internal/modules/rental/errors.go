package rental

import "errors"

var (
	ErrValidation       = errors.New("hours must be positive")
	ErrNotFound         = errors.New("rental not found")
	ErrSpaceNotFound    = errors.New("space not found")
	ErrNotAvailable     = errors.New("space is not available")
	ErrIncorrectPayment = errors.New("payment does not match price")
	ErrBookingConflict  = errors.New("previous rental window has not elapsed")
	ErrNotActive        = errors.New("rental is not active")
	ErrForbidden        = errors.New("caller may not release this rental")
)
