package registry

import "errors"

var (
	ErrValidation  = errors.New("invalid listing input")
	ErrNotFound    = errors.New("space not found")
	ErrForbidden   = errors.New("caller is not the space owner")
	ErrStillRented = errors.New("space is still rented")
)
