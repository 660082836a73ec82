package repository

import "errors"

// Sentinel kinds for storage errors. They are owned by this package and are
// never business-rule failures.
var (
	ErrIntegrity     = errors.New("data integrity violation")
	ErrUnavailable   = errors.New("storage unavailable")
	ErrUnknownDriver = errors.New("unknown storage driver")
	ErrClosed        = errors.New("store closed")
)
