package service

import "errors"

// ErrStorage wraps every failure reported by the store so callers can tell
// infrastructure errors from business rule violations.
var ErrStorage = errors.New("storage failure")

// ErrValidation marks a request rejected by a field rule the service checks
// before the domain rules run.
var ErrValidation = errors.New("validation errors")
