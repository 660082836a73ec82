package candidate

import (
	"errors"
	"fmt"
)

// Kind enumerates the business failures the engine can report.
type Kind int

// Failure kinds. The set is closed; callers may switch over it exhaustively.
const (
	KindUnknown Kind = iota
	KindInvalidDate
	KindInvalidAge
	KindAgeMismatch
	KindNoData
)

func (k Kind) String() string {
	switch k {
	case KindInvalidDate:
		return "invalid_date"
	case KindInvalidAge:
		return "invalid_age"
	case KindAgeMismatch:
		return "age_mismatch"
	case KindNoData:
		return "no_data"
	default:
		return "unknown"
	}
}

// Error is a business-rule violation.
type Error struct {
	Kind    Kind
	Message string

	// Declared and Calculated are set for KindAgeMismatch.
	Declared   int
	Calculated int
}

func (e *Error) Error() string { return e.Message }

// Is matches any *Error of the same kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinel kinds for this package.
var (
	ErrInvalidDate = &Error{Kind: KindInvalidDate, Message: "invalid birth date"}
	ErrInvalidAge  = &Error{Kind: KindInvalidAge, Message: "invalid age"}
	ErrAgeMismatch = &Error{Kind: KindAgeMismatch, Message: "age does not match birth date"}
	ErrNoData      = &Error{Kind: KindNoData, Message: "no candidates registered"}
)

// KindOf reports the business kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NoData builds the failure returned when statistics are requested over nothing.
func NoData() *Error {
	return newError(KindNoData, "no candidates registered; metrics are unavailable")
}

func ageMismatch(declared, calculated int) *Error {
	e := newError(KindAgeMismatch,
		"declared age %d does not match age %d calculated from the birth date", declared, calculated)
	e.Declared = declared
	e.Calculated = calculated
	return e
}
