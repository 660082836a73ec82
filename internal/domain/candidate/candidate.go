// Package candidate holds the candidate record, the business rules that guard
// its creation and the read-time derivation of date fields.
package candidate

import "time"

// Business constants.
const (
	// MaxAge bounds both the declared age and how far back a birth date may lie.
	MaxAge = 150
	// EventHorizonYears is added to the birth date to obtain the estimated event date.
	EventHorizonYears = 75
	// AgeTolerance is the accepted drift between declared and calculated age.
	AgeTolerance = 1
)

// Candidate is a persisted recruitment-process record.
type Candidate struct {
	ID        int64     // zero until the store assigns one
	FirstName string    // trimmed
	LastName  string    // trimmed
	Age       int       // calculated from BirthDate at creation time
	BirthDate time.Time // calendar date, midnight UTC
}

// CreateRequest carries the client-supplied fields of a new candidate.
type CreateRequest struct {
	FirstName string
	LastName  string
	Age       int
	BirthDate time.Time
}

// View is the read-time projection of a Candidate. It is never stored.
type View struct {
	Candidate

	EstimatedEventDate time.Time
	NextBirthday       time.Time
	DaysToNextBirthday int64
	AgeInMonths        int64
}
