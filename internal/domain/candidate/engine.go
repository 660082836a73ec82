package candidate

import (
	"strings"
	"time"
)

// Prepare applies the creation rules to req and returns the record to persist.
// The stored age is the one calculated from the birth date, not the declared one.
// Names are expected to be non-blank already; Prepare only trims them.
func Prepare(req CreateRequest, today time.Time) (Candidate, error) {
	today = Truncate(today)
	birth := Truncate(req.BirthDate)

	if birth.After(today) {
		return Candidate{}, newError(KindInvalidDate,
			"birth date %s is in the future", FormatDate(birth))
	}
	if req.Age < 0 || req.Age > MaxAge {
		return Candidate{}, newError(KindInvalidAge,
			"age %d is outside the allowed range 0-%d", req.Age, MaxAge)
	}
	if birth.Before(AddYears(today, -MaxAge)) {
		return Candidate{}, newError(KindInvalidDate,
			"birth date %s is more than %d years ago", FormatDate(birth), MaxAge)
	}

	calculated := YearsBetween(birth, today)
	if diff := req.Age - calculated; diff > AgeTolerance || diff < -AgeTolerance {
		return Candidate{}, ageMismatch(req.Age, calculated)
	}

	return Candidate{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Age:       calculated,
		BirthDate: birth,
	}, nil
}

// DeriveView computes the date-dependent fields of c relative to today.
func DeriveView(c Candidate, today time.Time) View {
	today = Truncate(today)
	birth := Truncate(c.BirthDate)

	next := WithYear(birth, today.Year())
	if !next.After(today) {
		next = WithYear(birth, today.Year()+1)
	}

	return View{
		Candidate:          c,
		EstimatedEventDate: AddYears(birth, EventHorizonYears),
		NextBirthday:       next,
		DaysToNextBirthday: DaysBetween(today, next),
		AgeInMonths:        MonthsBetween(birth, today),
	}
}

// DeriveViews maps DeriveView over cs. The result is never nil.
func DeriveViews(cs []Candidate, today time.Time) []View {
	views := make([]View, 0, len(cs))
	for _, c := range cs {
		views = append(views, DeriveView(c, today))
	}
	return views
}
