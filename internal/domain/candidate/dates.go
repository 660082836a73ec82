package candidate

import (
	"fmt"
	"time"
)

// LayoutDate is the wire format of every date field.
const LayoutDate = "2006-01-02"

const secondsPerDay = 24 * 60 * 60

// Date returns the calendar date y-m-d as midnight UTC.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the clock part of t, keeping the civil date seen in t's location.
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(LayoutDate, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders d as YYYY-MM-DD.
func FormatDate(d time.Time) string {
	return d.Format(LayoutDate)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// WithYear moves d to year, clamping Feb 29 to Feb 28 when year is not leap.
// time.AddDate would normalise to Mar 1 instead.
func WithYear(d time.Time, year int) time.Time {
	_, m, day := d.Date()
	if last := daysIn(year, m); day > last {
		day = last
	}
	return Date(year, m, day)
}

// AddYears adds n calendar years to d with the same clamping as WithYear.
func AddYears(d time.Time, n int) time.Time {
	return WithYear(d, d.Year()+n)
}

// MonthsBetween counts whole calendar months from a to b. A month is only
// complete once b's day-of-month reaches a's. Negative when b precedes a.
func MonthsBetween(a, b time.Time) int64 {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	months := int64(by-ay)*12 + int64(bm-am)
	switch {
	case months > 0 && bd < ad:
		months--
	case months < 0 && bd > ad:
		months++
	}
	return months
}

// YearsBetween counts whole years from a to b.
func YearsBetween(a, b time.Time) int {
	return int(MonthsBetween(a, b) / 12)
}

// DaysBetween counts calendar days from a to b.
func DaysBetween(a, b time.Time) int64 {
	return (Truncate(b).Unix() - Truncate(a).Unix()) / secondsPerDay
}
