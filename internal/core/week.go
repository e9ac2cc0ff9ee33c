package core

import "time"

// Weeks run Saturday through Friday. Every week-scoped computation in the
// system derives its week from the two methods below; nothing else assigns
// dates to weeks.

// WeekStart returns the Saturday on or before d.
func (d Date) WeekStart() Date {
	// Monday=0 ... Sunday=6; Saturday is 5.
	weekday := (int(d.Weekday()) + 6) % 7
	delta := (weekday - 5 + 7) % 7
	return d.AddDays(-delta)
}

// WeekEnd returns the Friday ending the week containing d.
func (d Date) WeekEnd() Date {
	return d.WeekStart().AddDays(6)
}

// WeekdayName returns the English weekday name for d.
func (d Date) WeekdayName() string {
	return d.Weekday().String()
}

// MonthPeriod returns the first and last day of a calendar month, handling
// year rollover via time.Date normalization.
func MonthPeriod(year int, month time.Month) (first, last Date) {
	first = NewDate(year, month, 1)
	last = Date{Time: time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)}
	return first, last
}
