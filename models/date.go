package models

import (
	"fmt"
	"time"
)

// Date is a calendar day with no time-of-day and no timezone. Timestamps
// are interpreted as local wall-clock throughout the engine; Date is the
// only date representation outside the storage boundary.
type Date struct {
	Year  int
	Month int
	Day   int
}

// NewDate creates a Date from year, month, and day
func NewDate(year, month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate parses a YYYY-MM-DD string into a Date
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateFromTime(t), nil
}

// DateFromTime truncates a time.Time to its calendar day
func DateFromTime(t time.Time) Date {
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// DateFromMillis converts a Unix-ms timestamp to the calendar day it falls on
func DateFromMillis(ms int64) Date {
	return DateFromTime(time.UnixMilli(ms))
}

// String returns the canonical YYYY-MM-DD form used in SQL
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Time returns midnight local time of the day
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.Local)
}

// IsZero reports whether the date is the zero value
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// AddDays returns the date n days later (or earlier for negative n)
func (d Date) AddDays(n int) Date {
	return DateFromTime(d.Time().AddDate(0, 0, n))
}

// Before reports whether d is strictly earlier than other
func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// After reports whether d is strictly later than other
func (d Date) After(other Date) bool {
	return other.Before(d)
}

// Equal reports whether the two dates are the same calendar day
func (d Date) Equal(other Date) bool {
	return d.Year == other.Year && d.Month == other.Month && d.Day == other.Day
}

// DaysBetween returns d - other in whole days (positive when d is later)
func (d Date) DaysBetween(other Date) int {
	return int(d.Time().Sub(other.Time()).Hours() / 24)
}

// UnixMillis returns midnight of the day as Unix milliseconds
func (d Date) UnixMillis() int64 {
	return d.Time().UnixMilli()
}

// StartOfDayMillis returns the first millisecond of the day
func (d Date) StartOfDayMillis() int64 {
	return d.UnixMillis()
}

// EndOfDayMillis returns the last millisecond of the day
func (d Date) EndOfDayMillis() int64 {
	return d.AddDays(1).UnixMillis() - 1
}

// Weekday returns the day of week
func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// DeriveSeasonYear maps a calendar date to an NFL season year. Aug 1
// begins a new season year: months 8-12 belong to the date's calendar
// year, months 1-7 to the previous one. This is the single date-based
// business rule in the engine.
func DeriveSeasonYear(d Date) int {
	if d.Month >= 8 {
		return d.Year
	}
	return d.Year - 1
}

// FirstThursdayOfAugust returns the computed preseason start for a season
// year when no preseason games are scheduled yet.
func FirstThursdayOfAugust(year int) Date {
	d := NewDate(year, 8, 1)
	for d.Weekday() != time.Thursday {
		d = d.AddDays(1)
	}
	return d
}

// FirstThursdayOfSeptember returns the conventional regular-season kickoff
// day for a season year.
func FirstThursdayOfSeptember(year int) Date {
	d := NewDate(year, 9, 1)
	for d.Weekday() != time.Thursday {
		d = d.AddDays(1)
	}
	return d
}
