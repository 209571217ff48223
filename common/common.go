package common

import (
	"errors"
	"time"
)

// SimpleTimeFormat is the human readable format used in logs and reports
const SimpleTimeFormat = "2006-01-02 15:04:05"

// SimpleDateFormat is used when only the calendar date matters, for daily
// mark to market results
const SimpleDateFormat = "2006-01-02"

var (
	// ErrNilArguments is returned when a required argument is nil
	ErrNilArguments = errors.New("received nil argument(s)")
	// ErrStartAfterEnd is returned when a date range is inverted or empty
	ErrStartAfterEnd = errors.New("start date must be before end date")
	// ErrDateUnset is returned when a required date is the zero value
	ErrDateUnset = errors.New("date is unset")
)

// DateOnly truncates a timestamp to its calendar date in UTC
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDay pushes a timestamp to 23:59:59 on its calendar date so that an
// inclusive range covers the full final day
func EndOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from a to b
func DaysBetween(a, b time.Time) int {
	return int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
}
