// Package biztime provides the calendar helpers used by metrics.
//
// Metrics are keyed by calendar dates (date_for). A date is represented as a
// time.Time at 00:00 UTC so that it compares and stores consistently across
// drivers. Activity windows for a date are computed in the business timezone
// and converted to UTC for queries.
package biztime

import (
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultTimezone is the default business timezone.
	DefaultTimezone = "UTC"

	// DateLayout is the wire and storage layout of a calendar date.
	DateLayout = "2006-01-02"
)

var (
	bizLocation     *time.Location
	bizLocationOnce sync.Once
	initErr         error
)

// Init initializes the business timezone. Should be called once at startup.
func Init(tz string) error {
	bizLocationOnce.Do(func() {
		if tz == "" {
			tz = DefaultTimezone
		}
		bizLocation, initErr = time.LoadLocation(tz)
	})
	return initErr
}

// MustInit initializes the business timezone and panics on error.
func MustInit(tz string) {
	if err := Init(tz); err != nil {
		panic(fmt.Sprintf("failed to initialize business timezone %q: %v", tz, err))
	}
}

// Location returns the business timezone, initializing the default on first use.
func Location() *time.Location {
	if bizLocation == nil {
		if err := Init(""); err != nil {
			panic(fmt.Sprintf("biztime: failed to auto-initialize with default timezone: %v", err))
		}
	}
	return bizLocation
}

// NowUTC returns current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// Date builds a calendar date value.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DateOf returns the calendar date of t as seen in the business timezone.
func DateOf(t time.Time) time.Time {
	b := t.In(Location())
	return Date(b.Year(), b.Month(), b.Day())
}

// Today returns the current business date.
func Today() time.Time {
	return DateOf(time.Now())
}

// Yesterday returns the business date before Today.
func Yesterday() time.Time {
	return Today().AddDate(0, 0, -1)
}

// FirstOfMonth returns the first calendar date of the month containing date.
func FirstOfMonth(date time.Time) time.Time {
	return Date(date.Year(), date.Month(), 1)
}

// DayBoundsUTC returns [start, end) of the business day for the calendar date, in UTC.
func DayBoundsUTC(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, Location())
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

// MonthToDateBoundsUTC returns [first of month, end of date) in UTC.
func MonthToDateBoundsUTC(date time.Time) (time.Time, time.Time) {
	start, _ := DayBoundsUTC(FirstOfMonth(date))
	_, end := DayBoundsUTC(date)
	return start, end
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

// FormatDateTime renders an instant as RFC 3339 in UTC.
func FormatDateTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// DaysBetween returns the number of whole days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(DateOf(b).Sub(DateOf(a)).Hours() / 24)
}
