// Package calendar provides the pure workday arithmetic the planner is built
// on: Monday-anchored weeks, weekend-skipping day stepping, relative-day
// classification and the canonical yyyy-MM-dd date form.
package calendar

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DateLayout is the canonical 10-character date form used for all schedule
// keys and wire payloads.
const DateLayout = "2006-01-02"

// ErrInvalidDate indicates a date string deviates from the canonical form.
var ErrInvalidDate = errors.New("calendar: invalid date")

// ParseDate parses a canonical yyyy-MM-dd string at midnight in loc.
// Anything other than the exact 10-character form is rejected, never coerced.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if len(value) != len(DateLayout) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	parsed, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return parsed, nil
}

// DateString renders t in the canonical date form.
func DateString(t time.Time) string {
	return t.Format(DateLayout)
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns midnight of the Monday of t's week.
func StartOfWeek(t time.Time) time.Time {
	start := StartOfDay(t)
	// In Go, Monday == 1 and Sunday == 0.
	offset := (int(start.Weekday()) + 6) % 7
	return start.AddDate(0, 0, -offset)
}

// WorkdaysOfWeek returns Monday through Friday of t's week, in order.
func WorkdaysOfWeek(t time.Time) [5]time.Time {
	monday := StartOfWeek(t)
	var days [5]time.Time
	for i := range days {
		days[i] = monday.AddDate(0, 0, i)
	}
	return days
}

// IsWorkday reports whether t falls on Monday through Friday.
func IsWorkday(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return true
}

// NextWorkday steps one calendar day forward, then skips over the weekend so
// the result always lands on Monday through Friday. Advancing from Friday
// yields the following Monday.
func NextWorkday(t time.Time) time.Time {
	next := StartOfDay(t).AddDate(0, 0, 1)
	switch next.Weekday() {
	case time.Saturday:
		next = next.AddDate(0, 0, 2)
	case time.Sunday:
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// PreviousWorkday steps one calendar day back, then skips over the weekend so
// the result always lands on Monday through Friday. Retreating from Monday
// yields the preceding Friday.
func PreviousWorkday(t time.Time) time.Time {
	prev := StartOfDay(t).AddDate(0, 0, -1)
	switch prev.Weekday() {
	case time.Sunday:
		prev = prev.AddDate(0, 0, -2)
	case time.Saturday:
		prev = prev.AddDate(0, 0, -1)
	}
	return prev
}

// WeekNumber returns the ISO 8601 week number of t.
func WeekNumber(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

// RelativeDay classifies a date against a reference "today".
type RelativeDay int

const (
	// RelativeOther indicates the date is outside the two-day window around
	// the reference; callers render a localized long date instead.
	RelativeOther RelativeDay = iota
	RelativeDayBeforeYesterday
	RelativeYesterday
	RelativeToday
	RelativeTomorrow
	RelativeDayAfterTomorrow
)

// Relative classifies t against referenceToday using whole-day offsets in the
// -2..+2 window. The comparison is calendar-based, so daylight saving
// transitions between the two dates do not shift the outcome.
func Relative(t, referenceToday time.Time) RelativeDay {
	delta := StartOfDay(t).Sub(StartOfDay(referenceToday))
	switch int(math.Round(delta.Hours() / 24)) {
	case -2:
		return RelativeDayBeforeYesterday
	case -1:
		return RelativeYesterday
	case 0:
		return RelativeToday
	case 1:
		return RelativeTomorrow
	case 2:
		return RelativeDayAfterTomorrow
	default:
		return RelativeOther
	}
}
