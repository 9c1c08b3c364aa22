// Package holiday computes the Dutch public-holiday calendar for a given
// year. The movable feasts are derived from Easter Sunday via the anonymous
// Gregorian (century/epact congruence) algorithm; the result is purely a
// function of the year and is never persisted.
package holiday

import (
	"errors"
	"fmt"
	"time"

	"github.com/EdwinCycling/WerkplekPlanner/internal/calendar"
)

// Name is a stable identifier for a public holiday, used as a translation
// key by the presentation layer.
type Name string

const (
	NewYearsDay        Name = "newYearsDay"
	EasterMonday       Name = "easterMonday"
	KingsDay           Name = "kingsDay"
	AscensionDay       Name = "ascensionDay"
	WhitMonday         Name = "whitMonday"
	ChristmasDay       Name = "christmasDay"
	SecondChristmasDay Name = "secondChristmasDay"
)

// ErrYearOutOfRange indicates a year outside the Gregorian validity window.
var ErrYearOutOfRange = errors.New("holiday: year out of range")

// The anonymous Gregorian algorithm is defined for the proleptic range below;
// years outside it are rejected rather than silently miscomputed.
const (
	minYear = 1583
	maxYear = 4099
)

// Set maps canonical yyyy-MM-dd date strings to holiday names. A Set may
// cover one year or a merged span of consecutive years.
type Set map[string]Name

// Contains reports whether the date string is a public holiday in the set.
func (s Set) Contains(date string) bool {
	_, ok := s[date]
	return ok
}

// Lookup returns the holiday name recorded for the date, if any.
func (s Set) Lookup(date string) (Name, bool) {
	name, ok := s[date]
	return name, ok
}

// EasterSunday computes the Gregorian Easter Sunday of the given year.
func EasterSunday(year int) (time.Time, error) {
	if year < minYear || year > maxYear {
		return time.Time{}, fmt.Errorf("%w: %d", ErrYearOutOfRange, year)
	}

	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// ForYear returns the Dutch public holidays of the given year, keyed by
// canonical date string. Every emitted date falls within that year.
func ForYear(year int) (Set, error) {
	easter, err := EasterSunday(year)
	if err != nil {
		return nil, err
	}

	set := make(Set, 7)
	add := func(t time.Time, name Name) {
		set[calendar.DateString(t)] = name
	}

	add(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC), NewYearsDay)
	add(easter.AddDate(0, 0, 1), EasterMonday)

	// King's Day moves to April 26 only when the 27th is a Sunday; a
	// Saturday King's Day is celebrated as-is.
	kingsDay := time.Date(year, time.April, 27, 0, 0, 0, 0, time.UTC)
	if kingsDay.Weekday() == time.Sunday {
		kingsDay = kingsDay.AddDate(0, 0, -1)
	}
	add(kingsDay, KingsDay)

	add(easter.AddDate(0, 0, 39), AscensionDay)
	add(easter.AddDate(0, 0, 50), WhitMonday)
	add(time.Date(year, time.December, 25, 0, 0, 0, 0, time.UTC), ChristmasDay)
	add(time.Date(year, time.December, 26, 0, 0, 0, 0, time.UTC), SecondChristmasDay)

	return set, nil
}

// ForSpan merges the holiday sets of the years firstYear through lastYear
// inclusive, so scans that cross December 31 stay holiday-aware.
func ForSpan(firstYear, lastYear int) (Set, error) {
	if lastYear < firstYear {
		firstYear, lastYear = lastYear, firstYear
	}
	merged := make(Set, 7*(lastYear-firstYear+1))
	for year := firstYear; year <= lastYear; year++ {
		set, err := ForYear(year)
		if err != nil {
			return nil, err
		}
		for date, name := range set {
			merged[date] = name
		}
	}
	return merged, nil
}
