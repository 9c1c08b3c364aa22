// Package schedule holds the planner's domain model: the location tags a
// user can plan, the immutable schedule snapshot, and the pure aggregations
// computed over it.
package schedule

import (
	"errors"
	"fmt"
)

// Location identifies where a user is on a given day.
type Location string

const (
	LocationHome      Location = "home"
	LocationDelft     Location = "delft"
	LocationEindhoven Location = "eindhoven"
	LocationGent      Location = "gent"
	LocationUtrecht   Location = "utrecht"
	LocationZwolle    Location = "zwolle"
	LocationOther     Location = "other"
	// LocationOff marks a user-chosen vacation or leave day.
	LocationOff Location = "off"
	// LocationScheduledOff marks a pre-assigned non-working day.
	LocationScheduledOff Location = "scheduled_off"
	// LocationHoliday is derived during snapshot assembly for public
	// holidays and is never persisted.
	LocationHoliday Location = "holiday"
)

// ErrInvalidLocation indicates an unknown or non-storable location tag.
var ErrInvalidLocation = errors.New("schedule: invalid location")

// Locations lists every tag a user may store, in presentation order.
func Locations() []Location {
	return []Location{
		LocationHome,
		LocationDelft,
		LocationEindhoven,
		LocationGent,
		LocationUtrecht,
		LocationZwolle,
		LocationOther,
		LocationOff,
		LocationScheduledOff,
	}
}

// ParseLocation validates a storable location tag. The derived holiday tag
// is rejected here: it only ever originates from the holiday prefill.
func ParseLocation(value string) (Location, error) {
	candidate := Location(value)
	for _, loc := range Locations() {
		if loc == candidate {
			return loc, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidLocation, value)
}

// IsWorkplace reports whether the tag represents an actual place of work,
// excluding vacation, scheduled-off and derived holiday tags.
func (l Location) IsWorkplace() bool {
	switch l {
	case LocationOff, LocationScheduledOff, LocationHoliday, "":
		return false
	}
	return true
}

// IsAbsence reports whether the tag marks a non-working day chosen or
// assigned for the user (public holidays are tracked separately).
func (l Location) IsAbsence() bool {
	return l == LocationOff || l == LocationScheduledOff
}
