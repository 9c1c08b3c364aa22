package schedule

// Snapshot is an immutable point-in-time copy of the per-user/per-date
// location map. Dates are canonical yyyy-MM-dd strings; absence of an entry
// means "unset", not a default location. Every mutation returns a fresh
// snapshot, so concurrent readers of an installed snapshot are always safe.
type Snapshot struct {
	version uint64
	entries map[string]map[string]Location
}

// NewSnapshot deep-copies the provided entries into a snapshot with the
// given version. Nil maps are tolerated.
func NewSnapshot(entries map[string]map[string]Location, version uint64) *Snapshot {
	copied := make(map[string]map[string]Location, len(entries))
	for userID, days := range entries {
		if len(days) == 0 {
			continue
		}
		inner := make(map[string]Location, len(days))
		for date, loc := range days {
			inner[date] = loc
		}
		copied[userID] = inner
	}
	return &Snapshot{version: version, entries: copied}
}

// Version returns the monotonically increasing snapshot version used as a
// memoization key by derived-view caches.
func (s *Snapshot) Version() uint64 {
	if s == nil {
		return 0
	}
	return s.version
}

// Lookup returns the location recorded for (userID, date). Missing users or
// dates yield ok == false, never an error.
func (s *Snapshot) Lookup(userID, date string) (Location, bool) {
	if s == nil {
		return "", false
	}
	days, ok := s.entries[userID]
	if !ok {
		return "", false
	}
	loc, ok := days[date]
	return loc, ok
}

// EntriesForUser returns a copy of the user's date/location map.
func (s *Snapshot) EntriesForUser(userID string) map[string]Location {
	if s == nil {
		return nil
	}
	days, ok := s.entries[userID]
	if !ok {
		return nil
	}
	out := make(map[string]Location, len(days))
	for date, loc := range days {
		out[date] = loc
	}
	return out
}

// Entries returns a deep copy of the full map, for serialization.
func (s *Snapshot) Entries() map[string]map[string]Location {
	if s == nil {
		return nil
	}
	out := make(map[string]map[string]Location, len(s.entries))
	for userID, days := range s.entries {
		inner := make(map[string]Location, len(days))
		for date, loc := range days {
			inner[date] = loc
		}
		out[userID] = inner
	}
	return out
}

// WithEntry returns a snapshot with (userID, date) set to loc. The receiver
// is never modified. Re-applying an update that is already present returns
// the receiver unchanged, so updates are idempotent.
func (s *Snapshot) WithEntry(userID, date string, loc Location) *Snapshot {
	if s == nil {
		return NewSnapshot(map[string]map[string]Location{userID: {date: loc}}, 1)
	}
	if existing, ok := s.Lookup(userID, date); ok && existing == loc {
		return s
	}
	next := NewSnapshot(s.entries, s.version+1)
	days, ok := next.entries[userID]
	if !ok {
		days = make(map[string]Location, 1)
		next.entries[userID] = days
	}
	days[date] = loc
	return next
}

// WithoutEntry returns a snapshot with the (userID, date) cell removed. The
// receiver is never modified. Removing a cell that is not present returns
// the receiver unchanged.
func (s *Snapshot) WithoutEntry(userID, date string) *Snapshot {
	if s == nil {
		return nil
	}
	if _, ok := s.Lookup(userID, date); !ok {
		return s
	}
	next := NewSnapshot(s.entries, s.version+1)
	delete(next.entries[userID], date)
	if len(next.entries[userID]) == 0 {
		delete(next.entries, userID)
	}
	return next
}
