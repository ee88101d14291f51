package domain

import "time"

// DateRange is a closed calendar interval during which a venue can host a show.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether the range is well-formed (both endpoints set, end
// not before start). Scraper-fed availability data is best effort, so
// malformed ranges do occur and callers are expected to skip them.
func (r DateRange) Valid() bool {
	return !r.Start.IsZero() && !r.End.IsZero() && !r.End.Before(r.Start)
}

// Overlaps reports whether two ranges share at least one day.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Start.After(other.End) && !other.Start.After(r.End)
}

// Contains reports whether day falls inside the range (inclusive).
func (r DateRange) Contains(day time.Time) bool {
	return !day.Before(r.Start) && !day.After(r.End)
}

// Venue represents a bookable location from the venue catalog.
//
// Coord is nil for venues the scraper could not geocode; such venues are
// excluded from all geographic reasoning. Availability is optional: an empty
// slice means the venue publishes no availability data, which is NOT the same
// as being unavailable.
type Venue struct {
	VenueID      int64
	Name         string
	City         string
	Region       string
	Coord        *Coordinate
	Availability []DateRange
}

// HasCoordinates reports whether the venue can participate in distance math.
func (v Venue) HasCoordinates() bool { return v.Coord != nil }

// AvailableDuring reports whether at least one published availability range
// overlaps the window. Venues with no published availability return
// assumeUnknown, the caller's explicit policy for unknown data.
func (v Venue) AvailableDuring(window DateRange, assumeUnknown bool) bool {
	if len(v.Availability) == 0 {
		return assumeUnknown
	}
	for _, r := range v.Availability {
		if r.Valid() && r.Overlaps(window) {
			return true
		}
	}
	return false
}
