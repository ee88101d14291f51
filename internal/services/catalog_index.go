package services

import (
	"fmt"

	"tour-route-service/internal/domain"
	"tour-route-service/internal/geo"
)

// CatalogIndex is an in-memory lookup over the candidate venue pool, built
// once per optimization run from an immutable snapshot.
//
// At this corpus scale (tens to low hundreds of venues) a linear scan with
// the detour filter is O(venues) per gap and needs no spatial index.
type CatalogIndex struct {
	venues   []domain.Venue
	warnings []string
}

// BuildCatalogIndex filters the pool down to venues eligible for geographic
// reasoning. Venues already on the tour and venues without coordinates are
// silently excluded; venues whose availability data is malformed are skipped
// with a recorded warning, never an error.
func BuildCatalogIndex(pool []domain.Venue, excludeIDs map[int64]struct{}) *CatalogIndex {
	ix := &CatalogIndex{venues: make([]domain.Venue, 0, len(pool))}

	for _, v := range pool {
		if _, onTour := excludeIDs[v.VenueID]; onTour {
			continue
		}
		if !v.HasCoordinates() {
			continue
		}
		if err := v.Coord.Validate(); err != nil {
			ix.warnings = append(ix.warnings, fmt.Sprintf("venue %d (%s) skipped: %v", v.VenueID, v.Name, err))
			continue
		}
		if bad := malformedAvailability(v); bad {
			ix.warnings = append(ix.warnings, fmt.Sprintf("venue %d (%s) skipped: malformed availability range", v.VenueID, v.Name))
			continue
		}
		ix.venues = append(ix.venues, v)
	}

	return ix
}

// Size returns the number of indexed venues.
func (ix *CatalogIndex) Size() int { return len(ix.venues) }

// Warnings returns per-venue ingestion warnings recorded while building.
func (ix *CatalogIndex) Warnings() []string { return ix.warnings }

// FindNear returns venues whose insertion between corridorStart and
// corridorEnd adds at most maxDetourKm of travel, and whose availability
// (when published) overlaps the window. assumeUnknown is the explicit policy
// for venues with no availability data.
func (ix *CatalogIndex) FindNear(
	corridorStart, corridorEnd domain.Coordinate,
	maxDetourKm float64,
	window domain.DateRange,
	assumeUnknown bool,
) ([]domain.Venue, error) {
	out := make([]domain.Venue, 0)

	for _, v := range ix.venues {
		added, err := geo.AddedDistanceKm(corridorStart, corridorEnd, *v.Coord)
		if err != nil {
			// Coordinates were validated at build time.
			return nil, fmt.Errorf("find near: venue %d: %w", v.VenueID, err)
		}
		if added > maxDetourKm {
			continue
		}
		if !v.AvailableDuring(window, assumeUnknown) {
			continue
		}
		out = append(out, v)
	}

	return out, nil
}

func malformedAvailability(v domain.Venue) bool {
	for _, r := range v.Availability {
		if !r.Valid() {
			return true
		}
	}
	return false
}
