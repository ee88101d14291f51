package services

import (
	"fmt"
	"slices"

	"tour-route-service/internal/domain"
	"tour-route-service/internal/geo"
)

// BuildSequence merges anchors, accepted candidate suggestions and floating
// (undated) tour stops into one final ordered route.
//
// Anchor order is fixed and never changed. Accepted suggestions land inside
// their gap at their suggested date. Floating stops are placed by cheapest
// insertion: every slot between consecutive placed stops (including before
// the first and after the last) is tried and the slot with the least
// marginal distance wins, earliest slot on ties. Floating stops are
// processed in ascending venue id order so the result is deterministic.
//
// The returned points carry sequence values 0..N-1. A floating stop whose
// venue lacks coordinates cannot be placed and is reported as a warning.
func BuildSequence(
	anchors []Anchor,
	floating []domain.TourVenueStop,
	venues map[int64]domain.Venue,
	accepted []domain.CandidateSuggestion,
) ([]domain.RoutePoint, []string, error) {
	points := make([]domain.RoutePoint, 0, len(anchors)+len(floating)+len(accepted))
	for _, a := range anchors {
		date := a.Date
		points = append(points, domain.RoutePoint{
			VenueID: a.Venue.VenueID,
			Name:    a.Venue.Name,
			City:    a.Venue.City,
			Coord:   a.Coord,
			Status:  a.Stop.Status,
			Date:    &date,
		})
	}

	// Suggestions carry a date inside their gap window, so date-ordered
	// insertion lands each one between its gap's anchors.
	sorted := slices.Clone(accepted)
	slices.SortStableFunc(sorted, func(a, b domain.CandidateSuggestion) int {
		if a.SuggestedDate.Before(b.SuggestedDate) {
			return -1
		}
		if a.SuggestedDate.After(b.SuggestedDate) {
			return 1
		}
		if a.Venue.VenueID < b.Venue.VenueID {
			return -1
		}
		if a.Venue.VenueID > b.Venue.VenueID {
			return 1
		}
		return 0
	})

	for _, s := range sorted {
		if !s.Venue.HasCoordinates() {
			return nil, nil, fmt.Errorf("build sequence: accepted suggestion venue %d has no coordinates", s.Venue.VenueID)
		}

		date := s.SuggestedDate
		point := domain.RoutePoint{
			VenueID: s.Venue.VenueID,
			Name:    s.Venue.Name,
			City:    s.Venue.City,
			Coord:   *s.Venue.Coord,
			Status:  domain.StatusSuggested,
			Date:    &date,
		}

		pos := len(points)
		for i, p := range points {
			if p.Date != nil && p.Date.After(date) {
				pos = i
				break
			}
		}
		points = slices.Insert(points, pos, point)
	}

	var warnings []string

	floats := slices.Clone(floating)
	slices.SortFunc(floats, func(a, b domain.TourVenueStop) int {
		if a.VenueID < b.VenueID {
			return -1
		}
		if a.VenueID > b.VenueID {
			return 1
		}
		return 0
	})

	for _, stop := range floats {
		venue, ok := venues[stop.VenueID]
		if !ok || !venue.HasCoordinates() {
			warnings = append(warnings, fmt.Sprintf("floating stop venue %d skipped: no coordinates", stop.VenueID))
			continue
		}

		pos, err := cheapestSlot(points, *venue.Coord)
		if err != nil {
			return nil, nil, fmt.Errorf("build sequence: venue %d: %w", stop.VenueID, err)
		}

		points = slices.Insert(points, pos, domain.RoutePoint{
			VenueID: venue.VenueID,
			Name:    venue.Name,
			City:    venue.City,
			Coord:   *venue.Coord,
			Status:  stop.Status,
		})
	}

	for i := range points {
		points[i].Sequence = i
	}

	return points, warnings, nil
}

// cheapestSlot returns the insertion index that adds the least travel
// distance to the route. Slot i means "insert before points[i]"; i ==
// len(points) appends.
func cheapestSlot(points []domain.RoutePoint, coord domain.Coordinate) (int, error) {
	if len(points) == 0 {
		return 0, nil
	}

	best := 0
	bestAdded := -1.0

	for i := 0; i <= len(points); i++ {
		var added float64
		var err error

		switch {
		case i == 0:
			added, err = geo.DistanceKm(coord, points[0].Coord)
		case i == len(points):
			added, err = geo.DistanceKm(points[len(points)-1].Coord, coord)
		default:
			added, err = geo.AddedDistanceKm(points[i-1].Coord, points[i].Coord, coord)
		}
		if err != nil {
			return 0, err
		}

		if bestAdded < 0 || added < bestAdded {
			bestAdded = added
			best = i
		}
	}

	return best, nil
}
