package services

import (
	"fmt"
	"slices"
	"time"

	"tour-route-service/internal/domain"
)

// Anchor is a tour stop with a fixed date and a geocoded venue. Anchors are
// immovable: the sequencer only inserts other stops between them.
type Anchor struct {
	Stop  domain.TourVenueStop
	Venue domain.Venue
	Date  time.Time
	Coord domain.Coordinate
}

// ExtractAnchors selects the date-fixed, feasibility-eligible stops of a tour
// and sorts them chronologically.
//
// A stop qualifies when its status is confirmed, booked or planning, it
// carries a date, and its venue has coordinates. Ties on equal dates break by
// existing sequence when both stops have one, else by venue id, so extraction
// is deterministic and stable.
func ExtractAnchors(stops []domain.TourVenueStop, venues map[int64]domain.Venue) ([]Anchor, error) {
	anchors := make([]Anchor, 0, len(stops))

	for _, stop := range stops {
		if !stop.Status.AnchorEligible() || stop.Date == nil {
			continue
		}

		venue, ok := venues[stop.VenueID]
		if !ok || !venue.HasCoordinates() {
			continue
		}

		anchors = append(anchors, Anchor{
			Stop:  stop,
			Venue: venue,
			Date:  *stop.Date,
			Coord: *venue.Coord,
		})
	}

	if len(anchors) < 2 {
		return nil, fmt.Errorf("%w (got %d)", ErrInsufficientAnchors, len(anchors))
	}

	slices.SortStableFunc(anchors, func(a, b Anchor) int {
		if a.Date.Before(b.Date) {
			return -1
		}
		if a.Date.After(b.Date) {
			return 1
		}
		if a.Stop.Sequence != nil && b.Stop.Sequence != nil && *a.Stop.Sequence != *b.Stop.Sequence {
			if *a.Stop.Sequence < *b.Stop.Sequence {
				return -1
			}
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

	return anchors, nil
}
