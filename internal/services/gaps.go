package services

import (
	"fmt"
	"time"

	"tour-route-service/internal/domain"
	"tour-route-service/internal/geo"
)

// DetectGaps walks consecutive anchor pairs and flags calendar gaps wide
// enough to host an additional show.
//
// A gap is emitted whenever the pair is at least MinGapDays apart,
// regardless of distance: even a short hop can host an extra date. Gaps are
// independent; how many suggestions each receives is the matcher's call.
func DetectGaps(anchors []Anchor, opts Options) ([]domain.Gap, error) {
	opts = opts.withDefaults()

	gaps := make([]domain.Gap, 0)
	for i := 0; i+1 < len(anchors); i++ {
		a, b := anchors[i], anchors[i+1]

		days := daysBetween(a.Date, b.Date)
		if days < opts.MinGapDays {
			continue
		}

		dist, err := geo.DistanceKm(a.Coord, b.Coord)
		if err != nil {
			return nil, fmt.Errorf("detect gaps: %d -> %d: %w", a.Venue.VenueID, b.Venue.VenueID, err)
		}

		gaps = append(gaps, domain.Gap{
			StartVenueID:           a.Venue.VenueID,
			EndVenueID:             b.Venue.VenueID,
			StartDate:              a.Date,
			EndDate:                b.Date,
			DaysBetween:            days,
			StraightLineDistanceKm: dist,
		})
	}

	return gaps, nil
}

// daysBetween counts whole calendar days from a to b, ignoring time of day.
func daysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}
