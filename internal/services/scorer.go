package services

import (
	"fmt"

	"tour-route-service/internal/domain"
	"tour-route-service/internal/geo"
)

// Candidates at or above this match score count a gap as covered.
const coveredScoreThreshold = 50.0

// RouteScore aggregates the distance, time and quality metrics of a final
// sequence.
type RouteScore struct {
	TotalDistanceKm        float64
	TotalTravelTimeMinutes float64
	OptimizationScore      float64
}

// ScoreRoute computes totals over the final sequence and blends route
// efficiency with gap coverage into a 0-100 score.
//
// naiveDistanceKm is the distance of the anchors alone in their original,
// unoptimized order; efficiency rewards routes shorter than that baseline. A
// gap counts as covered when at least one of its candidates scores 50 or
// better. With no gaps detected, coverage is treated as full.
func ScoreRoute(
	points []domain.RoutePoint,
	naiveDistanceKm float64,
	gaps []domain.Gap,
	suggestions map[string][]domain.CandidateSuggestion,
	opts Options,
) (RouteScore, error) {
	opts = opts.withDefaults()

	var score RouteScore
	for i := 0; i+1 < len(points); i++ {
		d, err := geo.DistanceKm(points[i].Coord, points[i+1].Coord)
		if err != nil {
			return RouteScore{}, fmt.Errorf("score route: leg %d -> %d: %w", points[i].VenueID, points[i+1].VenueID, err)
		}
		score.TotalDistanceKm += d
		score.TotalTravelTimeMinutes += geo.TravelTimeMinutes(d, opts.AverageSpeedKmh)
	}

	efficiency := 0.0
	if naiveDistanceKm > 0 {
		ratio := score.TotalDistanceKm / naiveDistanceKm
		if ratio > 1 {
			ratio = 1
		}
		efficiency = 1 - ratio
	}

	coverage := 1.0
	if len(gaps) > 0 {
		covered := 0
		for _, g := range gaps {
			for _, s := range suggestions[g.Key()] {
				if s.MatchScore >= coveredScoreThreshold {
					covered++
					break
				}
			}
		}
		coverage = float64(covered) / float64(len(gaps))
	}

	score.OptimizationScore = 100*efficiency*opts.DistanceWeight + 100*coverage*opts.CoverageWeight

	return score, nil
}

// NaiveDistanceKm sums consecutive distances over the anchor-eligible stops
// of a tour in their original input order. This is the pre-optimization
// baseline the scorer measures efficiency against.
func NaiveDistanceKm(stops []domain.TourVenueStop, venues map[int64]domain.Venue) (float64, error) {
	coords := make([]domain.Coordinate, 0, len(stops))
	for _, stop := range stops {
		if !stop.Status.AnchorEligible() || stop.Date == nil {
			continue
		}
		venue, ok := venues[stop.VenueID]
		if !ok || !venue.HasCoordinates() {
			continue
		}
		coords = append(coords, *venue.Coord)
	}

	total := 0.0
	for i := 0; i+1 < len(coords); i++ {
		d, err := geo.DistanceKm(coords[i], coords[i+1])
		if err != nil {
			return 0, fmt.Errorf("naive distance: %w", err)
		}
		total += d
	}
	return total, nil
}
