package services

import (
	"math"
	"testing"

	"tour-route-service/internal/domain"
	"tour-route-service/internal/geo"
)

func TestScoreRouteTotalsMatchRecomputation(t *testing.T) {
	anchors := anchorsFor(t, []domain.TourVenueStop{
		{VenueID: 1, Status: domain.StatusConfirmed, Date: datePtr(day(2024, 6, 1))},
		{VenueID: 3, Status: domain.StatusConfirmed, Date: datePtr(day(2024, 6, 5))},
		{VenueID: 2, Status: domain.StatusConfirmed, Date: datePtr(day(2024, 6, 10))},
	})

	points, _, err := BuildSequence(anchors, nil, testVenues(), nil)
	if err != nil {
		t.Fatalf("build sequence: %v", err)
	}

	score, err := ScoreRoute(points, 0, nil, nil, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Exact recomputation over consecutive pairs of the returned sequence.
	wantKm := 0.0
	wantMin := 0.0
	for i := 0; i+1 < len(points); i++ {
		d, err := geo.DistanceKm(points[i].Coord, points[i+1].Coord)
		if err != nil {
			t.Fatalf("distance: %v", err)
		}
		wantKm += d
		wantMin += geo.TravelTimeMinutes(d, defaultAverageSpeedKmh)
	}

	if math.Abs(score.TotalDistanceKm-wantKm) > 1e-9 {
		t.Fatalf("total distance = %f, want %f", score.TotalDistanceKm, wantKm)
	}
	if math.Abs(score.TotalTravelTimeMinutes-wantMin) > 1e-9 {
		t.Fatalf("total travel time = %f, want %f", score.TotalTravelTimeMinutes, wantMin)
	}
}

func TestScoreRouteCoverage(t *testing.T) {
	gaps := []domain.Gap{
		{StartVenueID: 1, EndVenueID: 2},
		{StartVenueID: 2, EndVenueID: 3},
	}

	suggestions := map[string][]domain.CandidateSuggestion{
		"1->2": {{MatchScore: 92}},
		"2->3": {{MatchScore: 30}}, // below the covered threshold
	}

	score, err := ScoreRoute(nil, 0, gaps, suggestions, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Zero-length route: the efficiency term is 0 (naive distance 0), so
	// the score is pure coverage: 100 * (1/2 covered) * 0.3.
	want := 100 * 0.5 * defaultCoverageWeight
	if math.Abs(score.OptimizationScore-want) > 1e-9 {
		t.Fatalf("score = %f, want %f", score.OptimizationScore, want)
	}
}

func TestScoreRouteDegenerateNaiveDistance(t *testing.T) {
	score, err := ScoreRoute(nil, 0, nil, nil, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// naive == 0 must not divide; efficiency contributes nothing and the
	// gap-free coverage term stands alone.
	want := 100 * defaultCoverageWeight
	if math.Abs(score.OptimizationScore-want) > 1e-9 {
		t.Fatalf("score = %f, want %f", score.OptimizationScore, want)
	}
}

func TestNaiveDistancePreservesInputOrder(t *testing.T) {
	venues := testVenues()

	// Chicago listed before Kansas City: the naive baseline must reflect
	// that unoptimized order, not the date-sorted one.
	stops := []domain.TourVenueStop{
		{VenueID: 1, Status: domain.StatusConfirmed, Date: datePtr(day(2024, 6, 1))},
		{VenueID: 2, Status: domain.StatusConfirmed, Date: datePtr(day(2024, 6, 10))},
		{VenueID: 3, Status: domain.StatusConfirmed, Date: datePtr(day(2024, 6, 5))},
	}

	got, err := NaiveDistanceKm(stops, venues)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d12, _ := geo.DistanceKm(*venues[1].Coord, *venues[2].Coord)
	d23, _ := geo.DistanceKm(*venues[2].Coord, *venues[3].Coord)

	if math.Abs(got-(d12+d23)) > 1e-9 {
		t.Fatalf("naive distance = %f, want %f", got, d12+d23)
	}
}
