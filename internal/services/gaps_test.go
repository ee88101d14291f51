package services

import (
	"testing"

	"tour-route-service/internal/domain"
)

func anchorsFor(t *testing.T, stops []domain.TourVenueStop) []Anchor {
	t.Helper()
	anchors, err := ExtractAnchors(stops, testVenues())
	if err != nil {
		t.Fatalf("extract anchors: %v", err)
	}
	return anchors
}

func TestDetectGapsNineDayWindow(t *testing.T) {
	anchors := anchorsFor(t, []domain.TourVenueStop{
		{VenueID: 1, Status: domain.StatusConfirmed, Date: datePtr(day(2024, 6, 1))},
		{VenueID: 2, Status: domain.StatusConfirmed, Date: datePtr(day(2024, 6, 10))},
	})

	gaps, err := DetectGaps(anchors, Options{MinGapDays: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(gaps) != 1 {
		t.Fatalf("expected 1 gap, got %d", len(gaps))
	}
	g := gaps[0]
	if g.DaysBetween != 9 {
		t.Fatalf("daysBetween = %d, want 9", g.DaysBetween)
	}
	if g.StartVenueID != 1 || g.EndVenueID != 2 {
		t.Fatalf("gap endpoints = %d -> %d, want 1 -> 2", g.StartVenueID, g.EndVenueID)
	}
	if g.StraightLineDistanceKm < 1400 || g.StraightLineDistanceKm > 1560 {
		t.Fatalf("straight-line distance = %f, want ~1480", g.StraightLineDistanceKm)
	}
}

func TestDetectGapsBelowMinimum(t *testing.T) {
	anchors := anchorsFor(t, []domain.TourVenueStop{
		{VenueID: 1, Status: domain.StatusConfirmed, Date: datePtr(day(2024, 6, 1))},
		{VenueID: 2, Status: domain.StatusConfirmed, Date: datePtr(day(2024, 6, 3))},
	})

	gaps, err := DetectGaps(anchors, Options{MinGapDays: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gaps) != 0 {
		t.Fatalf("expected no gaps for a 2-day pair, got %d", len(gaps))
	}
}

func TestDetectGapsEveryQualifyingPair(t *testing.T) {
	anchors := anchorsFor(t, []domain.TourVenueStop{
		{VenueID: 1, Status: domain.StatusConfirmed, Date: datePtr(day(2024, 6, 1))},
		{VenueID: 3, Status: domain.StatusConfirmed, Date: datePtr(day(2024, 6, 6))},
		{VenueID: 2, Status: domain.StatusConfirmed, Date: datePtr(day(2024, 6, 12))},
	})

	gaps, err := DetectGaps(anchors, Options{MinGapDays: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gaps) != 2 {
		t.Fatalf("expected both consecutive pairs emitted, got %d", len(gaps))
	}
	if gaps[0].Key() != "1->3" || gaps[1].Key() != "3->2" {
		t.Fatalf("gap keys = %s, %s", gaps[0].Key(), gaps[1].Key())
	}
}
