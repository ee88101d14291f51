package services

import (
	"errors"
	"testing"
	"time"

	"tour-route-service/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(t time.Time) *time.Time { return &t }

func intPtr(n int) *int { return &n }

func coordPtr(lat, lon float64) *domain.Coordinate {
	return &domain.Coordinate{Lat: lat, Lon: lon}
}

func testVenues() map[int64]domain.Venue {
	return map[int64]domain.Venue{
		1: {VenueID: 1, Name: "Ogden Theatre", City: "Denver", Coord: coordPtr(39.7392, -104.9903)},
		2: {VenueID: 2, Name: "Metro", City: "Chicago", Coord: coordPtr(41.8781, -87.6298)},
		3: {VenueID: 3, Name: "Uptown Theater", City: "Kansas City", Coord: coordPtr(39.0997, -94.5786)},
		4: {VenueID: 4, Name: "No Map Hall", City: "Nowhere"},
	}
}

func TestExtractAnchorsFiltersAndSorts(t *testing.T) {
	venues := testVenues()
	stops := []domain.TourVenueStop{
		{VenueID: 2, Status: domain.StatusConfirmed, Date: datePtr(day(2024, 6, 10))},
		{VenueID: 3, Status: domain.StatusCancelled, Date: datePtr(day(2024, 6, 5))},
		{VenueID: 1, Status: domain.StatusBooked, Date: datePtr(day(2024, 6, 1))},
		{VenueID: 4, Status: domain.StatusConfirmed, Date: datePtr(day(2024, 6, 3))}, // no coordinates
		{VenueID: 3, Status: domain.StatusPlanning},                                 // no date -> floating
	}

	anchors, err := ExtractAnchors(stops, venues)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(anchors) != 2 {
		t.Fatalf("expected 2 anchors, got %d", len(anchors))
	}
	if anchors[0].Venue.VenueID != 1 || anchors[1].Venue.VenueID != 2 {
		t.Fatalf("anchors out of order: %d, %d", anchors[0].Venue.VenueID, anchors[1].Venue.VenueID)
	}
}

func TestExtractAnchorsTieBreaks(t *testing.T) {
	venues := testVenues()
	sameDay := day(2024, 6, 5)

	// Equal dates with sequences set: sequence wins over venue id.
	stops := []domain.TourVenueStop{
		{VenueID: 1, Status: domain.StatusConfirmed, Date: datePtr(sameDay), Sequence: intPtr(2)},
		{VenueID: 2, Status: domain.StatusConfirmed, Date: datePtr(sameDay), Sequence: intPtr(1)},
	}

	anchors, err := ExtractAnchors(stops, venues)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if anchors[0].Venue.VenueID != 2 {
		t.Fatalf("expected venue 2 first by sequence, got %d", anchors[0].Venue.VenueID)
	}

	// Equal dates without sequences: lower venue id wins.
	stops = []domain.TourVenueStop{
		{VenueID: 2, Status: domain.StatusConfirmed, Date: datePtr(sameDay)},
		{VenueID: 1, Status: domain.StatusConfirmed, Date: datePtr(sameDay)},
	}

	anchors, err = ExtractAnchors(stops, venues)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if anchors[0].Venue.VenueID != 1 {
		t.Fatalf("expected venue 1 first by id, got %d", anchors[0].Venue.VenueID)
	}
}

func TestExtractAnchorsInsufficient(t *testing.T) {
	venues := testVenues()
	stops := []domain.TourVenueStop{
		{VenueID: 1, Status: domain.StatusConfirmed, Date: datePtr(day(2024, 6, 1))},
		{VenueID: 2, Status: domain.StatusSuggested, Date: datePtr(day(2024, 6, 10))},
	}

	if _, err := ExtractAnchors(stops, venues); !errors.Is(err, ErrInsufficientAnchors) {
		t.Fatalf("expected ErrInsufficientAnchors, got %v", err)
	}
}
