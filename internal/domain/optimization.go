package domain

import (
	"fmt"
	"time"
)

// Gap is a calendar interval between two consecutive anchors wide enough to
// plausibly host an additional show. Derived per optimization run, never
// persisted.
type Gap struct {
	StartVenueID           int64
	EndVenueID             int64
	StartDate              time.Time
	EndDate                time.Time
	DaysBetween            int
	StraightLineDistanceKm float64
}

// Key identifies the gap inside one optimization result.
func (g Gap) Key() string { return fmt.Sprintf("%d->%d", g.StartVenueID, g.EndVenueID) }

// Window is the insertable date window strictly between the two anchors.
func (g Gap) Window() DateRange {
	return DateRange{
		Start: g.StartDate.AddDate(0, 0, 1),
		End:   g.EndDate.AddDate(0, 0, -1),
	}
}

// CandidateSuggestion is a venue proposed to fill a gap, with the date that
// centers it between the gap's anchors. Discarded unless the caller applies
// it, at which point it becomes a real TourVenueStop.
type CandidateSuggestion struct {
	Venue         Venue
	GapKey        string
	SuggestedDate time.Time
	DetourRatio   float64
	MatchScore    float64
}

// RoutePoint is one entry of an ordered route: a venue annotated with the
// data the dashboard renders on a route card.
type RoutePoint struct {
	VenueID  int64
	Name     string
	City     string
	Coord    Coordinate
	Status   StopStatus
	Date     *time.Time
	Sequence int
}

// OptimizationResult is the transient output of one optimization run.
// Persisting any of it is a separate, explicit apply step.
type OptimizationResult struct {
	TourID                 int64
	TourVersion            int64
	FixedPoints            []RoutePoint
	Sequence               []RoutePoint
	Gaps                   []Gap
	PotentialFillVenues    map[string][]CandidateSuggestion
	TotalDistanceKm        float64
	TotalTravelTimeMinutes float64
	OptimizationScore      float64
	Warnings               []string
}
