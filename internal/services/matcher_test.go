package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour-route-service/internal/domain"
)

var (
	denverCoord  = domain.Coordinate{Lat: 39.7392, Lon: -104.9903}
	chicagoCoord = domain.Coordinate{Lat: 41.8781, Lon: -87.6298}
)

func denverChicagoGap(t *testing.T) domain.Gap {
	t.Helper()
	anchors := anchorsFor(t, []domain.TourVenueStop{
		{VenueID: 1, Status: domain.StatusConfirmed, Date: datePtr(day(2024, 6, 1))},
		{VenueID: 2, Status: domain.StatusConfirmed, Date: datePtr(day(2024, 6, 10))},
	})
	gaps, err := DetectGaps(anchors, Options{MinGapDays: 3})
	require.NoError(t, err)
	require.Len(t, gaps, 1)
	return gaps[0]
}

func TestMatchCandidatesOnCorridor(t *testing.T) {
	gap := denverChicagoGap(t)

	pool := []domain.Venue{
		{VenueID: 10, Name: "Uptown Theater", City: "Kansas City", Coord: coordPtr(39.0997, -94.5786)},
	}
	index := BuildCatalogIndex(pool, map[int64]struct{}{1: {}, 2: {}})

	got, err := MatchCandidates(gap, denverCoord, chicagoCoord, index, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, got, 1)

	kc := got[0]
	assert.Equal(t, int64(10), kc.Venue.VenueID)
	assert.Equal(t, gap.Key(), kc.GapKey)
	// Kansas City sits roughly on the direct Denver-Chicago line.
	assert.Greater(t, kc.MatchScore, 85.0)
	assert.GreaterOrEqual(t, kc.DetourRatio, 0.0)
	assert.LessOrEqual(t, kc.DetourRatio, defaultDetourFactor)
}

func TestMatchCandidatesOffCorridor(t *testing.T) {
	gap := denverChicagoGap(t)

	pool := []domain.Venue{
		{VenueID: 11, Name: "The Fillmore", City: "Miami", Coord: coordPtr(25.7617, -80.1918)},
	}
	index := BuildCatalogIndex(pool, nil)

	got, err := MatchCandidates(gap, denverCoord, chicagoCoord, index, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, got, "Miami is far off the corridor and must not be suggested")
}

func TestMatchCandidatesSuggestedDateCentersTheShow(t *testing.T) {
	gap := denverChicagoGap(t)

	pool := []domain.Venue{
		{VenueID: 10, Name: "Uptown Theater", City: "Kansas City", Coord: coordPtr(39.0997, -94.5786)},
	}
	index := BuildCatalogIndex(pool, nil)

	got, err := MatchCandidates(gap, denverCoord, chicagoCoord, index, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, got, 1)

	// Window is Jun 2 - Jun 9; Jun 5 and Jun 6 center equally, earlier wins.
	assert.Equal(t, day(2024, 6, 5), got[0].SuggestedDate)
}

func TestMatchCandidatesOneDayGapYieldsNothing(t *testing.T) {
	// With min_gap_days lowered to 1, consecutive show dates still form a
	// gap, but there is no day between them to host an inserted show.
	anchors := anchorsFor(t, []domain.TourVenueStop{
		{VenueID: 1, Status: domain.StatusConfirmed, Date: datePtr(day(2024, 6, 1))},
		{VenueID: 2, Status: domain.StatusConfirmed, Date: datePtr(day(2024, 6, 2))},
	})
	gaps, err := DetectGaps(anchors, Options{MinGapDays: 1})
	require.NoError(t, err)
	require.Len(t, gaps, 1)

	pool := []domain.Venue{
		{VenueID: 10, Name: "Uptown Theater", City: "Kansas City", Coord: coordPtr(39.0997, -94.5786)},
	}
	index := BuildCatalogIndex(pool, nil)

	opts := DefaultOptions()
	opts.MinGapDays = 1
	got, err := MatchCandidates(gaps[0], denverCoord, chicagoCoord, index, opts)
	require.NoError(t, err)
	assert.Empty(t, got, "a suggestion would have to land on an anchor's own show date")
}

func TestMatchCandidatesAvailabilityWindow(t *testing.T) {
	gap := denverChicagoGap(t)

	kcInWindow := domain.Venue{
		VenueID: 10, Name: "Uptown Theater", City: "Kansas City",
		Coord:        coordPtr(39.0997, -94.5786),
		Availability: []domain.DateRange{{Start: day(2024, 6, 3), End: day(2024, 6, 7)}},
	}
	kcOutOfWindow := domain.Venue{
		VenueID: 12, Name: "The Truman", City: "Kansas City",
		Coord:        coordPtr(39.0919, -94.5833),
		Availability: []domain.DateRange{{Start: day(2024, 8, 1), End: day(2024, 8, 31)}},
	}
	kcUnknown := domain.Venue{
		VenueID: 13, Name: "Knuckleheads", City: "Kansas City",
		Coord: coordPtr(39.1167, -94.5500),
	}

	index := BuildCatalogIndex([]domain.Venue{kcInWindow, kcOutOfWindow, kcUnknown}, nil)

	got, err := MatchCandidates(gap, denverCoord, chicagoCoord, index, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, got, 2, "overlapping and unknown availability qualify; out-of-window does not")
	for _, s := range got {
		assert.NotEqual(t, int64(12), s.Venue.VenueID)
	}

	strict := DefaultOptions()
	strict.ExcludeUnknownAvailability = true
	got, err = MatchCandidates(gap, denverCoord, chicagoCoord, index, strict)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(10), got[0].Venue.VenueID)
}

func TestMatchCandidatesRankingAndCap(t *testing.T) {
	gap := denverChicagoGap(t)

	// Four corridor venues; cap at 3 keeps the best-scoring three.
	pool := []domain.Venue{
		{VenueID: 10, Name: "Uptown Theater", City: "Kansas City", Coord: coordPtr(39.0997, -94.5786)},
		{VenueID: 20, Name: "Slowdown", City: "Omaha", Coord: coordPtr(41.2565, -95.9345)},
		{VenueID: 30, Name: "Bourbon Theatre", City: "Lincoln", Coord: coordPtr(40.8137, -96.7026)},
		{VenueID: 40, Name: "Wildwood", City: "Iowa City", Coord: coordPtr(41.6611, -91.5302)},
	}
	index := BuildCatalogIndex(pool, nil)

	got, err := MatchCandidates(gap, denverCoord, chicagoCoord, index, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, got, defaultMaxSuggestionsPerGap)

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].MatchScore, got[i].MatchScore, "suggestions must be sorted by score desc")
	}
	for _, s := range got {
		assert.GreaterOrEqual(t, s.DetourRatio, 0.0)
		assert.LessOrEqual(t, s.DetourRatio, defaultDetourFactor)
	}
}

func TestBuildCatalogIndexSkipsMalformedAvailability(t *testing.T) {
	broken := domain.Venue{
		VenueID: 50, Name: "Backwards Hall", City: "St. Louis",
		Coord:        coordPtr(38.6270, -90.1994),
		Availability: []domain.DateRange{{Start: day(2024, 6, 9), End: day(2024, 6, 1)}},
	}
	fine := domain.Venue{
		VenueID: 10, Name: "Uptown Theater", City: "Kansas City",
		Coord: coordPtr(39.0997, -94.5786),
	}

	index := BuildCatalogIndex([]domain.Venue{broken, fine}, nil)

	assert.Equal(t, 1, index.Size())
	require.Len(t, index.Warnings(), 1)
	assert.Contains(t, index.Warnings()[0], "malformed availability")
}

func TestBuildCatalogIndexExcludesTourVenuesAndUnmapped(t *testing.T) {
	pool := []domain.Venue{
		{VenueID: 1, Name: "Ogden Theatre", City: "Denver", Coord: coordPtr(39.7392, -104.9903)},
		{VenueID: 4, Name: "No Map Hall", City: "Nowhere"},
		{VenueID: 10, Name: "Uptown Theater", City: "Kansas City", Coord: coordPtr(39.0997, -94.5786)},
	}

	index := BuildCatalogIndex(pool, map[int64]struct{}{1: {}})

	assert.Equal(t, 1, index.Size())
	assert.Empty(t, index.Warnings(), "missing coordinates are a silent exclusion")
}
