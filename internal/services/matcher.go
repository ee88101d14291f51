package services

import (
	"fmt"
	"slices"
	"time"

	"tour-route-service/internal/domain"
	"tour-route-service/internal/geo"
)

// MatchCandidates proposes venues to fill a single gap, ranked by how little
// detour they add to the direct hop between the gap's anchors.
//
// A candidate may add at most DetourFactor times the direct distance. The
// match score maps zero added distance to 100 and scales down linearly with
// the detour ratio. Returning no candidates is a valid, non-error outcome.
func MatchCandidates(gap domain.Gap, start, end domain.Coordinate, index *CatalogIndex, opts Options) ([]domain.CandidateSuggestion, error) {
	opts = opts.withDefaults()

	// A one-day gap has no day strictly between the anchors, so there is
	// nothing to suggest; a suggestion dated on an anchor's own show date
	// would collide with it.
	window := gap.Window()
	if window.Start.After(window.End) {
		return nil, nil
	}

	maxDetourKm := gap.StraightLineDistanceKm * opts.DetourFactor

	venues, err := index.FindNear(start, end, maxDetourKm, window, !opts.ExcludeUnknownAvailability)
	if err != nil {
		return nil, fmt.Errorf("match candidates: gap %s: %w", gap.Key(), err)
	}

	suggestions := make([]domain.CandidateSuggestion, 0, len(venues))
	for _, v := range venues {
		added, err := geo.AddedDistanceKm(start, end, *v.Coord)
		if err != nil {
			return nil, fmt.Errorf("match candidates: gap %s: venue %d: %w", gap.Key(), v.VenueID, err)
		}

		ratio := 0.0
		if gap.StraightLineDistanceKm > 0 {
			ratio = added / gap.StraightLineDistanceKm
		}

		score := 100 * (1 - ratio)
		if score < 0 {
			score = 0
		}
		if score > 100 {
			score = 100
		}

		suggestions = append(suggestions, domain.CandidateSuggestion{
			Venue:         v,
			GapKey:        gap.Key(),
			SuggestedDate: suggestedDate(gap),
			DetourRatio:   ratio,
			MatchScore:    score,
		})
	}

	slices.SortStableFunc(suggestions, func(a, b domain.CandidateSuggestion) int {
		if a.MatchScore > b.MatchScore {
			return -1
		}
		if a.MatchScore < b.MatchScore {
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

	if len(suggestions) > opts.MaxSuggestionsPerGap {
		suggestions = suggestions[:opts.MaxSuggestionsPerGap]
	}

	return suggestions, nil
}

// suggestedDate picks the day inside the gap window that best centers an
// inserted show between the two anchors, keeping routing flexibility on both
// sides. Ties resolve to the earlier day.
func suggestedDate(gap domain.Gap) time.Time {
	window := gap.Window()

	best := window.Start
	bestSkew := -1
	for day := window.Start; !day.After(window.End); day = day.AddDate(0, 0, 1) {
		sinceStart := daysBetween(gap.StartDate, day)
		untilEnd := daysBetween(day, gap.EndDate)

		skew := sinceStart - untilEnd
		if skew < 0 {
			skew = -skew
		}
		if bestSkew == -1 || skew < bestSkew {
			bestSkew = skew
			best = day
		}
	}

	return best
}
