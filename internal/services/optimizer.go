package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"

	"tour-route-service/internal/domain"
	"tour-route-service/internal/platform/obs"
	"tour-route-service/internal/ports"
)

// Stages of one optimization run, in order. Used for error context and
// deadline checks between stages; no partial results escape before scoring
// finishes.
type stage string

const (
	stageExtracting stage = "extracting"
	stageDetecting  stage = "detecting"
	stageMatching   stage = "matching"
	stageSequencing stage = "sequencing"
	stageScoring    stage = "scoring"
)

// Matching fans out per gap; gaps are independent, so a small bounded pool
// keeps large venue pools responsive without hurting determinism.
const matchWorkers = 4

// Optimizer is the engine's public entry point. It wires anchor extraction,
// gap detection, candidate matching, sequencing and scoring into a single
// synchronous run over an immutable snapshot of the tour and venue pool.
//
// Runs for different tours share no mutable state, so concurrent Optimize
// calls need no locking. Apply serialization is the store's job (optimistic
// version check).
type Optimizer struct {
	Tours  ports.TourStore
	Venues ports.VenueCatalog
}

func NewOptimizer(tours ports.TourStore, venues ports.VenueCatalog) *Optimizer {
	return &Optimizer{Tours: tours, Venues: venues}
}

type gapMatch struct {
	idx         int
	suggestions []domain.CandidateSuggestion
	err         error
}

// Optimize computes a travel-efficient sequence, detected gaps, ranked fill
// suggestions per gap and a 0-100 score for the tour. The result is
// transient; persisting any of it requires a separate Apply call.
func (o *Optimizer) Optimize(ctx context.Context, tourID int64, opts Options) (_ *domain.OptimizationResult, err error) {
	defer obs.Time(ctx, "optimizer.Optimize")(&err)

	opts = opts.withDefaults()

	stops, version, err := o.Tours.GetTourVenues(ctx, tourID)
	if err != nil {
		return nil, fmt.Errorf("optimize: get tour venues: %w", err)
	}

	tourVenueIDs := make([]int64, 0, len(stops))
	for _, s := range stops {
		tourVenueIDs = append(tourVenueIDs, s.VenueID)
	}

	venues, err := o.Venues.GetVenues(ctx, tourVenueIDs)
	if err != nil {
		return nil, fmt.Errorf("optimize: get tour venue records: %w", err)
	}

	pool, err := o.Venues.GetCandidateVenuePool(ctx, tourVenueIDs)
	if err != nil {
		return nil, fmt.Errorf("optimize: get candidate venue pool: %w", err)
	}

	if err := checkDeadline(ctx, stageExtracting); err != nil {
		return nil, err
	}
	anchors, err := ExtractAnchors(stops, venues)
	if err != nil {
		return nil, err
	}

	if err := checkDeadline(ctx, stageDetecting); err != nil {
		return nil, err
	}
	gaps, err := DetectGaps(anchors, opts)
	if err != nil {
		return nil, err
	}

	if err := checkDeadline(ctx, stageMatching); err != nil {
		return nil, err
	}

	exclude := make(map[int64]struct{}, len(tourVenueIDs))
	for _, id := range tourVenueIDs {
		exclude[id] = struct{}{}
	}
	index := BuildCatalogIndex(pool, exclude)
	warnings := slices.Clone(index.Warnings())

	// An empty pool is a valid run with no fill suggestions, not an error.
	if index.Size() == 0 {
		log.Printf("optimize tour_id=%d: empty candidate venue pool", tourID)
	}

	suggestions, err := o.matchGaps(gaps, anchors, index, opts)
	if err != nil {
		return nil, err
	}

	if err := checkDeadline(ctx, stageSequencing); err != nil {
		return nil, err
	}

	floating := make([]domain.TourVenueStop, 0)
	for _, s := range stops {
		if s.Floating() {
			floating = append(floating, s)
		}
	}

	sequence, seqWarnings, err := BuildSequence(anchors, floating, venues, nil)
	if err != nil {
		return nil, fmt.Errorf("optimize: %s: %w", stageSequencing, err)
	}
	warnings = append(warnings, seqWarnings...)

	if err := checkDeadline(ctx, stageScoring); err != nil {
		return nil, err
	}

	naive, err := NaiveDistanceKm(stops, venues)
	if err != nil {
		return nil, fmt.Errorf("optimize: %s: %w", stageScoring, err)
	}

	score, err := ScoreRoute(sequence, naive, gaps, suggestions, opts)
	if err != nil {
		return nil, fmt.Errorf("optimize: %s: %w", stageScoring, err)
	}

	fixed := make([]domain.RoutePoint, 0, len(anchors))
	for i, a := range anchors {
		date := a.Date
		fixed = append(fixed, domain.RoutePoint{
			VenueID:  a.Venue.VenueID,
			Name:     a.Venue.Name,
			City:     a.Venue.City,
			Coord:    a.Coord,
			Status:   a.Stop.Status,
			Date:     &date,
			Sequence: i,
		})
	}

	return &domain.OptimizationResult{
		TourID:                 tourID,
		TourVersion:            version,
		FixedPoints:            fixed,
		Sequence:               sequence,
		Gaps:                   gaps,
		PotentialFillVenues:    suggestions,
		TotalDistanceKm:        score.TotalDistanceKm,
		TotalTravelTimeMinutes: score.TotalTravelTimeMinutes,
		OptimizationScore:      score.OptimizationScore,
		Warnings:               warnings,
	}, nil
}

// matchGaps runs candidate matching for every gap with a bounded worker
// pool. Output order follows the (date-sorted) gap order regardless of which
// worker finished first.
func (o *Optimizer) matchGaps(gaps []domain.Gap, anchors []Anchor, index *CatalogIndex, opts Options) (map[string][]domain.CandidateSuggestion, error) {
	out := make(map[string][]domain.CandidateSuggestion, len(gaps))
	if len(gaps) == 0 {
		return out, nil
	}

	coords := make(map[int64]domain.Coordinate, len(anchors))
	for _, a := range anchors {
		coords[a.Venue.VenueID] = a.Coord
	}

	sem := make(chan struct{}, matchWorkers)
	results := make(chan gapMatch, len(gaps))
	var wg sync.WaitGroup

	for i, gap := range gaps {
		wg.Add(1)
		go func(idx int, g domain.Gap) {
			sem <- struct{}{}
			defer wg.Done()
			defer func() { <-sem }()

			s, err := MatchCandidates(g, coords[g.StartVenueID], coords[g.EndVenueID], index, opts)
			results <- gapMatch{idx: idx, suggestions: s, err: err}
		}(i, gap)
	}

	wg.Wait()
	close(results)

	var matchErr error
	for res := range results {
		if res.err != nil {
			if matchErr == nil {
				matchErr = res.err
			}
			continue
		}
		out[gaps[res.idx].Key()] = res.suggestions
	}
	if matchErr != nil {
		return nil, fmt.Errorf("optimize: %s: %w", stageMatching, matchErr)
	}

	return out, nil
}

// Apply persists the caller's chosen subset of suggestions and final order
// through the tour store. Each accepted suggestion becomes a real stop with
// status planning and its suggested date. The write is atomic and guarded by
// the tour version captured at optimize time; a concurrent modification
// surfaces as ErrApplyConflict, distinct from optimization errors, and
// leaves the computed result untouched.
func (o *Optimizer) Apply(
	ctx context.Context,
	tourID int64,
	acceptedIDs []int64,
	finalSequence []int64,
	result *domain.OptimizationResult,
) (_ *domain.AppliedTour, err error) {
	defer obs.Time(ctx, "optimizer.Apply")(&err)

	if result == nil {
		return nil, errors.New("apply: result must be non-nil")
	}

	accepted, err := pickAccepted(result, acceptedIDs)
	if err != nil {
		return nil, err
	}

	stops, version, err := o.Tours.GetTourVenues(ctx, tourID)
	if err != nil {
		return nil, fmt.Errorf("apply: get tour venues: %w", err)
	}
	if version != result.TourVersion {
		return nil, fmt.Errorf("%w: tour version %d, result computed at %d", ErrApplyConflict, version, result.TourVersion)
	}

	for _, s := range accepted {
		date := s.SuggestedDate
		stops = append(stops, domain.TourVenueStop{
			VenueID: s.Venue.VenueID,
			Status:  domain.StatusPlanning,
			Date:    &date,
		})
	}

	ordered := orderStops(stops, finalSequence, result)

	applied, err := o.Tours.ApplyPlan(ctx, tourID, ordered, result.TourVersion)
	if err != nil {
		if errors.Is(err, ports.ErrVersionConflict) {
			return nil, fmt.Errorf("%w: %v", ErrApplyConflict, err)
		}
		return nil, fmt.Errorf("apply: write plan: %w", err)
	}

	return applied, nil
}

func pickAccepted(result *domain.OptimizationResult, acceptedIDs []int64) ([]domain.CandidateSuggestion, error) {
	byVenue := make(map[int64]domain.CandidateSuggestion)
	for _, list := range result.PotentialFillVenues {
		for _, s := range list {
			byVenue[s.Venue.VenueID] = s
		}
	}

	accepted := make([]domain.CandidateSuggestion, 0, len(acceptedIDs))
	for _, id := range acceptedIDs {
		s, ok := byVenue[id]
		if !ok {
			return nil, fmt.Errorf("%w: venue %d", ErrUnknownSuggestion, id)
		}
		accepted = append(accepted, s)
	}
	return accepted, nil
}

// orderStops sequences the stop list. Stops named in finalSequence come
// first in that order; when finalSequence is empty the optimized sequence
// order is used. Remaining non-cancelled stops keep their prior relative
// order after the sequenced block; cancelled stops trail without a sequence.
func orderStops(stops []domain.TourVenueStop, finalSequence []int64, result *domain.OptimizationResult) []domain.TourVenueStop {
	order := finalSequence
	if len(order) == 0 {
		order = make([]int64, 0, len(result.Sequence))
		for _, p := range result.Sequence {
			order = append(order, p.VenueID)
		}
	}

	position := make(map[int64]int, len(order))
	for i, id := range order {
		position[id] = i
	}

	var sequenced, rest, cancelled []domain.TourVenueStop
	for _, s := range stops {
		switch {
		case s.Status == domain.StatusCancelled:
			cancelled = append(cancelled, s)
		default:
			if _, ok := position[s.VenueID]; ok {
				sequenced = append(sequenced, s)
			} else {
				rest = append(rest, s)
			}
		}
	}

	slices.SortStableFunc(sequenced, func(a, b domain.TourVenueStop) int {
		return position[a.VenueID] - position[b.VenueID]
	})

	out := make([]domain.TourVenueStop, 0, len(stops))
	seq := 0
	for _, s := range append(sequenced, rest...) {
		n := seq
		s.Sequence = &n
		seq++
		out = append(out, s)
	}
	for _, s := range cancelled {
		s.Sequence = nil
		out = append(out, s)
	}

	return out
}

func checkDeadline(ctx context.Context, st stage) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%s: %w", st, ErrDeadlineExceeded)
	}
	return nil
}
