package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"tour-route-service/internal/api/dto"
	"tour-route-service/internal/domain"
	"tour-route-service/internal/metrics"
	"tour-route-service/internal/ports"
	"tour-route-service/internal/services"
)

const defaultOptimizeTimeout = 10 * time.Second

type OptimizeHandler struct {
	Optimizer *services.Optimizer
	Tours     ports.TourStore
	Cache     ports.ResultCache
	Timeout   time.Duration
}

// Optimize runs the full optimization pipeline for one tour and returns the
// computed route, gaps, and ranked fill suggestions. Results are cached per
// (tour, version, options) when a cache is configured; the tour version in
// the key makes any write to the tour invalidate prior entries implicitly.
func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.OptimizeRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if req.TourID <= 0 {
		writeError(w, r, http.StatusBadRequest, "tour_id is required")
		return
	}

	opts := engineOptions(req.Options)

	timeout := h.Timeout
	if timeout <= 0 {
		timeout = defaultOptimizeTimeout
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	started := time.Now()
	result, err := h.optimize(ctx, req.TourID, opts)
	if err != nil {
		metrics.OptimizeFailuresTotal.Inc()
		writeEngineError(w, r, err)
		return
	}
	metrics.OptimizeDurationMs.Observe(float64(time.Since(started).Milliseconds()))

	if noSuggestions(result) {
		metrics.NoSuggestionRunsTotal.Inc()
	}

	writeJSON(w, r, http.StatusOK, optimizeResponse(result))
}

// optimize consults the cache before running the engine. The cache key needs
// the current tour version, which costs one store read; a miss then runs the
// full pipeline and stores the result.
func (h *OptimizeHandler) optimize(ctx context.Context, tourID int64, opts services.Options) (*domain.OptimizationResult, error) {
	if h.Cache == nil {
		return h.Optimizer.Optimize(ctx, tourID, opts)
	}

	_, version, err := h.Tours.GetTourVenues(ctx, tourID)
	if err != nil {
		return nil, err
	}
	key := ports.ResultCacheKey(tourID, version, opts.Fingerprint())

	if cached, err := h.Cache.Get(ctx, key); err != nil {
		log.Printf("result cache get failed: tour_id=%d err=%v", tourID, err)
	} else if cached != nil {
		metrics.ResultCacheHitsTotal.Inc()
		return cached, nil
	} else {
		metrics.ResultCacheMissesTotal.Inc()
	}

	result, err := h.Optimizer.Optimize(ctx, tourID, opts)
	if err != nil {
		return nil, err
	}
	if err := h.Cache.Put(ctx, key, result); err != nil {
		log.Printf("result cache put failed: tour_id=%d err=%v", tourID, err)
	}
	return result, nil
}

func noSuggestions(result *domain.OptimizationResult) bool {
	if len(result.Gaps) == 0 {
		return false
	}
	for _, list := range result.PotentialFillVenues {
		if len(list) > 0 {
			return false
		}
	}
	return true
}

func optimizeResponse(result *domain.OptimizationResult) dto.OptimizeResponse {
	res := dto.OptimizeResponse{
		TourID:                 result.TourID,
		TourVersion:            result.TourVersion,
		FixedPoints:            make([]dto.RoutePointResponse, 0, len(result.FixedPoints)),
		Sequence:               make([]dto.RoutePointResponse, 0, len(result.Sequence)),
		Gaps:                   make([]dto.GapResponse, 0, len(result.Gaps)),
		PotentialFillVenues:    make(map[string][]dto.SuggestionResponse, len(result.PotentialFillVenues)),
		TotalDistanceKm:        result.TotalDistanceKm,
		TotalTravelTimeMinutes: result.TotalTravelTimeMinutes,
		OptimizationScore:      result.OptimizationScore,
		Warnings:               result.Warnings,
	}

	for _, p := range result.FixedPoints {
		res.FixedPoints = append(res.FixedPoints, routePointResponse(p))
	}
	for _, p := range result.Sequence {
		res.Sequence = append(res.Sequence, routePointResponse(p))
	}
	for _, g := range result.Gaps {
		res.Gaps = append(res.Gaps, dto.GapResponse{
			StartVenueID:           g.StartVenueID,
			EndVenueID:             g.EndVenueID,
			StartDate:              g.StartDate.Format(dateLayout),
			EndDate:                g.EndDate.Format(dateLayout),
			DaysBetween:            g.DaysBetween,
			StraightLineDistanceKm: g.StraightLineDistanceKm,
		})
	}
	for key, list := range result.PotentialFillVenues {
		out := make([]dto.SuggestionResponse, 0, len(list))
		for _, s := range list {
			out = append(out, dto.SuggestionResponse{
				Venue:         venueResponse(s.Venue),
				GapKey:        s.GapKey,
				SuggestedDate: s.SuggestedDate.Format(dateLayout),
				DetourRatio:   s.DetourRatio,
				MatchScore:    s.MatchScore,
			})
		}
		res.PotentialFillVenues[key] = out
	}
	return res
}
