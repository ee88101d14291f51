package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"tour-route-service/internal/api/dto"
	"tour-route-service/internal/metrics"
	"tour-route-service/internal/ports"
	"tour-route-service/internal/services"
)

type ApplyHandler struct {
	Optimizer *services.Optimizer
	Cache     ports.ResultCache
	Timeout   time.Duration
}

// Apply persists a chosen subset of an optimization's suggestions as real
// planning stops. The server re-derives the optimization result rather than
// trusting a client-supplied one: the engine is deterministic, so running it
// with the same options against the same tour version reproduces the exact
// suggestions the client saw. A tour modified in between fails the version
// check and returns 409.
func (h *ApplyHandler) Apply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.ApplyRequest

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

	result, err := h.Optimizer.Optimize(ctx, req.TourID, opts)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}

	applied, err := h.Optimizer.Apply(ctx, req.TourID, req.AcceptedSuggestionIDs, req.FinalSequence, result)
	if err != nil {
		if errors.Is(err, services.ErrApplyConflict) {
			metrics.ApplyConflictsTotal.Inc()
		}
		writeEngineError(w, r, err)
		return
	}

	h.invalidate(ctx, req.TourID)

	res := dto.ApplyResponse{
		TourID:  applied.TourID,
		Version: applied.Version,
		Stops:   make([]dto.TourStopResponse, 0, len(applied.Stops)),
	}
	for _, s := range applied.Stops {
		res.Stops = append(res.Stops, dto.TourStopResponse{
			VenueID:  s.VenueID,
			Status:   string(s.Status),
			Date:     formatDate(s.Date),
			Sequence: s.Sequence,
			Notes:    s.Notes,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// invalidate drops cached results for the tour after a successful apply.
// Version-scoped keys already prevent stale reads; this just frees entries
// that can never be served again.
func (h *ApplyHandler) invalidate(ctx context.Context, tourID int64) {
	if h.Cache == nil {
		return
	}
	if err := h.Cache.Invalidate(ctx, tourID); err != nil {
		log.Printf("result cache invalidate failed: tour_id=%d err=%v", tourID, err)
	}
}
