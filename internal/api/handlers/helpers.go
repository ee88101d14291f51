package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"tour-route-service/internal/api/dto"
	"tour-route-service/internal/domain"
	"tour-route-service/internal/ports"
	"tour-route-service/internal/services"
)

const dateLayout = "2006-01-02"

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeEngineError maps engine error kinds to HTTP statuses and a specific
// user message per kind.
func writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrInsufficientAnchors):
		writeError(w, r, http.StatusUnprocessableEntity, "add more confirmed dates before optimizing")
	case errors.Is(err, services.ErrApplyConflict):
		writeError(w, r, http.StatusConflict, "tour was modified concurrently; re-apply against the latest version")
	case errors.Is(err, services.ErrUnknownSuggestion):
		writeError(w, r, http.StatusUnprocessableEntity, "accepted suggestion is not part of this optimization result")
	case errors.Is(err, services.ErrDeadlineExceeded):
		writeError(w, r, http.StatusGatewayTimeout, "optimization did not finish in time")
	case errors.Is(err, ports.ErrTourNotFound):
		writeError(w, r, http.StatusNotFound, "tour not found")
	default:
		log.Printf("internal error: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func engineOptions(req *dto.OptionsRequest) services.Options {
	if req == nil {
		return services.DefaultOptions()
	}
	return services.Options{
		MinGapDays:                 req.MinGapDays,
		DetourFactor:               req.DetourFactor,
		MaxSuggestionsPerGap:       req.MaxSuggestionsPerGap,
		AverageSpeedKmh:            req.AverageSpeedKmh,
		DistanceWeight:             req.DistanceWeight,
		CoverageWeight:             req.CoverageWeight,
		ExcludeUnknownAvailability: req.ExcludeUnknownAvailability,
	}
}

func venueResponse(v domain.Venue) dto.VenueResponse {
	out := dto.VenueResponse{
		VenueID: v.VenueID,
		Name:    v.Name,
		City:    v.City,
		Region:  v.Region,
	}
	if v.Coord != nil {
		lat, lon := v.Coord.Lat, v.Coord.Lon
		out.Lat, out.Lon = &lat, &lon
	}
	for _, a := range v.Availability {
		out.Availability = append(out.Availability, dto.AvailabilityResponse{
			StartDate: a.Start.Format(dateLayout),
			EndDate:   a.End.Format(dateLayout),
		})
	}
	return out
}

func routePointResponse(p domain.RoutePoint) dto.RoutePointResponse {
	return dto.RoutePointResponse{
		VenueID:  p.VenueID,
		Name:     p.Name,
		City:     p.City,
		Lat:      p.Coord.Lat,
		Lon:      p.Coord.Lon,
		Status:   string(p.Status),
		Date:     formatDate(p.Date),
		Sequence: p.Sequence,
	}
}
