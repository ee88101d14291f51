package handlers

import (
	"log"
	"net/http"
	"strconv"

	"tour-route-service/internal/api/dto"
	"tour-route-service/internal/ports"
)

// VenueHandler exposes read-only venue catalog and tour stop endpoints.
type VenueHandler struct {
	Catalog ports.VenueCatalog
	Tours   ports.TourStore
}

// List returns the full candidate venue pool.
func (h *VenueHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	venues, err := h.Catalog.GetCandidateVenuePool(r.Context(), nil)
	if err != nil {
		log.Printf("list venues failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListVenuesResponse{
		Venues: make([]dto.VenueResponse, 0, len(venues)),
	}
	for _, v := range venues {
		res.Venues = append(res.Venues, venueResponse(v))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Stops returns the current stop list of one tour.
func (h *VenueHandler) Stops(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	tourID, err := strconv.ParseInt(r.URL.Query().Get("tour_id"), 10, 64)
	if err != nil || tourID <= 0 {
		writeError(w, r, http.StatusBadRequest, "tour_id is required")
		return
	}

	stops, version, err := h.Tours.GetTourVenues(r.Context(), tourID)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}

	res := dto.ListTourStopsResponse{
		TourID:  tourID,
		Version: version,
		Stops:   make([]dto.TourStopResponse, 0, len(stops)),
	}
	for _, s := range stops {
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
