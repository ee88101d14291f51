// Package memory provides in-memory implementations of the tour store and
// venue catalog ports, used by engine and handler tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"tour-route-service/internal/domain"
	"tour-route-service/internal/ports"
)

type tourRecord struct {
	stops   []domain.TourVenueStop
	version int64
}

// Store holds tours and venues in process memory. Safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	tours  map[int64]*tourRecord
	venues map[int64]domain.Venue
}

func NewStore() *Store {
	return &Store{
		tours:  make(map[int64]*tourRecord),
		venues: make(map[int64]domain.Venue),
	}
}

// PutVenue adds or replaces a venue in the catalog.
func (s *Store) PutVenue(v domain.Venue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.venues[v.VenueID] = v
}

// PutTour replaces a tour's stop list and resets its version.
func (s *Store) PutTour(tourID int64, stops []domain.TourVenueStop) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tours[tourID] = &tourRecord{stops: cloneStops(stops), version: 1}
}

// BumpVersion simulates a concurrent modification of the tour.
func (s *Store) BumpVersion(tourID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.tours[tourID]; ok {
		rec.version++
	}
}

func (s *Store) GetTourVenues(ctx context.Context, tourID int64) ([]domain.TourVenueStop, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.tours[tourID]
	if !ok {
		return nil, 0, fmt.Errorf("%w: tour_id=%d", ports.ErrTourNotFound, tourID)
	}
	return cloneStops(rec.stops), rec.version, nil
}

func (s *Store) ApplyPlan(ctx context.Context, tourID int64, stops []domain.TourVenueStop, expectedVersion int64) (*domain.AppliedTour, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.tours[tourID]
	if !ok {
		return nil, fmt.Errorf("%w: tour_id=%d", ports.ErrTourNotFound, tourID)
	}
	if rec.version != expectedVersion {
		return nil, fmt.Errorf("%w: tour_id=%d version=%d expected=%d", ports.ErrVersionConflict, tourID, rec.version, expectedVersion)
	}

	rec.stops = cloneStops(stops)
	rec.version++

	return &domain.AppliedTour{
		TourID:  tourID,
		Stops:   cloneStops(rec.stops),
		Version: rec.version,
	}, nil
}

func (s *Store) GetVenues(ctx context.Context, ids []int64) (map[int64]domain.Venue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[int64]domain.Venue, len(ids))
	for _, id := range ids {
		if v, ok := s.venues[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

func (s *Store) GetCandidateVenuePool(ctx context.Context, excludeIDs []int64) ([]domain.Venue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	excluded := make(map[int64]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}

	out := make([]domain.Venue, 0, len(s.venues))
	for _, v := range s.venues {
		if _, ok := excluded[v.VenueID]; ok {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func cloneStops(stops []domain.TourVenueStop) []domain.TourVenueStop {
	out := make([]domain.TourVenueStop, len(stops))
	copy(out, stops)
	return out
}
