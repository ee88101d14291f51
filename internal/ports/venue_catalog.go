package ports

import (
	"context"

	"tour-route-service/internal/domain"
)

// Port: a boundary for reading the candidate venue pool.
type VenueCatalog interface {
	// Return venues referenced by the given ids, keyed by venue id.
	// Unknown ids are simply absent from the map.
	GetVenues(ctx context.Context, ids []int64) (map[int64]domain.Venue, error)

	// Return the full candidate pool minus the excluded venue ids
	// (typically the venues already on the tour).
	GetCandidateVenuePool(ctx context.Context, excludeIDs []int64) ([]domain.Venue, error)
}
