package ports

import (
	"context"
	"errors"

	"tour-route-service/internal/domain"
)

// ErrVersionConflict is returned by ApplyPlan when the tour changed between
// read and write. The caller's optimization result stays valid and may be
// re-applied after a fresh read.
var ErrVersionConflict = errors.New("tour store: version conflict")

// ErrTourNotFound is returned when the tour id does not exist.
var ErrTourNotFound = errors.New("tour store: tour not found")

// Port: a boundary for reading and writing a tour's venue stops.
type TourStore interface {
	// Retrieve all venue stops of a tour plus the tour's current version.
	GetTourVenues(ctx context.Context, tourID int64) ([]domain.TourVenueStop, int64, error)

	// Atomically replace the tour's stop rows with the given ordered list.
	// expectedVersion guards against concurrent apply calls; a mismatch
	// returns ErrVersionConflict and writes nothing.
	ApplyPlan(ctx context.Context, tourID int64, stops []domain.TourVenueStop, expectedVersion int64) (*domain.AppliedTour, error)
}
