// Package geo provides great-circle distance and coarse travel-time
// estimation for route planning.
//
// Distances use the Haversine formula on a mean Earth radius. Travel time is
// a linear model over an assumed average driving speed; it deliberately does
// not model live traffic.
package geo

import (
	"errors"
	"fmt"
	"math"

	"tour-route-service/internal/domain"
)

// Mean Earth radius in kilometers.
const EarthRadiusKm = 6371.0

// ErrInvalidCoordinate marks a coordinate outside the valid lat/lon range.
// Coordinates are validated at ingestion, so hitting this inside the engine
// indicates a caller bug rather than bad catalog data.
var ErrInvalidCoordinate = errors.New("geo: invalid coordinate")

// DistanceKm returns the great-circle distance between two points in
// kilometers. Symmetric and zero for identical points.
func DistanceKm(a, b domain.Coordinate) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidCoordinate, err)
	}
	if err := b.Validate(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidCoordinate, err)
	}

	dLat := degToRad(b.Lat - a.Lat)
	dLon := degToRad(b.Lon - a.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat + math.Cos(degToRad(a.Lat))*math.Cos(degToRad(b.Lat))*sinLon*sinLon

	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h)), nil
}

// TravelTimeMinutes estimates driving time for a distance at an assumed
// average speed in km/h.
func TravelTimeMinutes(distanceKm, averageSpeedKmh float64) float64 {
	if averageSpeedKmh <= 0 {
		return 0
	}
	return distanceKm / averageSpeedKmh * 60
}

// AddedDistanceKm returns the extra distance incurred by routing through via
// instead of traveling directly from start to end. Non-negative for valid
// coordinates by the triangle inequality.
func AddedDistanceKm(start, end, via domain.Coordinate) (float64, error) {
	direct, err := DistanceKm(start, end)
	if err != nil {
		return 0, err
	}
	leg1, err := DistanceKm(start, via)
	if err != nil {
		return 0, err
	}
	leg2, err := DistanceKm(via, end)
	if err != nil {
		return 0, err
	}

	added := leg1 + leg2 - direct
	if added < 0 {
		// Guard against floating point noise on near-collinear points.
		added = 0
	}
	return added, nil
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }
