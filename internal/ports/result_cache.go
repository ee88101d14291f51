package ports

import (
	"context"
	"fmt"

	"tour-route-service/internal/domain"
)

// Port: an optional cache for computed optimization results.
//
// The engine itself stays a pure function of its inputs; caching lives
// entirely at the API layer. Keys must incorporate the tour version and the
// options fingerprint so a stale entry can never be served after the tour
// changes.
type ResultCache interface {
	// Get returns the cached result, or (nil, nil) on a miss.
	Get(ctx context.Context, key string) (*domain.OptimizationResult, error)

	// Put stores the result under key.
	Put(ctx context.Context, key string, result *domain.OptimizationResult) error

	// Invalidate drops every cached result for the tour.
	Invalidate(ctx context.Context, tourID int64) error
}

const resultKeyPrefix = "tourroute:result:"

// ResultCacheKey builds the cache key for one (tour, version, options)
// combination. Key structure lives with the port so callers and adapters
// agree on it without the API layer importing a concrete cache.
func ResultCacheKey(tourID, tourVersion int64, optionsFingerprint string) string {
	return fmt.Sprintf("%s%d:%d:%s", resultKeyPrefix, tourID, tourVersion, optionsFingerprint)
}

// ResultCacheTourPattern matches every key of one tour, any version or
// options. Used by Invalidate implementations.
func ResultCacheTourPattern(tourID int64) string {
	return fmt.Sprintf("%s%d:*", resultKeyPrefix, tourID)
}
