package services

import "fmt"

// Options is the per-call configuration surface of the optimization engine.
// Zero values fall back to the documented defaults; there is no global
// mutable configuration.
type Options struct {
	// MinGapDays is the smallest calendar gap between two anchors worth
	// filling with an extra show.
	MinGapDays int

	// DetourFactor caps how much extra travel a candidate may add relative
	// to the direct hop between a gap's anchors (0.5 = up to 50% extra).
	DetourFactor float64

	// MaxSuggestionsPerGap caps ranked candidates returned per gap.
	MaxSuggestionsPerGap int

	// AverageSpeedKmh drives the linear travel-time model.
	AverageSpeedKmh float64

	// DistanceWeight and CoverageWeight blend route efficiency and gap
	// coverage into the 0-100 optimization score.
	DistanceWeight float64
	CoverageWeight float64

	// ExcludeUnknownAvailability controls what a venue with no published
	// availability data means: false (default) treats it as "unknown,
	// assume available", true excludes it from candidate matching.
	ExcludeUnknownAvailability bool
}

const (
	defaultMinGapDays           = 3
	defaultDetourFactor         = 0.5
	defaultMaxSuggestionsPerGap = 3
	defaultAverageSpeedKmh      = 80.0
	defaultDistanceWeight       = 0.7
	defaultCoverageWeight       = 0.3
)

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		MinGapDays:           defaultMinGapDays,
		DetourFactor:         defaultDetourFactor,
		MaxSuggestionsPerGap: defaultMaxSuggestionsPerGap,
		AverageSpeedKmh:      defaultAverageSpeedKmh,
		DistanceWeight:       defaultDistanceWeight,
		CoverageWeight:       defaultCoverageWeight,
	}
}

// withDefaults fills unset fields so handlers can pass partially populated
// options straight through.
func (o Options) withDefaults() Options {
	if o.MinGapDays <= 0 {
		o.MinGapDays = defaultMinGapDays
	}
	if o.DetourFactor <= 0 {
		o.DetourFactor = defaultDetourFactor
	}
	if o.MaxSuggestionsPerGap <= 0 {
		o.MaxSuggestionsPerGap = defaultMaxSuggestionsPerGap
	}
	if o.AverageSpeedKmh <= 0 {
		o.AverageSpeedKmh = defaultAverageSpeedKmh
	}
	if o.DistanceWeight <= 0 && o.CoverageWeight <= 0 {
		o.DistanceWeight = defaultDistanceWeight
		o.CoverageWeight = defaultCoverageWeight
	}
	return o
}

// Fingerprint returns a stable string identifying the effective option
// values, suitable for composing cache keys. Two option sets that resolve
// to the same defaults share a fingerprint.
func (o Options) Fingerprint() string {
	o = o.withDefaults()
	return fmt.Sprintf("g%d-d%g-s%d-v%g-w%g:%g-u%t",
		o.MinGapDays,
		o.DetourFactor,
		o.MaxSuggestionsPerGap,
		o.AverageSpeedKmh,
		o.DistanceWeight,
		o.CoverageWeight,
		o.ExcludeUnknownAvailability,
	)
}
