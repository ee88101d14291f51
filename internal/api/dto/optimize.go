package dto

// OptionsRequest mirrors the engine's per-call configuration surface. Zero
// or missing fields fall back to engine defaults.
type OptionsRequest struct {
	MinGapDays                 int     `json:"min_gap_days"`
	DetourFactor               float64 `json:"detour_factor"`
	MaxSuggestionsPerGap       int     `json:"max_suggestions_per_gap"`
	AverageSpeedKmh            float64 `json:"average_speed_kmh"`
	DistanceWeight             float64 `json:"distance_weight"`
	CoverageWeight             float64 `json:"coverage_weight"`
	ExcludeUnknownAvailability bool    `json:"exclude_unknown_availability"`
}

type OptimizeRequest struct {
	TourID  int64           `json:"tour_id"`
	Options *OptionsRequest `json:"options"`
}

type RoutePointResponse struct {
	VenueID  int64   `json:"venue_id"`
	Name     string  `json:"name"`
	City     string  `json:"city"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Status   string  `json:"status"`
	Date     *string `json:"date"`
	Sequence int     `json:"sequence"`
}

type GapResponse struct {
	StartVenueID           int64   `json:"start_venue_id"`
	EndVenueID             int64   `json:"end_venue_id"`
	StartDate              string  `json:"start_date"`
	EndDate                string  `json:"end_date"`
	DaysBetween            int     `json:"days_between"`
	StraightLineDistanceKm float64 `json:"straight_line_distance_km"`
}

type SuggestionResponse struct {
	Venue         VenueResponse `json:"venue"`
	GapKey        string        `json:"gap_key"`
	SuggestedDate string        `json:"suggested_date"`
	DetourRatio   float64       `json:"detour_ratio"`
	MatchScore    float64       `json:"match_score"`
}

type OptimizeResponse struct {
	TourID                 int64                           `json:"tour_id"`
	TourVersion            int64                           `json:"tour_version"`
	FixedPoints            []RoutePointResponse            `json:"fixed_points"`
	Sequence               []RoutePointResponse            `json:"sequence"`
	Gaps                   []GapResponse                   `json:"gaps"`
	PotentialFillVenues    map[string][]SuggestionResponse `json:"potential_fill_venues"`
	TotalDistanceKm        float64                         `json:"total_distance_km"`
	TotalTravelTimeMinutes float64                         `json:"total_travel_time_minutes"`
	OptimizationScore      float64                         `json:"optimization_score"`
	Warnings               []string                        `json:"warnings,omitempty"`
}
