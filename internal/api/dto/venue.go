package dto

type AvailabilityResponse struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type VenueResponse struct {
	VenueID      int64                  `json:"venue_id"`
	Name         string                 `json:"name"`
	City         string                 `json:"city"`
	Region       string                 `json:"region"`
	Lat          *float64               `json:"lat"`
	Lon          *float64               `json:"lon"`
	Availability []AvailabilityResponse `json:"availability,omitempty"`
}

type ListVenuesResponse struct {
	Venues []VenueResponse `json:"venues"`
}

type TourStopResponse struct {
	VenueID  int64   `json:"venue_id"`
	Status   string  `json:"status"`
	Date     *string `json:"date"`
	Sequence *int    `json:"sequence"`
	Notes    string  `json:"notes,omitempty"`
}

type ListTourStopsResponse struct {
	TourID  int64              `json:"tour_id"`
	Version int64              `json:"version"`
	Stops   []TourStopResponse `json:"stops"`
}
