package domain

import "time"

// Lifecycle status of a venue's participation in a tour.
type StopStatus string

const (
	StatusConfirmed StopStatus = "confirmed"
	StatusBooked    StopStatus = "booked"
	StatusPlanning  StopStatus = "planning"
	StatusSuggested StopStatus = "suggested"
	StatusCancelled StopStatus = "cancelled"
)

// AnchorEligible reports whether a stop in this status may serve as a fixed
// point of the route when it also carries a date.
func (s StopStatus) AnchorEligible() bool {
	return s == StatusConfirmed || s == StatusBooked || s == StatusPlanning
}

// Known reports whether the status is one of the recognized lifecycle values.
func (s StopStatus) Known() bool {
	switch s {
	case StatusConfirmed, StatusBooked, StatusPlanning, StatusSuggested, StatusCancelled:
		return true
	}
	return false
}

// TourVenueStop is a venue's participation in a specific tour.
//
// Date is present for anchors and absent for floating stops. Sequence is
// assigned by the sequencer; nil until a route has been applied. The stop is
// read-only to gap detection and candidate matching.
type TourVenueStop struct {
	VenueID  int64
	Status   StopStatus
	Date     *time.Time
	Sequence *int
	Notes    string
}

// Floating reports whether the stop participates in a tour but has no fixed
// date yet and should be positioned by cheapest insertion.
func (s TourVenueStop) Floating() bool {
	return s.Date == nil && s.Status != StatusCancelled && s.Status != StatusSuggested
}

// AppliedTour is the persisted outcome of applying an optimization result.
type AppliedTour struct {
	TourID  int64
	Stops   []TourVenueStop
	Version int64
}
