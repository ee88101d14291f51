package dto

// ApplyRequest persists a chosen subset of an optimization's suggestions.
// Options must match the optimize call whose suggestions are being accepted,
// so the engine's deterministic recomputation reproduces them exactly.
type ApplyRequest struct {
	TourID                int64           `json:"tour_id"`
	AcceptedSuggestionIDs []int64         `json:"accepted_suggestion_ids"`
	FinalSequence         []int64         `json:"final_sequence"`
	Options               *OptionsRequest `json:"options"`
}

type ApplyResponse struct {
	TourID  int64              `json:"tour_id"`
	Version int64              `json:"version"`
	Stops   []TourStopResponse `json:"stops"`
}
