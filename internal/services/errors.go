package services

import "errors"

// Engine errors are sentinel values so the API layer can render a specific
// user message per kind. They are always returned, never panicked across the
// orchestrator boundary.
var (
	// ErrInsufficientAnchors: fewer than two dated, qualifying stops. The
	// caller should add more confirmed dates before optimizing.
	ErrInsufficientAnchors = errors.New("optimize: at least 2 anchors with confirmed dates are required")

	// ErrDeadlineExceeded: the caller's deadline elapsed mid-run. No
	// partial result is returned.
	ErrDeadlineExceeded = errors.New("optimize: deadline exceeded")

	// ErrApplyConflict: the tour changed between optimize and apply. The
	// computed result remains valid and re-applicable after a fresh read.
	ErrApplyConflict = errors.New("apply: tour was modified concurrently")

	// ErrUnknownSuggestion: an accepted suggestion id does not appear in
	// the optimization result being applied.
	ErrUnknownSuggestion = errors.New("apply: accepted suggestion not present in result")
)
