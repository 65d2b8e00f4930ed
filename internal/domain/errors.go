package domain

import "errors"

// Configuration errors. These abort a run: continuing would publish records
// with wrong or unresolvable provenance.
var (
	// ErrNoActiveCruise is returned by a survey source when no cruise is
	// currently active.
	ErrNoActiveCruise = errors.New("no active cruise")

	// ErrInvalidCruise marks a cruise record unusable as a root event
	// (missing mission number, start date, or display timezone).
	ErrInvalidCruise = errors.New("invalid cruise")

	// ErrNoCruiseAncestor is returned when an event's parent chain never
	// reaches a cruise-rooted event, leaving its timezone unresolvable.
	ErrNoCruiseAncestor = errors.New("no cruise ancestor")
)

// Validation errors. These are per-record and recoverable: the orchestration
// layer logs the record and moves on.
var (
	// ErrNoFishingOperations marks a set with zero fishing-flagged
	// operations; such sets produce no sampling event.
	ErrNoFishingOperations = errors.New("set has no fishing operations")

	// ErrInvalidSpecies marks a catch whose species cannot be published:
	// either a mixed catch or a species without an AphiaID.
	ErrInvalidSpecies = errors.New("invalid species")

	// ErrNoCatchData marks a catch carrying no substantive data.
	ErrNoCatchData = errors.New("no catch data")
)
