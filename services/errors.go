package services

import "errors"

// Engine error taxonomy. NotAuthenticated aborts before any storage access;
// storage failures are wrapped and surfaced unchanged in meaning; a missing
// record on a single-date lookup is a valid "no data" state and maps to nil,
// not an error.
var (
	ErrNotAuthenticated = errors.New("not authenticated")

	ErrProgressNotFound = errors.New("belt progress not found")
	ErrNotOnboarded     = errors.New("onboarding not completed")

	// ErrProgressConflict means another session modified the BeltProgress
	// record between our read and write. Callers may retry.
	ErrProgressConflict = errors.New("belt progress modified concurrently")

	ErrTerminalBelt = errors.New("already at the terminal belt")
	ErrNotEligible  = errors.New("requirements for the next belt are not met")

	ErrHorizonNotFound      = errors.New("horizon not found")
	ErrInvalidParentHorizon = errors.New("parent must be a horizon one level up")

	ErrProofNotFound = errors.New("goal proof not found")
	ErrProofVerified = errors.New("goal proof is already verified")

	ErrInvalidPEI          = errors.New("pei factors must be within [0,1]")
	ErrInvalidHorizonLevel = errors.New("horizon level must be H1, H2 or H3")
)
