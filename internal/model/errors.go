package model

import "errors"

// Auth errors. Surfaced to the caller as a re-login prompt.
var (
	ErrNotLoggedIn    = errors.New("not logged in")
	ErrSessionExpired = errors.New("session expired")
	ErrBadCredentials = errors.New("bad credentials")
)

// Validation errors. Surfaced as a rejected form; nothing changes.
var (
	ErrEmptyField       = errors.New("required field is empty")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrWeakSecret       = errors.New("secret is too weak")
)

// State errors. Surfaced as a status message; no state change.
var (
	ErrStillLocked     = errors.New("safe is still locked")
	ErrWrongPassword   = errors.New("wrong unlock password")
	ErrActuatorBusy    = errors.New("actuator is busy")
	ErrInvalidDuration = errors.New("invalid open duration")
)

// Persistence errors. Fatal for the request; in-memory state is only
// mutated after the durable write succeeds.
var (
	ErrPersistence  = errors.New("persistent write failed")
	ErrStateCorrupt = errors.New("persisted state is corrupt")
)
