// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios: a role
// that lacks permission, a stale state transition, a missing row, or a
// uniqueness violation.
package repository

import (
	"errors"
	"strings"
)

// ErrForbidden is returned when the caller attempts an operation their
// role does not permit. Handlers translate this into an HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update cannot be performed because of
// conflicting state: releasing a runway that still holds an active
// flight, transitioning a flight whose stored status no longer matches,
// or acknowledging an already-acknowledged alert. Handlers translate
// this into an HTTP 409 so the caller can retry with fresh state.
var ErrConflict = errors.New("conflict")

// Per-entity not-found sentinels. Handlers translate these into 404.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrRunwayNotFound    = errors.New("runway not found")
	ErrFlightNotFound    = errors.New("flight not found")
	ErrPassengerNotFound = errors.New("passenger not found")
	ErrAlertNotFound     = errors.New("alert not found")
)

// isDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062 on a unique index).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
