// Package common defines shared constants and sentinel errors used across
// client and server layers of GeoLists. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Share access errors. ErrorPasswordRequired is a distinct non-fatal
	// state and must never be conflated with ErrorNotFound.
	ErrorPasswordRequired = errors.New("password required")
	ErrorUnauthorized     = errors.New("unauthorized")

	// Edit capability errors (invalid or malformed token).
	ErrInvalidEditToken = errors.New("invalid edit token")

	// Codec errors.
	ErrNoPayload = errors.New("no payload")

	// Local storage errors.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
