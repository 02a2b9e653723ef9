// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., identity taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrAuthenticationFailed indicates the identity token could not be verified.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrStorageUnavailable indicates the store stayed unreachable past the retry budget.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")

	// ErrInvalidFilter indicates an unknown filter mode name.
	ErrInvalidFilter = errors.New("invalid filter mode")
)
