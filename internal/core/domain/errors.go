package domain

import "errors"

var (
	// ErrNotFound indicates a requested record does not exist.
	ErrNotFound = errors.New("domain: not found")

	// ErrTokenUnavailable indicates the Spotify credential exchange failed.
	// Callers treat this as degraded enrichment, never as a fatal error.
	ErrTokenUnavailable = errors.New("domain: provider token unavailable")

	// ErrProviderUnavailable indicates a transport failure, timeout, or
	// non-2xx response from an upstream provider.
	ErrProviderUnavailable = errors.New("domain: provider unavailable")

	// ErrUsernameTaken and ErrEmailTaken distinguish registration conflicts.
	ErrUsernameTaken = errors.New("domain: username taken")
	ErrEmailTaken    = errors.New("domain: email taken")

	// ErrInvalidCredentials covers both unknown user and wrong password.
	ErrInvalidCredentials = errors.New("domain: invalid credentials")
)
