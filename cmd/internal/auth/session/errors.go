package session

import "errors"

var (
	// ErrSessionNotFound is returned when a token or session id does not match any session.
	ErrSessionNotFound = errors.New("session not found")

	// ErrAccessExpired is returned when the session exists but its access token lifetime is over.
	// Distinct from ErrSessionNotFound so the gate can surface "expired" to the client.
	ErrAccessExpired = errors.New("access token expired")

	// ErrRefreshExpired is returned when the session is past its refresh lifetime
	// and can no longer be renewed.
	ErrRefreshExpired = errors.New("refresh token expired")

	// ErrConfig is returned for invalid configuration.
	ErrConfig = errors.New("invalid config")
)
