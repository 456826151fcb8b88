package password

import "errors"

// Sentinel errors, stable for errors.Is across the auth surface.
var (
	ErrPasswordTooShort = errors.New("password too short")
	ErrPasswordTooLong  = errors.New("password too long")
	ErrWeakPassword     = errors.New("weak password")

	// ErrInvalidHash means a stored PHC string could not be parsed.
	ErrInvalidHash = errors.New("invalid password hash")
)
