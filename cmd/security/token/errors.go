package token

import "errors"

// Sentinel errors surfaced by the HMAC key policy. app startup maps these to
// operator-facing messages.
var (
	ErrHMACKeyMissing  = errors.New("token HMAC key missing")
	ErrHMACKeyTooShort = errors.New("token HMAC key too short")
)
