package session

import (
	"os"
	"strconv"
	"time"
)

// Config defines runtime configuration for the session subsystem.
//
// It controls the access-token and refresh-token lifetimes and the entropy
// used for opaque tokens. It is intentionally explicit and environment-driven
// so deployments can tune security parameters without code changes.
type Config struct {
	// AccessTTL is the lifetime of access tokens. Requests past this point
	// fail authentication until the client refreshes.
	AccessTTL time.Duration

	// RefreshTTL is the lifetime of refresh tokens, and therefore the longest
	// a session can survive without re-entering credentials.
	RefreshTTL time.Duration

	// TokenBytes is the number of random bytes behind each opaque token.
	TokenBytes int
}

// DefaultConfig returns a secure default configuration suitable for development.
//
// Production environments should override values via environment variables.
func DefaultConfig() Config {
	return Config{
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 30 * 24 * time.Hour,
		TokenBytes: 32,
	}
}

// LoadConfigFromEnv loads session configuration from environment variables.
//
// Optional (durations must be valid Go duration strings):
//   - NOTEHUB_AUTH_ACCESS_TTL
//   - NOTEHUB_AUTH_REFRESH_TTL
//   - NOTEHUB_AUTH_TOKEN_BYTES
//
// Returns ErrConfig if configuration is invalid.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("NOTEHUB_AUTH_ACCESS_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.AccessTTL = d
	}

	if v := os.Getenv("NOTEHUB_AUTH_REFRESH_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.RefreshTTL = d
	}

	if v := os.Getenv("NOTEHUB_AUTH_TOKEN_BYTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 32 || n > 64 {
			return Config{}, ErrConfig
		}
		cfg.TokenBytes = n
	}

	// Invariant: a session must never outlive its renewal window.
	if cfg.RefreshTTL < cfg.AccessTTL {
		return Config{}, ErrConfig
	}

	return cfg, nil
}
