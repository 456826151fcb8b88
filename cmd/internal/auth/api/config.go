package authapi

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config controls auth API behavior and security defaults.
type Config struct {
	CookiePath     string
	CookieDomain   string
	CookieSecure   bool
	CookieSameSite http.SameSite

	MaxBodyBytes int64

	// ResetSecret signs password-reset tokens. Empty disables the reset
	// flow (requests still answer generically, nothing is ever minted).
	ResetSecret   []byte
	ResetTokenTTL time.Duration

	// AppBaseURL is the public origin used to build reset links.
	AppBaseURL string
}

// LoadConfigFromEnv loads auth config from environment variables with safe defaults.
func LoadConfigFromEnv() Config {
	cfg := Config{
		CookiePath:     envString("NOTEHUB_AUTH_COOKIE_PATH", "/"),
		CookieDomain:   envString("NOTEHUB_AUTH_COOKIE_DOMAIN", ""),
		CookieSecure:   envBool("NOTEHUB_AUTH_COOKIE_SECURE", true),
		CookieSameSite: http.SameSiteLaxMode,
		MaxBodyBytes:   envInt64("NOTEHUB_AUTH_MAX_BODY_BYTES", 1<<20), // 1 MiB
		ResetSecret:    []byte(os.Getenv("NOTEHUB_AUTH_RESET_SECRET")),
		ResetTokenTTL:  envDuration("NOTEHUB_AUTH_RESET_TOKEN_TTL", 15*time.Minute),
		AppBaseURL:     envString("NOTEHUB_APP_BASE_URL", "http://localhost:3000"),
	}

	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = 15 * time.Minute
	}
	cfg.AppBaseURL = strings.TrimRight(cfg.AppBaseURL, "/")

	return cfg
}

func envString(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt64(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
