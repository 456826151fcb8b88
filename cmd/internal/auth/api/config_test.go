package authapi

import (
	"net/http"
	"testing"
	"time"
)

func TestLoadConfigFromEnvDefaults(t *testing.T) {
	cfg := LoadConfigFromEnv()

	if cfg.CookiePath != "/" {
		t.Fatalf("CookiePath = %q", cfg.CookiePath)
	}
	if !cfg.CookieSecure {
		t.Fatal("CookieSecure should default to true")
	}
	if cfg.CookieSameSite != http.SameSiteLaxMode {
		t.Fatalf("CookieSameSite = %v", cfg.CookieSameSite)
	}
	if cfg.MaxBodyBytes != 1<<20 {
		t.Fatalf("MaxBodyBytes = %d", cfg.MaxBodyBytes)
	}
	if cfg.ResetTokenTTL != 15*time.Minute {
		t.Fatalf("ResetTokenTTL = %v", cfg.ResetTokenTTL)
	}
}

func TestLoadConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("NOTEHUB_AUTH_COOKIE_SECURE", "false")
	t.Setenv("NOTEHUB_AUTH_RESET_TOKEN_TTL", "5m")
	t.Setenv("NOTEHUB_APP_BASE_URL", "https://notes.example.com/")
	t.Setenv("NOTEHUB_AUTH_RESET_SECRET", "s3cret")

	cfg := LoadConfigFromEnv()

	if cfg.CookieSecure {
		t.Fatal("CookieSecure override not applied")
	}
	if cfg.ResetTokenTTL != 5*time.Minute {
		t.Fatalf("ResetTokenTTL = %v", cfg.ResetTokenTTL)
	}
	if cfg.AppBaseURL != "https://notes.example.com" {
		t.Fatalf("AppBaseURL = %q (trailing slash must be trimmed)", cfg.AppBaseURL)
	}
	if string(cfg.ResetSecret) != "s3cret" {
		t.Fatalf("ResetSecret = %q", cfg.ResetSecret)
	}
}

func TestLoadConfigFromEnvIgnoresInvalid(t *testing.T) {
	t.Setenv("NOTEHUB_AUTH_MAX_BODY_BYTES", "not-a-number")
	t.Setenv("NOTEHUB_AUTH_RESET_TOKEN_TTL", "-5m")

	cfg := LoadConfigFromEnv()

	if cfg.MaxBodyBytes != 1<<20 {
		t.Fatalf("MaxBodyBytes = %d, want default", cfg.MaxBodyBytes)
	}
	if cfg.ResetTokenTTL != 15*time.Minute {
		t.Fatalf("ResetTokenTTL = %v, want default", cfg.ResetTokenTTL)
	}
}
