package app

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{
		"NOTEHUB_HTTP_ADDR",
		"NOTEHUB_LOG_LEVEL",
		"NOTEHUB_LOG_FORMAT",
		"NOTEHUB_DATABASE_URL",
		"NOTEHUB_DB_MIGRATE",
	} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()

	if cfg.HTTPAddr != "0.0.0.0:8080" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "json" {
		t.Errorf("log defaults = %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.ReadHeaderTimeout != 5*time.Second {
		t.Errorf("ReadHeaderTimeout = %v", cfg.ReadHeaderTimeout)
	}
	if cfg.DBMaxConns != 10 {
		t.Errorf("DBMaxConns = %d", cfg.DBMaxConns)
	}
	if !cfg.MigrateOnStart {
		t.Error("MigrateOnStart should default to true")
	}
	if cfg.ReadinessRequireDB {
		t.Error("ReadinessRequireDB should default to false")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("NOTEHUB_HTTP_ADDR", "127.0.0.1:9999")
	t.Setenv("NOTEHUB_LOG_FORMAT", "pretty")
	t.Setenv("NOTEHUB_HTTP_READ_TIMEOUT", "30s")
	t.Setenv("NOTEHUB_DB_MAX_CONNS", "25")
	t.Setenv("NOTEHUB_DB_MIGRATE", "false")

	cfg := LoadConfig()

	if cfg.HTTPAddr != "127.0.0.1:9999" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.LogFormat != "pretty" {
		t.Errorf("LogFormat = %q", cfg.LogFormat)
	}
	if cfg.ReadTimeout != 30*time.Second {
		t.Errorf("ReadTimeout = %v", cfg.ReadTimeout)
	}
	if cfg.DBMaxConns != 25 {
		t.Errorf("DBMaxConns = %d", cfg.DBMaxConns)
	}
	if cfg.MigrateOnStart {
		t.Error("MigrateOnStart should be false")
	}
}

func TestEnvHelpersRejectGarbage(t *testing.T) {
	t.Setenv("NOTEHUB_TEST_INT", "not-a-number")
	if got := EnvInt("NOTEHUB_TEST_INT", 7); got != 7 {
		t.Errorf("EnvInt garbage = %d, want default 7", got)
	}

	t.Setenv("NOTEHUB_TEST_INT", "-3")
	if got := EnvInt("NOTEHUB_TEST_INT", 7); got != 7 {
		t.Errorf("EnvInt negative = %d, want default 7", got)
	}

	t.Setenv("NOTEHUB_TEST_DUR", "0s")
	if got := EnvDuration("NOTEHUB_TEST_DUR", time.Minute); got != time.Minute {
		t.Errorf("EnvDuration zero = %v, want default", got)
	}

	t.Setenv("NOTEHUB_TEST_BOOL", "yes-please")
	if got := EnvBool("NOTEHUB_TEST_BOOL", true); got != true {
		t.Errorf("EnvBool garbage = %v, want default", got)
	}
}
