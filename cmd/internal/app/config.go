package app

import "time"

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr  string
	LogLevel  string
	LogFormat string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	// MigrateOnStart applies pending schema migrations before serving.
	MigrateOnStart bool

	// If true, /readyz returns 503 unless DB is configured and reachable.
	ReadinessRequireDB bool

	// Security policy:
	// If true, NOTEHUB_TOKEN_HMAC_KEY MUST be set (>= 32 bytes) and session
	// token hashing must be HMAC-based.
	RequireTokenHMAC bool
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr:  EnvString("NOTEHUB_HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel:  EnvString("NOTEHUB_LOG_LEVEL", "info"),
		LogFormat: EnvString("NOTEHUB_LOG_FORMAT", "json"),

		ReadHeaderTimeout: EnvDuration("NOTEHUB_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("NOTEHUB_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("NOTEHUB_HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:       EnvDuration("NOTEHUB_HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt("NOTEHUB_HTTP_MAX_HEADER_BYTES", 1<<20),

		DatabaseURL: EnvString("NOTEHUB_DATABASE_URL", ""),
		DBMaxConns:  EnvInt32("NOTEHUB_DB_MAX_CONNS", 10),
		DBMinConns:  EnvInt32("NOTEHUB_DB_MIN_CONNS", 0),

		MigrateOnStart: EnvBool("NOTEHUB_DB_MIGRATE", true),

		ReadinessRequireDB: EnvBool("NOTEHUB_READINESS_REQUIRE_DB", false),

		RequireTokenHMAC: EnvBool("NOTEHUB_REQUIRE_TOKEN_HMAC", false),
	}
}
