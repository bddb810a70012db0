package app

import "time"

// Config contains all runtime configuration loaded from environment variables.
type Config struct {
	HTTPAddr string
	LogLevel string

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int

	// DataDir is the directory for the file-backed conversation store.
	// Empty means in-memory (dev).
	DataDir string

	// DatabaseURL switches conversation persistence to Postgres when set.
	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32
	DBSchema    string

	// If true, /readyz returns 503 unless DB is configured and reachable.
	ReadinessRequireDB bool

	// Upstream RAG backend reached through the proxy endpoints.
	// UpstreamSecret is the server-held credential; it never reaches clients.
	UpstreamURL     string
	UpstreamSecret  string
	UpstreamTimeout time.Duration

	// Host patterns allowed to open cross-origin event subscriptions.
	WSAllowedOrigins []string
}

// LoadConfig loads Config from environment variables with defaults.
func LoadConfig() Config {
	return Config{
		HTTPAddr: EnvString("INDIECHAT_HTTP_ADDR", "0.0.0.0:3000"),
		LogLevel: EnvString("INDIECHAT_LOG_LEVEL", "info"),

		ReadHeaderTimeout: EnvDuration("INDIECHAT_HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ReadTimeout:       EnvDuration("INDIECHAT_HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:      EnvDuration("INDIECHAT_HTTP_WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:       EnvDuration("INDIECHAT_HTTP_IDLE_TIMEOUT", 60*time.Second),

		MaxHeaderBytes: EnvInt("INDIECHAT_HTTP_MAX_HEADER_BYTES", 1<<20),

		DataDir: EnvString("INDIECHAT_DATA_DIR", "data"),

		DatabaseURL: EnvString("INDIECHAT_DATABASE_URL", ""),
		DBMaxConns:  EnvInt32("INDIECHAT_DB_MAX_CONNS", 10),
		DBMinConns:  EnvInt32("INDIECHAT_DB_MIN_CONNS", 0),
		DBSchema:    EnvString("INDIECHAT_DB_SCHEMA", "indiechat"),

		ReadinessRequireDB: EnvBool("INDIECHAT_READINESS_REQUIRE_DB", false),

		UpstreamURL:     EnvString("INDIECHAT_API_URL", "http://localhost:8080"),
		UpstreamSecret:  EnvString("INDIECHAT_API_SECRET", ""),
		UpstreamTimeout: EnvDuration("INDIECHAT_API_TIMEOUT", 30*time.Second),

		WSAllowedOrigins: EnvCSV("INDIECHAT_WS_ALLOWED_ORIGINS", "localhost,127.0.0.1"),
	}
}
