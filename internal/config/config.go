package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/gsod-weather/internal/weather"
)

// Dataset backends.
const (
	BackendBigQuery = "bigquery"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type AppConfig struct {
	AppEnv   string
	LogLevel slog.Level
	Port     string

	// Dataset selection.
	Backend string

	// BigQuery.
	BigQueryProject   string
	BigQueryLocation  string
	CredentialsFile   string // passed through to the client, never read here
	StationsTable     string
	ObservationsTable string

	// Local mirrors.
	SQLitePath  string
	DatabaseURL string
	ApplySchema bool

	// Request handling.
	QueryTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxRangeDays    int
	RowPolicy       weather.RowPolicy

	// Dataset resilience.
	MaxRetries     int
	RetryInterval  time.Duration
	BreakerTimeout time.Duration

	// HealthProbeInterval controls the dataset readiness probe (0 = disabled).
	HealthProbeInterval time.Duration

	GeocoderAPIKey string
}

// Load reads configuration from environment with sensible defaults. A .env
// file, if any, must already be loaded by the caller.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}
	var err error

	cfg.AppEnv = getenvDefault("APP_ENV", "dev")
	switch cfg.AppEnv {
	case "dev", "prod":
	default:
		return nil, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", cfg.AppEnv)
	}

	if cfg.LogLevel, err = parseLogLevel(getenvDefault("LOG_LEVEL", "info")); err != nil {
		return nil, err
	}
	cfg.Port = getenvDefault("PORT", "8080")

	cfg.Backend = strings.ToLower(getenvDefault("DATASET_BACKEND", BackendBigQuery))
	switch cfg.Backend {
	case BackendBigQuery:
		cfg.BigQueryProject = firstEnv("BIGQUERY_PROJECT", "GOOGLE_CLOUD_PROJECT")
		if cfg.BigQueryProject == "" {
			return nil, fmt.Errorf("BIGQUERY_PROJECT is required when DATASET_BACKEND=%s", BackendBigQuery)
		}
	case BackendSQLite, BackendPostgres:
	default:
		return nil, fmt.Errorf("invalid DATASET_BACKEND %q (allowed: bigquery, sqlite, postgres)", cfg.Backend)
	}
	cfg.BigQueryLocation = os.Getenv("BIGQUERY_LOCATION")
	cfg.CredentialsFile = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	cfg.StationsTable = os.Getenv("GSOD_STATIONS_TABLE")
	cfg.ObservationsTable = os.Getenv("GSOD_OBSERVATIONS_TABLE")

	cfg.SQLitePath = getenvDefault("SQLITE_PATH", "data/gsod.db")
	if cfg.ApplySchema, err = getenvBool("DATASET_APPLY_SCHEMA", false); err != nil {
		return nil, err
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.Backend == BackendPostgres && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required when DATASET_BACKEND=%s", BackendPostgres)
	}

	if cfg.QueryTimeout, err = getenvDuration("QUERY_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getenvDuration("SHUTDOWN_TIMEOUT", "10s"); err != nil {
		return nil, err
	}

	// Ten years of daily rows.
	if cfg.MaxRangeDays, err = getenvInt("MAX_RANGE_DAYS", 3660); err != nil {
		return nil, err
	}
	if cfg.MaxRangeDays < 0 {
		return nil, fmt.Errorf("invalid MAX_RANGE_DAYS %d: must be >= 0", cfg.MaxRangeDays)
	}

	cfg.RowPolicy = weather.RowPolicy(strings.ToLower(getenvDefault("SUMMARY_ROW_FILTER", string(weather.RowPolicyIndependent))))
	if !cfg.RowPolicy.Valid() {
		return nil, fmt.Errorf("invalid SUMMARY_ROW_FILTER %q (allowed: independent, shared)", cfg.RowPolicy)
	}

	if cfg.MaxRetries, err = getenvInt("DATASET_MAX_RETRIES", 2); err != nil {
		return nil, err
	}
	if cfg.MaxRetries < 0 {
		return nil, fmt.Errorf("invalid DATASET_MAX_RETRIES %d: must be >= 0", cfg.MaxRetries)
	}
	if cfg.RetryInterval, err = getenvDuration("DATASET_RETRY_INTERVAL", "500ms"); err != nil {
		return nil, err
	}
	if cfg.BreakerTimeout, err = getenvDuration("BREAKER_TIMEOUT", "1m"); err != nil {
		return nil, err
	}
	if cfg.HealthProbeInterval, err = getenvDuration("HEALTH_PROBE_INTERVAL", "1m"); err != nil {
		return nil, err
	}

	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	return cfg, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getenvBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func getenvDuration(key, def string) (time.Duration, error) {
	v := getenvDefault(key, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s %q: must not be negative", key, v)
	}
	return d, nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}
