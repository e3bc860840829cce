package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config carries all runtime settings, sourced from the environment.
type Config struct {
	AppEnv           string
	LogLevel         string
	HTTPListenAddr   string
	PublicBasePath   string
	MetricsNamespace string

	// Snapshot storage. Backend selects where collection documents live:
	// "file" (default), "sqlite", "postgres" or "redis".
	SnapshotBackend  string
	SnapshotDir      string
	SQLitePath       string
	DatabaseURL      string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RedisTLS         bool
	SnapshotKeyPfx   string
	SnapshotDebounce time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		HTTPListenAddr:   getEnv("HTTP_LISTEN_ADDR", ":8080"),
		PublicBasePath:   getEnv("PUBLIC_BASE_PATH", ""),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "shopcore"),

		SnapshotBackend:  getEnv("SNAPSHOT_BACKEND", "file"),
		SnapshotDir:      getEnv("SNAPSHOT_DIR", "./data"),
		SQLitePath:       getEnv("SQLITE_PATH", "./data/snapshots.db"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		RedisTLS:         getEnvBool("REDIS_TLS", false),
		SnapshotKeyPfx:   getEnv("SNAPSHOT_KEY_PREFIX", "shopcore:snapshot"),
		SnapshotDebounce: getEnvDuration("SNAPSHOT_DEBOUNCE", 200*time.Millisecond),
	}

	switch cfg.SnapshotBackend {
	case "file", "sqlite", "redis":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("SNAPSHOT_BACKEND=postgres requires DATABASE_URL")
		}
	default:
		return nil, fmt.Errorf("unknown SNAPSHOT_BACKEND %q", cfg.SnapshotBackend)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
