package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Local cache
	SQLiteDBPath string

	// Remote store (optional; empty disables the remote lane entirely)
	DatabaseURL string

	// Session
	JWTSecret string

	// Sync
	SyncQuietPeriod time.Duration

	// Scheduled snapshot capture (cron spec; empty disables the worker)
	SnapshotSchedule string

	// Logging
	LogLevel string
}

func Load() *Config {
	return &Config{
		Port:             getEnv("PORT", "8082"),
		SQLiteDBPath:     getEnv("SQLITE_DB_PATH", "./data/fintrack.db"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		SyncQuietPeriod:  getEnvDuration("SYNC_QUIET_PERIOD", 800*time.Millisecond),
		SnapshotSchedule: getEnv("SNAPSHOT_SCHEDULE", "0 6 1 * *"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.DatabaseURL != "" {
		parsed, err := url.Parse(c.DatabaseURL)
		if err != nil {
			errs = append(errs, fmt.Sprintf("invalid database URL '%s': %v", c.DatabaseURL, err))
		} else if parsed.Scheme != "postgres" && parsed.Scheme != "postgresql" {
			errs = append(errs, fmt.Sprintf("invalid database URL scheme '%s': must be 'postgres'", parsed.Scheme))
		}
		if c.JWTSecret == "" {
			errs = append(errs, "JWT secret is required when a remote database is configured")
		}
	}

	if c.SyncQuietPeriod < 50*time.Millisecond {
		errs = append(errs, fmt.Sprintf("invalid sync quiet period %v: must be at least 50ms", c.SyncQuietPeriod))
	} else if c.SyncQuietPeriod > time.Minute {
		errs = append(errs, fmt.Sprintf("invalid sync quiet period %v: must be at most 1 minute", c.SyncQuietPeriod))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
