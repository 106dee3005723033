// Package config handles loading application configuration from environment
// variables. All config is centralized here so no other package reads env
// vars directly. Defaults target a local development setup.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration. Populated from environment
// variables at startup and passed to other packages explicitly.
type Config struct {
	// Env is the runtime environment: "development" or "production".
	Env string

	// Port is the HTTP listen port (default: 8080).
	Port int

	// BaseURL is the public-facing URL used in links.
	BaseURL string

	// LogLevel controls log verbosity: "debug", "info", "warn", "error".
	LogLevel string

	// Backend holds the adventure API settings.
	Backend BackendConfig

	// Redis holds Redis connection settings.
	Redis RedisConfig

	// Session holds login session settings.
	Session SessionConfig

	// SortLocale is the BCP 47 tag used to order entity lists by title.
	SortLocale string
}

// BackendConfig points Saga at the adventure REST API.
type BackendConfig struct {
	// URL is the backend origin (default: "http://localhost:8000").
	URL string

	// Timeout bounds every backend call.
	Timeout time.Duration
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	// URL is the Redis connection URL (e.g., "redis://localhost:6379").
	URL string
}

// SessionConfig holds session lifetimes.
type SessionConfig struct {
	// TTL is how long a login session lives in Redis.
	TTL time.Duration

	// ControllerIdleTTL is how long an unused editing tab keeps its state.
	ControllerIdleTTL time.Duration
}

// Load reads configuration from environment variables with defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		BaseURL:  getEnv("BASE_URL", "http://localhost:8080"),
		LogLevel: getEnv("LOG_LEVEL", "debug"),

		Backend: BackendConfig{
			URL:     getEnv("BACKEND_URL", "http://localhost:8000"),
			Timeout: getEnvDuration("BACKEND_TIMEOUT", 60*time.Second),
		},

		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},

		Session: SessionConfig{
			TTL:               getEnvDuration("SESSION_TTL", 720*time.Hour),
			ControllerIdleTTL: getEnvDuration("CONTROLLER_IDLE_TTL", 30*time.Minute),
		},

		SortLocale: getEnv("SORT_LOCALE", "ru"),
	}

	u, err := url.Parse(cfg.Backend.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("BACKEND_URL must be an absolute URL, got %q", cfg.Backend.URL)
	}
	if cfg.Backend.Timeout <= 0 {
		return nil, fmt.Errorf("BACKEND_TIMEOUT must be positive")
	}
	if cfg.Session.ControllerIdleTTL <= 0 {
		return nil, fmt.Errorf("CONTROLLER_IDLE_TTL must be positive")
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Env)
	return env == "development" || env == "dev"
}

// SlogLevel maps LogLevel to a slog level; unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// --- Helper functions for reading environment variables ---

func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvDuration reads a duration env var (e.g., "720h") or returns the default.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
