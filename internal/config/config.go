package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrMissingDatabaseURL is returned by Validate when DATABASE_URL is unset.
var ErrMissingDatabaseURL = errors.New("DATABASE_URL is empty")

// Config holds process configuration read from the environment.
type Config struct {
	Port        string
	DatabaseURL string

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	// ReportCacheTTL bounds how long aggregation responses are served from Redis.
	ReportCacheTTL time.Duration

	Log struct {
		Level  string
		Format string
	}

	// RolesFile points at a YAML role enumeration. Empty means the embedded default.
	RolesFile string

	AllowedOrigins  []string
	CookieSecure    bool
	LoginRatePerMin int
}

// Load reads configuration from environment variables.
//
// Environment variables:
//   - PORT (default 5050)
//   - DATABASE_URL (required)
//   - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB: report cache; caching is off when REDIS_ADDR is empty
//   - REPORT_CACHE_TTL: Go duration, default 30s
//   - LOG_LEVEL (default info), LOG_FORMAT (json|console, default json)
//   - ROLES_FILE: path to a roles YAML file
//   - ALLOWED_ORIGINS: comma-separated CORS allow-list
//   - COOKIE_SECURE: "true" to mark session cookies Secure
//   - LOGIN_RATE_PER_MIN: login attempts per client IP per minute, default 10
func Load() *Config {
	cfg := &Config{}

	cfg.Port = getEnv("PORT", "5050")
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	cfg.Redis.Addr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	cfg.ReportCacheTTL = 30 * time.Second
	if v := strings.TrimSpace(os.Getenv("REPORT_CACHE_TTL")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			cfg.ReportCacheTTL = d
		}
	}

	cfg.Log.Level = strings.ToLower(getEnv("LOG_LEVEL", "info"))
	cfg.Log.Format = strings.ToLower(getEnv("LOG_FORMAT", "json"))

	cfg.RolesFile = strings.TrimSpace(os.Getenv("ROLES_FILE"))

	cfg.AllowedOrigins = splitList(os.Getenv("ALLOWED_ORIGINS"))
	cfg.CookieSecure = strings.EqualFold(os.Getenv("COOKIE_SECURE"), "true")
	cfg.LoginRatePerMin = getEnvInt("LOGIN_RATE_PER_MIN", 10)

	return cfg
}

// Validate checks that the settings needed to start the server are present.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key))); err == nil && v >= 0 {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
