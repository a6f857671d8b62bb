package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration
type Config struct {
	Port                string        // Service port
	KratosURL           string        // Kratos public URL (Frontend API - port 4433)
	DatabaseURL         string        // Postgres connection string for the record store
	RedisURL            string        // Optional shared session cache; in-process LRU when empty
	CacheTTL            time.Duration // Session validation cache TTL
	CacheSize           int           // In-process cache capacity
	AccessTokenSecret   string        // Secret for signing dashboard access tokens
	AccessTokenIssuer   string        // JWT issuer claim
	AccessTokenAudience string        // JWT audience claim
	AccessTokenTTL      time.Duration // JWT lifetime
	AdminSharedSecret   string        // Shared secret for /v1/admin routes; disabled when empty
	SessionGapMinutes   float64       // Gap that splits summaries into sessions
	DisplayTimezone     string        // IANA zone for day grouping; "Local" uses the host zone
	RateLimitPerMinute  int           // Auth endpoint requests per IP per minute
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	config := &Config{
		Port:                getEnv("PORT", "8890"),
		KratosURL:           getEnv("KRATOS_URL", "http://kratos:4433"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		RedisURL:            getEnv("REDIS_URL", ""),
		CacheTTL:            5 * time.Minute,
		CacheSize:           1024,
		AccessTokenSecret:   getEnv("ACCESS_TOKEN_SECRET", ""),
		AccessTokenIssuer:   getEnv("ACCESS_TOKEN_ISSUER", "aegis-dashboard"),
		AccessTokenAudience: getEnv("ACCESS_TOKEN_AUDIENCE", "aegis-dashboard-web"),
		AccessTokenTTL:      5 * time.Minute,
		AdminSharedSecret:   getEnv("ADMIN_SHARED_SECRET", ""),
		SessionGapMinutes:   30,
		DisplayTimezone:     getEnv("DISPLAY_TIMEZONE", "Local"),
		RateLimitPerMinute:  10,
	}

	var err error
	if config.CacheTTL, err = durationEnv("CACHE_TTL", config.CacheTTL); err != nil {
		return nil, err
	}
	if config.AccessTokenTTL, err = durationEnv("ACCESS_TOKEN_TTL", config.AccessTokenTTL); err != nil {
		return nil, err
	}
	if config.CacheSize, err = intEnv("CACHE_SIZE", config.CacheSize); err != nil {
		return nil, err
	}
	if config.RateLimitPerMinute, err = intEnv("AUTH_RATE_LIMIT_PER_MINUTE", config.RateLimitPerMinute); err != nil {
		return nil, err
	}
	if v := os.Getenv("SESSION_GAP_MINUTES"); v != "" {
		gap, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_GAP_MINUTES format: %w", err)
		}
		config.SessionGapMinutes = gap
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.KratosURL == "" {
		return fmt.Errorf("KRATOS_URL cannot be empty")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL cannot be empty")
	}
	if len(c.AccessTokenSecret) < 32 {
		return fmt.Errorf("ACCESS_TOKEN_SECRET must be at least 32 bytes")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be positive")
	}
	if !(c.SessionGapMinutes > 0) || math.IsInf(c.SessionGapMinutes, 1) {
		return fmt.Errorf("SESSION_GAP_MINUTES must be a positive number")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("AUTH_RATE_LIMIT_PER_MINUTE must be positive")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid DISPLAY_TIMEZONE: %w", err)
	}
	return nil
}

// Location resolves DisplayTimezone.
func (c *Config) Location() (*time.Location, error) {
	if c.DisplayTimezone == "" || strings.EqualFold(c.DisplayTimezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.DisplayTimezone)
}

// AdminEnabled reports whether the admin routes should be mounted.
func (c *Config) AdminEnabled() bool {
	return c.AdminSharedSecret != ""
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s format: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s format: %w", key, err)
	}
	return n, nil
}

// getEnv retrieves an environment variable or returns a fallback value
func getEnv(key, fallback string) string {
	// Check for _FILE suffix
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
