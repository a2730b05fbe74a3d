package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Remote catalog
	BaseURL       string
	ItemsPerPage  int
	UserAgent     string
	Timeout       time.Duration
	MaxRetries    int // 0 keeps every failure terminal
	RespectRobots bool

	// Rate limiting
	RatePerSecond float64
	RateBurst     int
	MaxConcurrent int

	// Logging
	LogLevel  string
	LogFormat string // "console" or "json"

	// Session
	SessionFile string
	SessionTTL  time.Duration

	// HTTP server
	HTTPPort string
	APIKey   string
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:       "https://dummyjson.com",
		ItemsPerPage:  20,
		UserAgent:     "storefront/1.0",
		Timeout:       30 * time.Second,
		RatePerSecond: 5.0,
		RateBurst:     5,
		MaxConcurrent: 5,
		LogLevel:      "info",
		LogFormat:     "console",
		SessionFile:   defaultSessionFile(),
		SessionTTL:    30 * time.Minute,
		HTTPPort:      "8080",
	}
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".storefront-session"
	}
	return filepath.Join(home, ".storefront", "session")
}

// LoadFromEnv loads .env file (if present) then overrides config from environment variables.
func (c *Config) LoadFromEnv() {
	// Auto-load .env file; silently ignored if missing
	_ = godotenv.Load()

	if v := os.Getenv("STOREFRONT_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("STOREFRONT_ITEMS_PER_PAGE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.ItemsPerPage = n
		}
	}
	if v := os.Getenv("STOREFRONT_USER_AGENT"); v != "" {
		c.UserAgent = v
	}
	if v := os.Getenv("STOREFRONT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}
	if v := os.Getenv("STOREFRONT_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv("STOREFRONT_RESPECT_ROBOTS"); v == "true" {
		c.RespectRobots = true
	}
	if v := os.Getenv("STOREFRONT_RATE_PER_SECOND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.RatePerSecond = f
		}
	}
	if v := os.Getenv("STOREFRONT_RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RateBurst = n
		}
	}
	if v := os.Getenv("STOREFRONT_MAX_CONCURRENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxConcurrent = n
		}
	}
	if v := os.Getenv("STOREFRONT_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("STOREFRONT_LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv("STOREFRONT_SESSION_FILE"); v != "" {
		c.SessionFile = v
	}
	if v := os.Getenv("STOREFRONT_SESSION_TTL_MINS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.SessionTTL = time.Duration(n) * time.Minute
		}
	}
	if v := os.Getenv("PORT"); v != "" {
		c.HTTPPort = v
	}
	if v := os.Getenv("STOREFRONT_API_KEY"); v != "" {
		c.APIKey = v
	}
}

// Validate reports settings the client cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base URL %q", c.BaseURL)
	}
	if c.ItemsPerPage <= 0 {
		return fmt.Errorf("items per page must be positive, got %d", c.ItemsPerPage)
	}
	if c.MaxConcurrent <= 0 {
		return fmt.Errorf("max concurrent must be positive, got %d", c.MaxConcurrent)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries must not be negative, got %d", c.MaxRetries)
	}
	return nil
}
