package sefaria

import (
	"os"
	"strconv"
)

// Config holds the Sefaria client configuration.
type Config struct {
	BaseURL    string
	TimeoutMs  int
	MaxRetries int
}

// DefaultConfig returns the production Sefaria endpoint with one retry.
func DefaultConfig() Config {
	return Config{
		BaseURL:    "https://www.sefaria.org",
		TimeoutMs:  10000,
		MaxRetries: 1,
	}
}

// LoadConfig reads client configuration from environment variables,
// falling back to defaults for any unset values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("RAMBAM_SEFARIA_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("RAMBAM_SEFARIA_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}
	if v := os.Getenv("RAMBAM_SEFARIA_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MaxRetries = n
		}
	}

	return cfg
}
