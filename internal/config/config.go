// Package config handles configuration loading from environment variables.
// It provides a centralized Config struct used across the build tool.
package config

import (
	"fmt"
	"os"
	"strconv"

	"permapath/internal/fingerprint"
	"permapath/internal/identity"
)

// Config holds all build-tool configuration values loaded from the environment.
type Config struct {
	// ContentDir is the root of the content source tree.
	ContentDir string

	// FingerprintWidth is the identifier length in hex characters. Wider
	// fingerprints lower the collision (and hence salting) probability at
	// the cost of longer URLs; at the default of 4 the birthday bound
	// crosses 50% around three hundred items sharing one registry.
	FingerprintWidth int

	// SaltBudget is how many salted retries the collision resolver spends
	// at each width before extending the fingerprint.
	SaltBudget int

	Env string // "development", "production", "testing"
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error when values are
// present but out of range.
func Load() (*Config, error) {
	cfg := &Config{
		ContentDir: envOrDefault("PERMAPATH_CONTENT_DIR", "content"),
		Env:        envOrDefault("PERMAPATH_ENV", "development"),
	}

	width, err := envIntOrDefault("PERMAPATH_FINGERPRINT_WIDTH", fingerprint.DefaultWidth)
	if err != nil {
		return nil, err
	}
	if width < 1 || width > fingerprint.MaxWidth {
		return nil, fmt.Errorf("PERMAPATH_FINGERPRINT_WIDTH must be between 1 and %d, got %d",
			fingerprint.MaxWidth, width)
	}
	cfg.FingerprintWidth = width

	budget, err := envIntOrDefault("PERMAPATH_SALT_BUDGET", identity.DefaultSaltBudget)
	if err != nil {
		return nil, err
	}
	if budget < 1 {
		return nil, fmt.Errorf("PERMAPATH_SALT_BUDGET must be positive, got %d", budget)
	}
	cfg.SaltBudget = budget

	return cfg, nil
}

// IsDev returns true if the tool is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envIntOrDefault reads an integer environment variable, returning a
// fallback if unset and an error if set but not a number.
func envIntOrDefault(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
