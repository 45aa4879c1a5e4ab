// Package config loads application configuration from environment
// variables, optionally seeded from a .env file.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/officelink/internal/core/domain"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Server
	Port    string
	AppName string
	Env     string
	Debug   bool

	// Storage. Backend is "sqlite" or "memory"; memory keeps nothing
	// across restarts and exists for development setups.
	Backend string
	DataDir string

	// OAuth2 — Google
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// Platform sessions
	SessionSecret string
	SessionIssuer string
}

// Load reads configuration from environment variables with sensible
// defaults. A .env file in the working directory is applied first when
// present.
func Load() *Config {
	_ = godotenv.Load() // silently ignore if .env doesn't exist

	return &Config{
		Port:    envOrDefault("PORT", "8080"),
		AppName: envOrDefault("APP_NAME", "officelink"),
		Env:     envOrDefault("APP_ENV", "development"),
		Debug:   envOrDefaultBool("DEBUG", false),

		Backend: envOrDefault("STORAGE", "sqlite"),
		DataDir: os.Getenv("DATA_DIR"),

		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  envOrDefault("GOOGLE_REDIRECT_URL", "http://localhost:8080/oauth/callback"),

		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionIssuer: envOrDefault("SESSION_ISSUER", "officelink"),
	}
}

// Validate checks the settings the server cannot run without. Failures
// are configuration faults; they are operator-facing and fatal.
func (c *Config) Validate() error {
	if c.GoogleClientID == "" || c.GoogleClientSecret == "" {
		return domain.Faultf(domain.FaultConfiguration,
			"GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET must be set")
	}
	if c.GoogleRedirectURL == "" {
		return domain.Faultf(domain.FaultConfiguration, "GOOGLE_REDIRECT_URL must be set")
	}
	if c.SessionSecret == "" {
		return domain.Faultf(domain.FaultConfiguration, "SESSION_SECRET must be set")
	}
	if c.Backend != "sqlite" && c.Backend != "memory" {
		return domain.Faultf(domain.FaultConfiguration, "STORAGE must be sqlite or memory, got %q", c.Backend)
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}
