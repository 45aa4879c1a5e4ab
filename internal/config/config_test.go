package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/officelink/internal/core/domain"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "officelink", cfg.AppName)
	assert.Equal(t, "http://localhost:8080/oauth/callback", cfg.GoogleRedirectURL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("DEBUG", "true")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "client-id", cfg.GoogleClientID)
	assert.True(t, cfg.Debug)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		GoogleClientID:     "id",
		GoogleClientSecret: "secret",
		GoogleRedirectURL:  "http://localhost:8080/oauth/callback",
		SessionSecret:      "session-secret",
	}
	require.NoError(t, cfg.Validate())

	missing := *cfg
	missing.GoogleClientSecret = ""
	err := missing.Validate()
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.FaultConfiguration))

	missing = *cfg
	missing.SessionSecret = ""
	err = missing.Validate()
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.FaultConfiguration))
}
