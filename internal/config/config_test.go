package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *Config {
	return &Config{
		Port:       "8080",
		Env:        "development",
		JWTSecret:  "dev-secret",
		AdminEmail: "admin@example.com",
		DBPassword: "password",
	}
}

func TestValidateDevelopmentDefaults(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidateRequiresPortAndSecret(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.Port = ""
	assert.Error(t, cfg.Validate())

	cfg = baseConfig()
	cfg.JWTSecret = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateProductionRules(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	cfg.Env = "production"
	cfg.JWTSecret = "short"
	assert.Error(t, cfg.Validate(), "short secret must fail in production")

	cfg.JWTSecret = "a-very-long-production-secret-value-123456"
	cfg.DBPassword = "password"
	assert.Error(t, cfg.Validate(), "default db password must fail in production")

	cfg.DBPassword = "strong-db-password"
	cfg.AdminEmail = ""
	assert.Error(t, cfg.Validate(), "missing admin email must fail in production")

	cfg.AdminEmail = "admin@example.com"
	require.NoError(t, cfg.Validate())
}

func TestMailEnabled(t *testing.T) {
	t.Parallel()

	cfg := baseConfig()
	assert.False(t, cfg.MailEnabled())

	cfg.SMTPHost = "smtp.example.com"
	cfg.SMTPFrom = "noreply@example.com"
	assert.True(t, cfg.MailEnabled())
}
