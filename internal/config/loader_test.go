package config

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requiredVars is the full required configuration set, in struct order.
var requiredVars = []string{
	"EMAIL_TEMPLATE",
	"SMTP_SERVER", "SMTP_USER", "SMTP_PASS",
	"NATS_SERVER", "NATS_SUBJECT", "NATS_USER", "NATS_PASSWORD",
}

// setValidEnv populates a complete, valid environment for the loader.
// Individual tests blank out entries to simulate missing values; t.Setenv
// restores the process environment after each test.
func setValidEnv(t *testing.T) {
	t.Helper()
	t.Setenv("EMAIL_TEMPLATE", "welcome")
	t.Setenv("SMTP_SERVER", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("SMTP_USER", "notifier@example.com")
	t.Setenv("SMTP_PASS", "smtp-secret")
	t.Setenv("NATS_SERVER", "nats://localhost:4222")
	t.Setenv("NATS_SUBJECT", "email-notifications")
	t.Setenv("NATS_USER", "nats-user")
	t.Setenv("NATS_PASSWORD", "nats-secret")
	t.Setenv("USER_NAME", "Alice Johnson")
	t.Setenv("USER_EMAIL", "alice@example.com")
	t.Setenv("COMPANY_NAME", "Acme")
	t.Setenv("USER_ROLE", "admin")
	t.Setenv("MARKETING_TEAM_EMAIL", "marketing@knapscen.com")
	t.Setenv("USERS_JSON", "[]")
	t.Setenv("SUBSCRIPTION_TIER", "gold")
	t.Setenv("NEXT_ACTIONS", "schedule onboarding call")
	t.Setenv("LOG_LEVEL", "info")
	// envconfig only falls back to a tag default when the variable is
	// genuinely unset, not when it is set to "". t.Setenv registers the
	// restore; unsetting afterwards keeps the test hermetic.
	unsetenv(t, "EVENT_SOURCE")
}

// unsetenv removes a variable for the duration of the test while still
// restoring any pre-existing value afterwards.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoadValidEnvironment(t *testing.T) {
	setValidEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "welcome", cfg.Notification.Template)
	assert.Equal(t, "smtp.example.com", cfg.SMTP.Server)
	assert.Equal(t, 2525, cfg.SMTP.Port)
	assert.Equal(t, "notifier@example.com", cfg.SMTP.User)
	assert.Equal(t, "smtp-secret", cfg.SMTP.Password.Unmask())
	assert.Equal(t, "nats://localhost:4222", cfg.NATS.Server)
	assert.Equal(t, "email-notifications", cfg.NATS.Subject)
	assert.Equal(t, "nats-secret", cfg.NATS.Password.Unmask())
	assert.Equal(t, "alice@example.com", cfg.Notification.UserEmail)
	assert.Equal(t, "gold", cfg.Notification.SubscriptionTier)
	// Defaults applied for unset optional values.
	assert.Equal(t, "knapscen/email-notification-service", cfg.Notification.EventSource)
}

func TestLoadDefaultSMTPPort(t *testing.T) {
	setValidEnv(t)
	unsetenv(t, "SMTP_PORT")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 587, cfg.SMTP.Port)
}

func TestLoadNonNumericSMTPPort(t *testing.T) {
	setValidEnv(t)
	t.Setenv("SMTP_PORT", "not-a-port")

	_, err := Load()
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ErrParsing, cfgErr.Type)
}

// A single missing required value must be reported by its environment
// variable name.
func TestLoadSingleMissingVar(t *testing.T) {
	setValidEnv(t)
	t.Setenv("NATS_SUBJECT", "")

	_, err := Load()
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ErrMissingEnv, cfgErr.Type)
	assert.Contains(t, cfgErr.Message, "NATS_SUBJECT")
	assert.NotContains(t, cfgErr.Message, "SMTP_SERVER")
}

// When several required values are missing, the failure must enumerate ALL
// of them at once, not just the first.
func TestLoadReportsAllMissingVars(t *testing.T) {
	setValidEnv(t)
	for _, name := range requiredVars {
		t.Setenv(name, "")
	}

	_, err := Load()
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ErrMissingEnv, cfgErr.Type)
	for _, name := range requiredVars {
		assert.Contains(t, cfgErr.Message, name, "missing-var report should name %s", name)
	}
}

func TestEnvVarForField(t *testing.T) {
	tests := []struct {
		namespace string
		want      string
	}{
		{"Config.SMTP.Server", "SMTP_SERVER"},
		{"Config.SMTP.Password", "SMTP_PASS"},
		{"Config.NATS.Subject", "NATS_SUBJECT"},
		{"Config.Notification.Template", "EMAIL_TEMPLATE"},
		{"Config.LogLevel", "LOG_LEVEL"},
		// Unknown fields fall back to the raw namespace.
		{"Config.Nope.Field", "Config.Nope.Field"},
	}

	for _, tt := range tests {
		t.Run(tt.namespace, func(t *testing.T) {
			assert.Equal(t, tt.want, envVarForField(tt.namespace))
		})
	}
}
