// Package config defines the configuration for the Knapscen email
// notification service. Configuration is loaded once at process start and is
// immutable thereafter; components receive the Config (or the subset they
// need) explicitly and never re-read ambient environment state.
//
// Values are resolved via a priority chain:
//
//	OS Environment (Highest) -> Dotenv File (Lowest)
//
// Any missing required value or invalid format aborts the run before any
// side effect, with every missing variable name reported together.
package config

import (
	"github.com/colinjlacy/knapscen-email-notifications/internal/types"
)

// SecretString is an alias for types.SecretString, the redacted secret type
// used for credentials to prevent accidental logging of sensitive values.
type SecretString = types.SecretString

// Config is the top-level configuration struct for the notification service.
// It is populated once during process initialization and never modified.
type Config struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	Notification NotificationConfig
	SMTP         SMTPConfig
	NATS         NATSConfig

	// Build Metadata (Injected via ldflags, not Env)
	Build BuildInfo
}

// NotificationConfig holds the template selector and the per-template
// parameters. Only the selector is required; the per-template fields are
// validated leniently and surface as empty context entries when absent.
type NotificationConfig struct {
	// Template selects the notification variant: "welcome", "marketing",
	// or any other tag (resolved through the open fallback path).
	Template string `envconfig:"EMAIL_TEMPLATE" validate:"required"`

	// Welcome template fields.
	UserName  string `envconfig:"USER_NAME"`
	UserEmail string `envconfig:"USER_EMAIL"`
	UserRole  string `envconfig:"USER_ROLE"`

	// Shared / marketing template fields.
	CompanyName        string `envconfig:"COMPANY_NAME"`
	MarketingTeamEmail string `envconfig:"MARKETING_TEAM_EMAIL"`

	// UsersJSON is the legacy bulk field: a JSON-encoded list of user
	// records. Malformed input degrades to an empty list, not a failure.
	UsersJSON string `envconfig:"USERS_JSON"`

	// Later-variant marketing fields.
	SubscriptionTier string `envconfig:"SUBSCRIPTION_TIER"`
	NextActions      string `envconfig:"NEXT_ACTIONS"`

	// EventSource is the CloudEvents source attribute of published records.
	EventSource string `envconfig:"EVENT_SOURCE" default:"knapscen/email-notification-service"`
}

// SMTPConfig holds the outbound mail transport parameters.
type SMTPConfig struct {
	Server   string       `envconfig:"SMTP_SERVER" validate:"required"`
	Port     int          `envconfig:"SMTP_PORT" default:"587"`
	User     string       `envconfig:"SMTP_USER" validate:"required"`
	Password SecretString `envconfig:"SMTP_PASS" validate:"required"`
}

// NATSConfig holds the event bus connection parameters. Subject is the bus
// subject the serialized notification event is published to.
type NATSConfig struct {
	Server   string       `envconfig:"NATS_SERVER" validate:"required"`
	Subject  string       `envconfig:"NATS_SUBJECT" validate:"required"`
	User     string       `envconfig:"NATS_USER" validate:"required"`
	Password SecretString `envconfig:"NATS_PASSWORD" validate:"required"`
}

// BuildInfo holds build-time metadata injected via ldflags.
// These values are NOT populated from environment variables.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// ConfigErrorType categorizes configuration loading failures to aid debugging.
type ConfigErrorType string

const (
	// ErrMissingEnv indicates one or more required environment variables
	// were not found (or were empty).
	ErrMissingEnv ConfigErrorType = "MISSING_ENV"
	// ErrValidation indicates the configuration failed struct validation
	// rules other than presence.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates a failure when parsing environment variable
	// values into their target types (e.g. a non-numeric SMTP_PORT).
	ErrParsing ConfigErrorType = "PARSING_FAILED"
)
