// loader.go implements the configuration loading lifecycle.
//
// The loading sequence is:
//  1. Enforce UTC timezone to prevent drift bugs.
//  2. Load a .env file via godotenv (non-fatal if absent; never overrides
//     existing environment variables).
//  3. Use envconfig to process struct tags and populate the Config struct.
//  4. Populate BuildInfo from linker-injected variables.
//  5. Validate the struct using go-playground/validator. Validation collects
//     every violation, so a failure enumerates ALL missing variable names at
//     once rather than stopping at the first.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ConfigError is a diagnostic error type returned by Load to aid debugging.
// It wraps a ConfigErrorType and an underlying error message.
type ConfigError struct {
	Type    ConfigErrorType
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Load loads and validates the service configuration.
//
// The loader has no side effects beyond reading: it never mutates the
// environment, and the returned Config is immutable by convention.
func Load() (*Config, error) {
	// Step 1: Enforce UTC timezone to prevent drift bugs.
	time.Local = time.UTC

	// Step 2: Load .env file (non-fatal if absent).
	_ = godotenv.Load()

	// Step 3: Process envconfig tags to populate the Config struct.
	// The empty prefix "" means envconfig uses the exact tag values
	// (e.g., envconfig:"SMTP_PORT" reads SMTP_PORT directly).
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrParsing,
			Message: "failed to process environment configuration",
			Err:     err,
		}
	}

	// Step 4: Populate build metadata from linker-injected variables.
	cfg.Build = NewBuildInfo()

	// Step 5: Validate the populated struct.
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validateConfig runs struct validation and translates validator failures
// into ConfigErrors. Missing required values are reported as a single
// ErrMissingEnv error naming every absent environment variable.
func validateConfig(cfg *Config) error {
	validate := validator.New()
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ConfigError{
			Type:    ErrValidation,
			Message: "configuration validation failed",
			Err:     err,
		}
	}

	var missing []string
	var other []string
	for _, fe := range verrs {
		name := envVarForField(fe.StructNamespace())
		if fe.Tag() == "required" {
			missing = append(missing, name)
			continue
		}
		other = append(other, fmt.Sprintf("%s (%s)", name, fe.Tag()))
	}

	if len(missing) > 0 {
		return &ConfigError{
			Type:    ErrMissingEnv,
			Message: fmt.Sprintf("missing required environment variables: %s", strings.Join(missing, ", ")),
		}
	}
	return &ConfigError{
		Type:    ErrValidation,
		Message: fmt.Sprintf("invalid configuration values: %s", strings.Join(other, ", ")),
	}
}

// envVarForField resolves a validator struct namespace (e.g.
// "Config.SMTP.Server") to the envconfig tag of the leaf field (e.g.
// "SMTP_SERVER"), so error messages name the variable the operator must set
// rather than the Go field.
func envVarForField(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 0 && parts[0] == "Config" {
		parts = parts[1:]
	}

	t := reflect.TypeOf(Config{})
	var tag string
	for _, part := range parts {
		if t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if t.Kind() != reflect.Struct {
			return namespace
		}
		field, ok := t.FieldByName(part)
		if !ok {
			return namespace
		}
		tag = field.Tag.Get("envconfig")
		t = field.Type
	}
	if tag == "" {
		return namespace
	}
	return tag
}
