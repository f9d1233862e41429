package types

import "fmt"

// ErrorCode is a typed string for categorizing application errors.
type ErrorCode string

// Error code constants. Components MUST use these constants instead of
// hardcoded strings so the orchestrator and entrypoint can classify
// failures without string matching.
const (
	// Configuration (fatal, aborts before any side effect)
	ErrCodeConfigMissingEnv ErrorCode = "config_missing_env"
	ErrCodeConfigParsing    ErrorCode = "config_parsing_failed"

	// Template resolution (fatal for the current run)
	ErrCodeTemplateUnsupported ErrorCode = "template_unsupported"

	// Stage-local failures (caught at their stage, converted to a boolean
	// outcome, never propagated as errors)
	ErrCodeTemplateRender ErrorCode = "template_render_failed"
	ErrCodeDeliveryFailed ErrorCode = "delivery_failed"
	ErrCodePublishFailed  ErrorCode = "publish_failed"
)

// Fatal reports whether an error with this code should abort the run and be
// surfaced at the process boundary. Stage-local codes are never fatal: they
// are logged where they occur and reduced to the stage's boolean outcome.
func (c ErrorCode) Fatal() bool {
	switch c {
	case ErrCodeConfigMissingEnv, ErrCodeConfigParsing, ErrCodeTemplateUnsupported:
		return true
	default:
		return false
	}
}

// AppError is the standard application error type. All domain errors are
// expressed as AppError so callers can distinguish fatal configuration and
// template failures from soft, stage-local degradations by code rather than
// by control-flow unwinding.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError with the given code, message, and
// optional underlying error.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewAppErrorWithDetails creates a new AppError carrying structured details
// for logging.
func NewAppErrorWithDetails(code ErrorCode, message string, err error, details map[string]any) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
		Details: details,
	}
}
