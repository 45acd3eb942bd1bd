// internal/common/errors/errors.go
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Per-turn, recoverable. Never surfaced raw to the caller.
	ErrCodeMissingEntity   ErrorCode = "MISSING_ENTITY"
	ErrCodeToolTimeout     ErrorCode = "TOOL_TIMEOUT"
	ErrCodeToolUnavailable ErrorCode = "TOOL_UNAVAILABLE"
	ErrCodeProviderError   ErrorCode = "PROVIDER_ERROR"
	ErrCodeParseFailed     ErrorCode = "PARSE_FAILED"
	ErrCodeLLMTimeout      ErrorCode = "LLM_TIMEOUT"
	ErrCodeSessionBusy     ErrorCode = "SESSION_BUSY"

	// Startup-only. The single fatal class.
	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewMissingEntityError reports required fields absent after extraction and
// session inheritance. Surfaced as a clarification prompt, never as a failure.
func NewMissingEntityError(missing []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMissingEntity,
		Message:   "Required trip parameters are missing",
		Details:   fmt.Sprintf("missing: %v", missing),
		Retryable: false,
		Metadata:  map[string]interface{}{"missing": missing},
		Timestamp: time.Now().UTC(),
	}
}

// NewToolTimeoutError creates a retryable tool timeout error.
func NewToolTimeoutError(tool string) *StandardError {
	return &StandardError{
		Code:      ErrCodeToolTimeout,
		Message:   "Tool invocation timed out",
		Details:   fmt.Sprintf("tool: %s", tool),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewToolUnavailableError creates a non-retryable tool availability error.
func NewToolUnavailableError(tool string, err error) *StandardError {
	details := fmt.Sprintf("tool: %s", tool)
	if err != nil {
		details = fmt.Sprintf("tool: %s, error: %s", tool, err.Error())
	}
	return &StandardError{
		Code:      ErrCodeToolUnavailable,
		Message:   "Tool provider unavailable",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewProviderError wraps an upstream provider failure.
func NewProviderError(tool string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeProviderError,
		Message:   "Tool provider returned an error",
		Details:   fmt.Sprintf("tool: %s, error: %s", tool, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewParseFailedError reports model or tool output that could not be decoded.
func NewParseFailedError(shape string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeParseFailed,
		Message:   "Response could not be parsed into canonical form",
		Details:   fmt.Sprintf("shape: %s, error: %s", shape, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewLLMTimeoutError creates a retryable model timeout error.
func NewLLMTimeoutError() *StandardError {
	return &StandardError{
		Code:      ErrCodeLLMTimeout,
		Message:   "Language model call timed out",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionBusyError reports a turn that gave up waiting for its session's
// lock while another turn was still in flight.
func NewSessionBusyError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionBusy,
		Message:   "Another turn is already in flight for this session",
		Details:   fmt.Sprintf("session: %s", sessionID),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigInvalidError reports a configuration problem, e.g. an intent bound to
// an unregistered tool. Fatal at startup, outside the per-turn core.
func NewConfigInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigInvalid,
		Message:   "Invalid configuration",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// IsCode reports whether err is a StandardError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	se, ok := err.(*StandardError)
	return ok && se.Code == code
}
