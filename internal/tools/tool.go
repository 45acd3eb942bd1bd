// internal/tools/tool.go
package tools

import (
	"context"
	"errors"

	commonerrors "travel-orchestrator/internal/common/errors"
)

// Status is the outcome class of one tool invocation. Tools never return Go
// errors to the orchestrator; the status plus an empty payload is the whole
// failure story, and the parser decides what to do about it.
type Status string

const (
	StatusOK            Status = "ok"
	StatusTimeout       Status = "timeout"
	StatusProviderError Status = "provider_error"
	StatusUnavailable   Status = "unavailable"
)

// Tool is the uniform invocation contract. The raw payload is the provider's
// response body (or model completion) verbatim; interpreting it is the
// parser's job.
type Tool interface {
	Name() string
	Invoke(ctx context.Context, args map[string]interface{}) (raw string, status Status)
}

// StatusError maps a failed invocation status onto its standard error, for
// structured logging at the dispatch layer. StatusOK maps to nil.
func StatusError(tool string, status Status) error {
	switch status {
	case StatusTimeout:
		return commonerrors.NewToolTimeoutError(tool)
	case StatusUnavailable:
		return commonerrors.NewToolUnavailableError(tool, nil)
	case StatusProviderError:
		return commonerrors.NewProviderError(tool, errors.New("provider returned an unusable response"))
	default:
		return nil
	}
}
