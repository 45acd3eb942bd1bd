// internal/tools/invoke.go
package tools

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"travel-orchestrator/internal/common/httpclient"
	"travel-orchestrator/internal/common/logger"
)

const maxResponseBytes = 1 << 20

// FetchWithRetry performs an HTTP request with bounded retries and exponential
// backoff, mapping the outcome onto a Status. Retries cover transient
// transport failures and 5xx responses; 4xx responses and context expiry do
// not retry.
func FetchWithRetry(ctx context.Context, client *httpclient.Client, log logger.Logger, tool string, build func() (*http.Request, error), maxRetries int) (string, Status) {
	var lastStatus Status = StatusUnavailable

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-ctx.Done():
				return "", classifyContextErr(ctx.Err())
			case <-time.After(backoff):
			}
		}

		req, err := build()
		if err != nil {
			log.Error("Failed to build provider request", map[string]interface{}{
				"tool":  tool,
				"error": err.Error(),
			})
			return "", StatusUnavailable
		}

		resp, err := client.DoWithContext(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return "", classifyContextErr(ctx.Err())
			}
			log.Warn("Provider request failed", map[string]interface{}{
				"tool":    tool,
				"attempt": attempt + 1,
				"error":   err.Error(),
			})
			lastStatus = StatusUnavailable
			continue
		}

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		resp.Body.Close()

		switch {
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			if readErr != nil {
				lastStatus = StatusProviderError
				continue
			}
			return string(body), StatusOK
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			log.Warn("Provider returned retryable status", map[string]interface{}{
				"tool":       tool,
				"attempt":    attempt + 1,
				"httpStatus": resp.StatusCode,
			})
			lastStatus = StatusProviderError
			continue
		default:
			log.Error("Provider rejected request", map[string]interface{}{
				"tool":       tool,
				"httpStatus": resp.StatusCode,
			})
			return "", StatusProviderError
		}
	}

	return "", lastStatus
}

func classifyContextErr(err error) Status {
	if errors.Is(err, context.DeadlineExceeded) {
		return StatusTimeout
	}
	return StatusUnavailable
}
