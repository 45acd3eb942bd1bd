// internal/tools/currency/handler.go
package currency

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"travel-orchestrator/internal/common/config"
	"travel-orchestrator/internal/common/httpclient"
	"travel-orchestrator/internal/common/logger"
	"travel-orchestrator/internal/common/metrics"
	"travel-orchestrator/internal/tools"
)

const ToolName = "currency"

// Handler adapts an exchange-rate provider to the tool contract.
type Handler struct {
	config *Config
	logger logger.Logger
	client *httpclient.Client
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) *Handler {
	cfg := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Handler{
		config: cfg,
		logger: log,
		client: httpclient.New(cfg.Timeout),
	}
}

func (h *Handler) Name() string {
	return ToolName
}

func (h *Handler) Invoke(ctx context.Context, args map[string]interface{}) (string, tools.Status) {
	start := time.Now()

	raw, status := h.invoke(ctx, args)

	metrics.ToolInvocations.WithLabelValues(ToolName, string(status)).Inc()
	metrics.ToolInvocationDuration.WithLabelValues(ToolName).Observe(time.Since(start).Seconds())
	return raw, status
}

func (h *Handler) invoke(ctx context.Context, args map[string]interface{}) (string, tools.Status) {
	if !h.config.Enabled || h.config.BaseURL == "" {
		return "", tools.StatusUnavailable
	}

	build := func() (*http.Request, error) {
		q := url.Values{}
		if v, ok := args["from"].(string); ok {
			q.Set("from", v)
		}
		if v, ok := args["to"].(string); ok {
			q.Set("to", v)
		}
		switch amount := args["amount"].(type) {
		case float64:
			q.Set("amount", fmt.Sprintf("%g", amount))
		case int:
			q.Set("amount", fmt.Sprintf("%d", amount))
		}

		req, err := http.NewRequest(http.MethodGet, h.config.BaseURL+"/convert?"+q.Encode(), nil)
		if err != nil {
			return nil, err
		}
		if h.config.APIKey != "" {
			req.Header.Set("X-API-Key", h.config.APIKey)
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	return tools.FetchWithRetry(ctx, h.client, h.logger, ToolName, build, h.config.MaxRetries)
}
