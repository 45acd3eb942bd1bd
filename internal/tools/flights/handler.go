// internal/tools/flights/handler.go
package flights

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

const ToolName = "flights"

// Handler adapts an external flight-search provider to the tool contract.
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

// Invoke queries the provider for flight options. The raw JSON body passes
// through untouched; an empty payload plus a non-ok status signals the caller
// to fall back.
func (h *Handler) Invoke(ctx context.Context, args map[string]interface{}) (string, tools.Status) {
	start := time.Now()

	raw, status := h.invoke(ctx, args)

	metrics.ToolInvocations.WithLabelValues(ToolName, string(status)).Inc()
	metrics.ToolInvocationDuration.WithLabelValues(ToolName).Observe(time.Since(start).Seconds())
	return raw, status
}

func (h *Handler) invoke(ctx context.Context, args map[string]interface{}) (string, tools.Status) {
	if !h.config.Enabled || h.config.BaseURL == "" {
		h.logger.Warn("Flight provider not configured", map[string]interface{}{
			"tool":    ToolName,
			"enabled": h.config.Enabled,
		})
		return "", tools.StatusUnavailable
	}

	build := func() (*http.Request, error) {
		q := url.Values{}
		for key, param := range map[string]string{
			"origin":      "origin",
			"destination": "destination",
			"date":        "date",
			"return_date": "return_date",
		} {
			if v, ok := args[key].(string); ok && v != "" {
				q.Set(param, v)
			}
		}
		if passengers, ok := args["passengers"].(int); ok && passengers > 0 {
			q.Set("passengers", fmt.Sprintf("%d", passengers))
		}

		req, err := http.NewRequest(http.MethodGet, h.config.BaseURL+"/flights/search?"+q.Encode(), nil)
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
