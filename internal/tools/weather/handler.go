// internal/tools/weather/handler.go
package weather

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"travel-orchestrator/internal/common/config"
	"travel-orchestrator/internal/common/httpclient"
	"travel-orchestrator/internal/common/logger"
	"travel-orchestrator/internal/common/metrics"
	"travel-orchestrator/internal/tools"
)

const ToolName = "weather"

// Handler adapts a current-conditions weather provider to the tool contract.
// Weather is always a secondary enrichment, so callers treat any non-ok
// status as "skip the snapshot" rather than a turn failure.
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
	city, _ := args["city"].(string)
	if city == "" {
		return "", tools.StatusProviderError
	}
	if !h.config.Enabled || h.config.BaseURL == "" {
		return "", tools.StatusUnavailable
	}

	build := func() (*http.Request, error) {
		q := url.Values{}
		q.Set("city", city)
		if h.config.APIKey != "" {
			q.Set("appid", h.config.APIKey)
		}
		q.Set("units", "metric")

		req, err := http.NewRequest(http.MethodGet, h.config.BaseURL+"/weather?"+q.Encode(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	return tools.FetchWithRetry(ctx, h.client, h.logger, ToolName, build, h.config.MaxRetries)
}
