// internal/tools/itinerary/handler.go
package itinerary

import (
	"context"
	"errors"
	"time"

	"travel-orchestrator/internal/common/config"
	commonerrors "travel-orchestrator/internal/common/errors"
	"travel-orchestrator/internal/common/logger"
	"travel-orchestrator/internal/common/metrics"
	"travel-orchestrator/internal/llm"
	"travel-orchestrator/internal/models"
	"travel-orchestrator/internal/tools"
)

const ToolName = "itinerary"

// Handler generates travel suggestions through the language model. Unlike the
// HTTP tools it has no provider URL; the model is the provider.
type Handler struct {
	config   *Config
	logger   logger.Logger
	provider llm.Provider
}

type HandlerOptions struct {
	AppConfig    *config.Config
	CustomConfig *Config
	Provider     llm.Provider
	Logger       logger.Logger
}

func NewHandler(opts HandlerOptions) *Handler {
	cfg := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Handler{
		config:   cfg,
		logger:   log,
		provider: opts.Provider,
	}
}

func (h *Handler) Name() string {
	return ToolName
}

// Invoke renders the suggestion prompt from the turn's text and entities and
// returns the raw completion. A nil provider reports unavailable so the
// parser falls back to synthetic suggestions.
func (h *Handler) Invoke(ctx context.Context, args map[string]interface{}) (string, tools.Status) {
	start := time.Now()

	raw, status := h.invoke(ctx, args)

	metrics.ToolInvocations.WithLabelValues(ToolName, string(status)).Inc()
	metrics.ToolInvocationDuration.WithLabelValues(ToolName).Observe(time.Since(start).Seconds())
	return raw, status
}

func (h *Handler) invoke(ctx context.Context, args map[string]interface{}) (string, tools.Status) {
	if h.provider == nil || !h.config.Enabled {
		return "", tools.StatusUnavailable
	}

	text, _ := args["text"].(string)
	entities := models.ExtractedEntities{Passengers: 1}
	if v, ok := args["destination"].(string); ok {
		entities.Destination = v
	}
	if v, ok := args["days"].(int); ok {
		entities.Days = v
	}
	if v, ok := args["passengers"].(int); ok && v > 0 {
		entities.Passengers = v
	}

	prompt := llm.BuildItineraryPrompt(text, entities)

	ctx, cancel := context.WithTimeout(ctx, h.config.Timeout)
	defer cancel()

	completion, err := h.provider.Complete(ctx, prompt)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			h.logger.Warn("Model completion timed out", map[string]interface{}{
				"tool":    ToolName,
				"timeout": h.config.Timeout.String(),
				"error":   commonerrors.NewLLMTimeoutError().Error(),
			})
			return "", tools.StatusTimeout
		}
		h.logger.Error("Model completion failed", map[string]interface{}{
			"tool":  ToolName,
			"error": commonerrors.NewProviderError(ToolName, err).Error(),
		})
		return "", tools.StatusProviderError
	}

	return completion, tools.StatusOK
}
