// cmd/orchestrator/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"travel-orchestrator/internal/aliases"
	"travel-orchestrator/internal/common/config"
	"travel-orchestrator/internal/common/database"
	"travel-orchestrator/internal/common/logger"
	"travel-orchestrator/internal/common/observability"
	"travel-orchestrator/internal/engine/classifier"
	"travel-orchestrator/internal/engine/extractor"
	"travel-orchestrator/internal/engine/orchestrator"
	"travel-orchestrator/internal/engine/session"
	"travel-orchestrator/internal/llm"
	"travel-orchestrator/internal/server"
	"travel-orchestrator/internal/tools"
	"travel-orchestrator/internal/tools/currency"
	"travel-orchestrator/internal/tools/flights"
	"travel-orchestrator/internal/tools/hotels"
	"travel-orchestrator/internal/tools/itinerary"
	"travel-orchestrator/internal/tools/weather"
	"travel-orchestrator/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		zapLog := logger.New("info", "console")
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting travel orchestrator...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Session store ---
	store := session.Store(session.NewMemoryStore())
	if cfg.Session.Backend == "redis" {
		var redisClient *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redisClient, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			// Test the connection with context
			return redisClient.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redisClient.Close()

		store = session.NewRedisStore(redisClient.GetClient(), time.Duration(cfg.Session.TTL)*time.Second)
		zapLog.Info("Redis session store connected successfully")
	}

	// --- City alias table, optionally enriched from PostgreSQL ---
	cityTable := aliases.NewTable()
	if cfg.Database.Postgres.Enabled {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			// Test the connection with context
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()

		loaded, err := aliases.LoadFromDB(ctx, pg.DB, cityTable)
		if err != nil {
			zapLog.Fatal("city alias load failed", zap.Error(err))
		}
		zapLog.Info("City aliases loaded from PostgreSQL", zap.Int("count", loaded))
	}

	// --- LLM provider ---
	// Without an API key the itinerary tool reports unavailable and turns fall
	// back to synthetic suggestions.
	var provider llm.Provider
	if cfg.LLM.APIKey != "" {
		provider, err = llm.NewGemini(ctx, cfg.LLM)
		if err != nil {
			zapLog.Fatal("gemini client failed", zap.Error(err))
		}
		defer provider.Close()
		zapLog.Info("Gemini provider initialized", zap.String("model", cfg.LLM.Model))
	} else {
		zapLog.Warn("No LLM API key configured, itinerary suggestions will be synthetic")
	}

	// --- Capability tools ---
	toolList := []tools.Tool{
		flights.NewHandler(flights.HandlerOptions{AppConfig: cfg, Logger: log}),
		hotels.NewHandler(hotels.HandlerOptions{AppConfig: cfg, Logger: log}),
		weather.NewHandler(weather.HandlerOptions{AppConfig: cfg, Logger: log}),
		currency.NewHandler(currency.HandlerOptions{AppConfig: cfg, Logger: log}),
		itinerary.NewHandler(itinerary.HandlerOptions{AppConfig: cfg, Provider: provider, Logger: log}),
	}

	// --- Orchestrator ---
	orch, err := orchestrator.New(orchestrator.Options{
		Classifier: classifier.New(),
		Extractor:  extractor.New(cityTable),
		Registry:   registry.Default(),
		Tools:      toolList,
		Store:      store,
		Logger:     log,
		Obs:        obs,
	})
	if err != nil {
		zapLog.Fatal("orchestrator init failed", zap.Error(err))
	}
	zapLog.Info("All capability tools registered successfully")

	// --- HTTP Server ---
	srv := server.New(cfg.Server, orch, log)
	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Travel orchestrator stopped gracefully")
}
