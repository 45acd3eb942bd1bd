// internal/tools/currency/config.go
package currency

import (
	"time"

	"travel-orchestrator/internal/common/config"
)

type Config struct {
	Enabled    bool
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:    true,
		Timeout:    10 * time.Second,
		MaxRetries: 1,
	}
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()
	if appConfig == nil {
		return cfg
	}

	if toolCfg, exists := appConfig.Tools[ToolName]; exists {
		cfg.Enabled = toolCfg.Enabled
		cfg.BaseURL = toolCfg.BaseURL
		cfg.APIKey = toolCfg.APIKey
		if toolCfg.Timeout > 0 {
			cfg.Timeout = time.Duration(toolCfg.Timeout) * time.Millisecond
		}
		if toolCfg.MaxRetries > 0 {
			cfg.MaxRetries = toolCfg.MaxRetries
		}
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = appConfig.APIs.Currency.BaseURL
	}
	if cfg.APIKey == "" {
		cfg.APIKey = appConfig.APIs.Currency.APIKey
	}

	return cfg
}
