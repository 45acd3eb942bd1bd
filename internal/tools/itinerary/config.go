// internal/tools/itinerary/config.go
package itinerary

import (
	"time"

	"travel-orchestrator/internal/common/config"
)

type Config struct {
	Enabled bool
	Timeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Enabled: true,
		Timeout: 60 * time.Second,
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
		if toolCfg.Timeout > 0 {
			cfg.Timeout = time.Duration(toolCfg.Timeout) * time.Millisecond
		}
	} else if appConfig.LLM.Timeout > 0 {
		cfg.Timeout = time.Duration(appConfig.LLM.Timeout) * time.Millisecond
	}

	return cfg
}
