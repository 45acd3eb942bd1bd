// pkg/registry/schema.go
package registry

import (
	"time"

	"travel-orchestrator/internal/models"
)

// ToolDescriptor declares one invokable tool: its argument contract and its
// default execution limits. Config may override Timeout and Retries per
// deployment; the schema is fixed at build time.
type ToolDescriptor struct {
	Name        string                 `json:"name"`
	DisplayName string                 `json:"displayName"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
	Timeout     time.Duration          `json:"timeout"`
	Retries     int                    `json:"retries"`
}

// Binding routes an intent to its tools. The primary tool's payload decides
// the turn's result shape and provenance; secondary tools enrich the response
// and their failures never degrade the primary result.
type Binding struct {
	Intent    models.Intent `json:"intent"`
	Primary   string        `json:"primary"`
	Secondary []string      `json:"secondary,omitempty"`
}
