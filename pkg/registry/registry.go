// pkg/registry/registry.go
package registry

import (
	"fmt"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	commonerrors "travel-orchestrator/internal/common/errors"
	"travel-orchestrator/internal/models"
)

// Registry holds the tool descriptors and the intent routing table. It is
// built once at startup and read-only afterwards.
type Registry struct {
	tools    map[string]ToolDescriptor
	bindings map[models.Intent]Binding
	schemas  map[string]*gojsonschema.Schema
}

// Default builds the embedded registry covering every routable intent.
func Default() *Registry {
	citySchema := map[string]interface{}{"type": "string", "minLength": 1}

	tools := []ToolDescriptor{
		{
			Name:        "flights",
			DisplayName: "Flight Search",
			Description: "Searches flight options between two cities on a date",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"origin":      citySchema,
					"destination": citySchema,
					"date":        map[string]interface{}{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
					"return_date": map[string]interface{}{"type": "string"},
					"passengers":  map[string]interface{}{"type": "integer", "minimum": 1},
				},
				"required": []interface{}{"origin", "destination", "date"},
			},
			Timeout: 20 * time.Second,
			Retries: 2,
		},
		{
			Name:        "hotels",
			DisplayName: "Hotel Search",
			Description: "Searches lodging options in a city",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"destination": citySchema,
					"date":        map[string]interface{}{"type": "string"},
					"days":        map[string]interface{}{"type": "integer", "minimum": 1},
				},
				"required": []interface{}{"destination"},
			},
			Timeout: 15 * time.Second,
			Retries: 2,
		},
		{
			Name:        "weather",
			DisplayName: "Weather Lookup",
			Description: "Current weather snapshot for a city",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"city": citySchema,
				},
				"required": []interface{}{"city"},
			},
			Timeout: 10 * time.Second,
			Retries: 1,
		},
		{
			Name:        "currency",
			DisplayName: "Currency Conversion",
			Description: "Converts an amount between currencies",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"from":   map[string]interface{}{"type": "string", "minLength": 3, "maxLength": 3},
					"to":     map[string]interface{}{"type": "string", "minLength": 3, "maxLength": 3},
					"amount": map[string]interface{}{"type": "number", "minimum": 0},
				},
				"required": []interface{}{"from", "to", "amount"},
			},
			Timeout: 10 * time.Second,
			Retries: 1,
		},
		{
			Name:        "itinerary",
			DisplayName: "Itinerary Suggestions",
			Description: "Model-generated travel suggestions",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"text":        map[string]interface{}{"type": "string"},
					"destination": map[string]interface{}{"type": "string"},
					"days":        map[string]interface{}{"type": "integer", "minimum": 1},
					"passengers":  map[string]interface{}{"type": "integer", "minimum": 1},
				},
				"required": []interface{}{"text"},
			},
			Timeout: 60 * time.Second,
			Retries: 1,
		},
	}

	bindings := []Binding{
		{Intent: models.IntentFlightSearch, Primary: "flights", Secondary: []string{"weather"}},
		{Intent: models.IntentItineraryPlanning, Primary: "itinerary"},
		{Intent: models.IntentBestTimeQuery, Primary: "itinerary", Secondary: []string{"weather"}},
		{Intent: models.IntentBudgetQuery, Primary: "itinerary", Secondary: []string{"currency"}},
		{Intent: models.IntentGenericSuggestion, Primary: "itinerary"},
	}

	r := &Registry{
		tools:    make(map[string]ToolDescriptor, len(tools)),
		bindings: make(map[models.Intent]Binding, len(bindings)),
		schemas:  make(map[string]*gojsonschema.Schema, len(tools)),
	}
	for _, t := range tools {
		r.tools[t.Name] = t
	}
	for _, b := range bindings {
		r.bindings[b.Intent] = b
	}
	return r
}

// Tool returns the descriptor for a tool name.
func (r *Registry) Tool(name string) (ToolDescriptor, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// BindingFor returns the routing entry for an intent.
func (r *Registry) BindingFor(intent models.Intent) (Binding, bool) {
	b, ok := r.bindings[intent]
	return b, ok
}

// ToolNames lists registered tools in no particular order.
func (r *Registry) ToolNames() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	return names
}

// ValidateArgs checks args against the tool's input schema. Schema violations
// come back as a single error listing every failed constraint.
func (r *Registry) ValidateArgs(tool string, args map[string]interface{}) error {
	schema, err := r.compiledSchema(tool)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return fmt.Errorf("validate %s args: %w", tool, err)
	}
	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return fmt.Errorf("invalid %s args: %s", tool, strings.Join(violations, "; "))
}

func (r *Registry) compiledSchema(tool string) (*gojsonschema.Schema, error) {
	if s, ok := r.schemas[tool]; ok {
		return s, nil
	}
	desc, ok := r.tools[tool]
	if !ok {
		return nil, fmt.Errorf("unknown tool %q", tool)
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(desc.InputSchema))
	if err != nil {
		return nil, fmt.Errorf("compile %s schema: %w", tool, err)
	}
	r.schemas[tool] = s
	return s, nil
}

// VerifyBindings checks the routing table at startup: every intent must be
// bound, every bound tool must exist, and every schema must compile. Failures
// are configuration errors and the process should not start.
func (r *Registry) VerifyBindings() error {
	for _, intent := range models.IntentPriority {
		binding, ok := r.bindings[intent]
		if !ok {
			return commonerrors.NewConfigInvalidError(fmt.Sprintf("intent %s has no tool binding", intent))
		}
		if _, ok := r.tools[binding.Primary]; !ok {
			return commonerrors.NewConfigInvalidError(fmt.Sprintf("intent %s bound to unknown tool %q", intent, binding.Primary))
		}
		for _, name := range binding.Secondary {
			if _, ok := r.tools[name]; !ok {
				return commonerrors.NewConfigInvalidError(fmt.Sprintf("intent %s bound to unknown secondary tool %q", intent, name))
			}
		}
	}
	for name := range r.tools {
		if _, err := r.compiledSchema(name); err != nil {
			return commonerrors.NewConfigInvalidError(err.Error())
		}
	}
	return nil
}
