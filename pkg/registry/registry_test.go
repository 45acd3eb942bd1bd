// pkg/registry/registry_test.go
package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "travel-orchestrator/internal/common/errors"
	"travel-orchestrator/internal/models"
)

func TestDefault_VerifyBindings(t *testing.T) {
	r := Default()
	assert.NoError(t, r.VerifyBindings())
}

func TestDefault_EveryIntentBound(t *testing.T) {
	r := Default()

	for _, intent := range models.IntentPriority {
		binding, ok := r.BindingFor(intent)
		require.True(t, ok, "intent %s must be bound", intent)

		_, ok = r.Tool(binding.Primary)
		assert.True(t, ok, "primary tool %q must be registered", binding.Primary)
	}
}

func TestBindingFor_FlightSearch(t *testing.T) {
	r := Default()

	binding, ok := r.BindingFor(models.IntentFlightSearch)
	require.True(t, ok)
	assert.Equal(t, "flights", binding.Primary)
	assert.Equal(t, []string{"weather"}, binding.Secondary)
}

func TestValidateArgs(t *testing.T) {
	r := Default()

	tests := []struct {
		name    string
		tool    string
		args    map[string]interface{}
		wantErr bool
	}{
		{
			name: "valid flights args",
			tool: "flights",
			args: map[string]interface{}{
				"origin":      "Mumbai",
				"destination": "Delhi",
				"date":        "2025-07-15",
				"passengers":  2,
			},
			wantErr: false,
		},
		{
			name:    "flights missing date",
			tool:    "flights",
			args:    map[string]interface{}{"origin": "Mumbai", "destination": "Delhi"},
			wantErr: true,
		},
		{
			name:    "flights malformed date",
			tool:    "flights",
			args:    map[string]interface{}{"origin": "Mumbai", "destination": "Delhi", "date": "July 15"},
			wantErr: true,
		},
		{
			name:    "valid weather args",
			tool:    "weather",
			args:    map[string]interface{}{"city": "Tokyo"},
			wantErr: false,
		},
		{
			name:    "currency negative amount",
			tool:    "currency",
			args:    map[string]interface{}{"from": "USD", "to": "INR", "amount": -5},
			wantErr: true,
		},
		{
			name:    "unknown tool",
			tool:    "teleporter",
			args:    map[string]interface{}{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.ValidateArgs(tt.tool, tt.args)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVerifyBindings_UnknownTool(t *testing.T) {
	r := Default()
	r.bindings[models.IntentFlightSearch] = Binding{
		Intent:  models.IntentFlightSearch,
		Primary: "does-not-exist",
	}

	err := r.VerifyBindings()
	require.Error(t, err)
	assert.True(t, commonerrors.IsCode(err, commonerrors.ErrCodeConfigInvalid))
}
