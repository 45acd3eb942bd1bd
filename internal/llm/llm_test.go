// internal/llm/llm_test.go
package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"travel-orchestrator/internal/models"
)

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json fence",
			input:    "```json\n[{\"a\":1}]\n```",
			expected: "[{\"a\":1}]",
		},
		{
			name:     "bare fence",
			input:    "```\n{\"a\":1}\n```",
			expected: "{\"a\":1}",
		},
		{
			name:     "no fence",
			input:    "  [1,2,3]  ",
			expected: "[1,2,3]",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanResponse(tt.input))
		})
	}
}

func TestBuildItineraryPrompt(t *testing.T) {
	prompt := BuildItineraryPrompt("plan a trip to Tokyo", models.ExtractedEntities{
		Destination: "Tokyo",
		Days:        5,
		Passengers:  2,
	})

	assert.Contains(t, prompt, "Destination: Tokyo")
	assert.Contains(t, prompt, "Trip duration: 5 days")
	assert.Contains(t, prompt, "Group size: 2")
	assert.Contains(t, prompt, "exactly two suggestion objects")
	assert.Contains(t, prompt, `"accommodation_suggestions"`)
}

func TestBuildItineraryPrompt_Defaults(t *testing.T) {
	prompt := BuildItineraryPrompt("surprise me", models.ExtractedEntities{Passengers: 1})

	assert.Contains(t, prompt, "a destination of your choice")
	assert.Contains(t, prompt, "Trip duration: 3 days")
}
