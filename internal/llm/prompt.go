// internal/llm/prompt.go
package llm

import (
	"fmt"
	"strings"

	"travel-orchestrator/internal/models"
)

// BuildItineraryPrompt renders the suggestion prompt for one turn. The model
// is instructed to return a bare JSON array of exactly two suggestion objects;
// the parser recovers from deviations, so the prompt aims for the happy path.
func BuildItineraryPrompt(text string, entities models.ExtractedEntities) string {
	destination := entities.Destination
	if destination == "" {
		destination = "a destination of your choice"
	}
	days := entities.Days
	if days <= 0 {
		days = 3
	}

	var b strings.Builder
	b.WriteString("You are an expert travel agent. Provide exactly two detailed travel suggestions ")
	b.WriteString("based on the request below. The output must be a JSON array containing exactly ")
	b.WriteString("two suggestion objects. Do not include any other text outside of the JSON array.\n\n")

	fmt.Fprintf(&b, "Request: %q\n", text)
	fmt.Fprintf(&b, "Destination: %s\n", destination)
	fmt.Fprintf(&b, "Trip duration: %d days\n", days)
	fmt.Fprintf(&b, "Group size: %d\n\n", entities.Passengers)

	b.WriteString(`Each suggestion object must have exactly these fields:
{
  "destination": "real city and country",
  "description": "brief, compelling summary of the fit",
  "best_time_to_visit": "realistic time frame",
  "estimated_budget": "plausible daily budget in USD per person",
  "duration": "trip length in days as a string",
  "activities": ["5 specific activities with real place names"],
  "accommodation_suggestions": ["3 specific, real lodging options"],
  "transportation": ["2-3 practical ways to get around"],
  "local_tips": ["3 helpful, unique tips"],
  "weather_info": "typical weather in one sentence",
  "safety_info": "concise safety overview"
}`)

	return b.String()
}
