// internal/engine/classifier/classifier.go
package classifier

import (
	"strings"

	"travel-orchestrator/internal/models"
)

// Classifier routes raw text to exactly one intent by scoring it against
// disjoint keyword sets. This is deliberately a cheap, auditable heuristic:
// precision matters less than a single unambiguous route per turn and a safe
// default.
type Classifier struct {
	keywords map[models.Intent][]string
}

// New builds a classifier with the default keyword sets.
func New() *Classifier {
	return &Classifier{
		keywords: map[models.Intent][]string{
			models.IntentFlightSearch: {
				"flight", "fly", "airline", "airfare",
				"one way", "one-way", "round trip", "round-trip",
			},
			models.IntentItineraryPlanning: {
				"itinerary", "plan a trip", "travel plan", "day by day",
				"day-by-day", "things to do", "places to visit", "activities",
				"sightseeing", "plan my trip",
			},
			models.IntentBestTimeQuery: {
				"best time", "when should i", "good time to visit",
				"best season", "best month",
			},
			models.IntentBudgetQuery: {
				"budget", "how much", "cost of", "cheap", "afford", "expense",
				"price range",
			},
		},
	}
}

// Classify scores the text against every keyword set and returns the intent
// with the highest nonzero score. Ties resolve by the fixed priority order.
// Never fails; GenericSuggestion is returned when nothing matches.
func (c *Classifier) Classify(text string) models.Intent {
	lower := strings.ToLower(text)

	best := models.IntentGenericSuggestion
	bestScore := 0

	// Iterate in priority order so equal scores keep the earlier intent.
	for _, intent := range models.IntentPriority {
		set, ok := c.keywords[intent]
		if !ok {
			continue
		}
		score := 0
		for _, kw := range set {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > bestScore {
			best = intent
			bestScore = score
		}
	}

	return best
}
