// internal/models/intent.go
package models

// Intent is the capability category a user turn is routed to.
type Intent string

const (
	IntentFlightSearch      Intent = "flight_search"
	IntentItineraryPlanning Intent = "itinerary_planning"
	IntentBestTimeQuery     Intent = "best_time_query"
	IntentBudgetQuery       Intent = "budget_query"
	IntentGenericSuggestion Intent = "generic_suggestion"
)

// IntentPriority is the fixed tie-break order. Flight-specific phrasing is the
// narrowest signal, so it wins ties; GenericSuggestion is the safe default.
var IntentPriority = []Intent{
	IntentFlightSearch,
	IntentItineraryPlanning,
	IntentBestTimeQuery,
	IntentBudgetQuery,
	IntentGenericSuggestion,
}

func (i Intent) String() string {
	return string(i)
}

// RequiredFields returns the entity fields that must be present before any
// tool bound to this intent may be dispatched.
func (i Intent) RequiredFields() []string {
	switch i {
	case IntentFlightSearch:
		return []string{"origin", "destination", "date"}
	case IntentItineraryPlanning:
		return []string{"destination"}
	default:
		return nil
	}
}
