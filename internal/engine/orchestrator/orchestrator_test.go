// internal/engine/orchestrator/orchestrator_test.go
package orchestrator

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel-orchestrator/internal/aliases"
	commonerrors "travel-orchestrator/internal/common/errors"
	"travel-orchestrator/internal/engine/classifier"
	"travel-orchestrator/internal/engine/extractor"
	"travel-orchestrator/internal/engine/session"
	"travel-orchestrator/internal/models"
	"travel-orchestrator/internal/tools"
	"travel-orchestrator/pkg/registry"
)

type stubTool struct {
	name   string
	raw    string
	status tools.Status
	calls  int32
}

func (s *stubTool) Name() string { return s.name }

func (s *stubTool) Invoke(ctx context.Context, args map[string]interface{}) (string, tools.Status) {
	atomic.AddInt32(&s.calls, 1)
	return s.raw, s.status
}

func fixedNow() time.Time {
	return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
}

func newTestOrchestrator(t *testing.T, overrides ...*stubTool) (*Orchestrator, map[string]*stubTool) {
	t.Helper()

	stubs := map[string]*stubTool{
		"flights":   {name: "flights", status: tools.StatusUnavailable},
		"hotels":    {name: "hotels", status: tools.StatusUnavailable},
		"weather":   {name: "weather", status: tools.StatusUnavailable},
		"currency":  {name: "currency", status: tools.StatusUnavailable},
		"itinerary": {name: "itinerary", status: tools.StatusUnavailable},
	}
	for _, s := range overrides {
		stubs[s.name] = s
	}

	toolList := make([]tools.Tool, 0, len(stubs))
	for _, s := range stubs {
		toolList = append(toolList, s)
	}

	o, err := New(Options{
		Classifier: classifier.New(),
		Extractor:  extractor.New(aliases.NewTable()),
		Registry:   registry.Default(),
		Tools:      toolList,
		Store:      session.NewMemoryStore(),
		Now:        fixedNow,
	})
	require.NoError(t, err)
	return o, stubs
}

func TestHandleTurn_CompleteFlightRequest(t *testing.T) {
	flightsStub := &stubTool{
		name:   "flights",
		status: tools.StatusOK,
		raw:    `{"flights":[{"airline":"Emirates","flight_number":"EK501","origin":"Mumbai","destination":"Delhi","price":650,"departure_date":"2025-07-15"}]}`,
	}
	weatherStub := &stubTool{
		name:   "weather",
		status: tools.StatusOK,
		raw:    `{"name":"Delhi","main":{"temp":31.0,"humidity":40},"weather":[{"description":"sunny"}]}`,
	}
	o, _ := newTestOrchestrator(t, flightsStub, weatherStub)

	result, err := o.HandleTurn(context.Background(), "s1", "flights from Mumbai to Delhi on 2025-07-15")
	require.NoError(t, err)

	assert.Equal(t, models.IntentFlightSearch, result.Intent)
	assert.Equal(t, models.ProvenanceLive, result.Provenance)
	assert.False(t, result.ClarificationNeeded)
	assert.Equal(t, "Mumbai", result.Entities.Origin)
	assert.Equal(t, "Delhi", result.Entities.Destination)
	assert.Equal(t, "2025-07-15", result.Entities.Date)
	assert.False(t, result.Entities.DateInferred)

	require.Len(t, result.Data.Flights, 1)
	assert.Equal(t, "Emirates", result.Data.Flights[0].Airline)

	require.NotNil(t, result.Data.Weather)
	assert.Equal(t, "Delhi", result.Data.Weather.City)
	assert.Equal(t, 31.0, result.Data.Weather.TemperatureC)
}

func TestHandleTurn_IncompleteFlightRequestClarifies(t *testing.T) {
	o, stubs := newTestOrchestrator(t)

	result, err := o.HandleTurn(context.Background(), "s1", "find me flights")
	require.NoError(t, err)

	assert.True(t, result.ClarificationNeeded)
	assert.Equal(t, models.ResultClarification, result.Data.Kind)
	require.NotNil(t, result.Clarification)
	assert.Equal(t, []string{"origin", "destination", "date"}, result.Clarification.Missing)
	assert.Contains(t, result.Clarification.Prompt, "origin")
	assert.NotEmpty(t, result.Clarification.Example)

	// No tool runs on a clarification turn.
	assert.Zero(t, atomic.LoadInt32(&stubs["flights"].calls))
}

func TestHandleTurn_ProviderOutageSynthesizes(t *testing.T) {
	o, _ := newTestOrchestrator(t, &stubTool{name: "flights", status: tools.StatusUnavailable})

	result, err := o.HandleTurn(context.Background(), "s1", "flights from Mumbai to Delhi on 2025-07-15")
	require.NoError(t, err)

	assert.Equal(t, models.ProvenanceSynthetic, result.Provenance)
	require.Len(t, result.Data.Flights, 3)
	assert.Equal(t, "Mumbai", result.Data.Flights[0].Departure)
	assert.Equal(t, "Delhi", result.Data.Flights[0].Arrival)
	assert.False(t, result.ClarificationNeeded)
}

func TestHandleTurn_MalformedModelOutputRetriesOnce(t *testing.T) {
	itineraryStub := &stubTool{
		name:   "itinerary",
		status: tools.StatusOK,
		raw:    "this is not json and has no structure",
	}
	o, _ := newTestOrchestrator(t, itineraryStub)

	result, err := o.HandleTurn(context.Background(), "s1", "plan a trip to Goa")
	require.NoError(t, err)

	// One original call plus one retry, then synthetic fallback.
	assert.Equal(t, int32(2), atomic.LoadInt32(&itineraryStub.calls))
	assert.Equal(t, models.ProvenanceSynthetic, result.Provenance)
	require.NotEmpty(t, result.Data.Itineraries)
	assert.Equal(t, "Goa", result.Data.Itineraries[0].Destination)
}

func TestHandleTurn_RecoveredModelOutput(t *testing.T) {
	itineraryStub := &stubTool{
		name:   "itinerary",
		status: tools.StatusOK,
		raw:    "1. Destination: Goa, India\nDescription: Beaches and forts.\nBudget: $60-100 per day",
	}
	o, _ := newTestOrchestrator(t, itineraryStub)

	result, err := o.HandleTurn(context.Background(), "s1", "plan a trip to Goa")
	require.NoError(t, err)

	assert.Equal(t, models.ProvenanceRecovered, result.Provenance)
	require.NotEmpty(t, result.Data.Itineraries)
	assert.Equal(t, "Goa, India", result.Data.Itineraries[0].Destination)
	assert.Equal(t, int32(1), atomic.LoadInt32(&itineraryStub.calls))
}

func TestHandleTurn_SessionInheritance(t *testing.T) {
	itineraryStub := &stubTool{
		name:   "itinerary",
		status: tools.StatusOK,
		raw:    `[{"destination":"Tokyo, Japan","description":"ok"}]`,
	}
	o, _ := newTestOrchestrator(t, itineraryStub)
	ctx := context.Background()

	first, err := o.HandleTurn(ctx, "s1", "plan a trip to Tokyo")
	require.NoError(t, err)
	assert.Equal(t, "Tokyo", first.Entities.Destination)

	// The follow-up names only a duration; destination is inherited.
	second, err := o.HandleTurn(ctx, "s1", "make it a 7 day itinerary")
	require.NoError(t, err)
	assert.Equal(t, models.IntentItineraryPlanning, second.Intent)
	assert.Equal(t, "Tokyo", second.Entities.Destination)
	assert.Equal(t, 7, second.Entities.Days)
	assert.False(t, second.ClarificationNeeded)
}

func TestHandleTurn_ClarificationThenCompletion(t *testing.T) {
	flightsStub := &stubTool{name: "flights", status: tools.StatusUnavailable}
	o, _ := newTestOrchestrator(t, flightsStub)
	ctx := context.Background()

	first, err := o.HandleTurn(ctx, "s1", "flights to Delhi on 2025-07-15")
	require.NoError(t, err)
	require.True(t, first.ClarificationNeeded)
	assert.Equal(t, []string{"origin"}, first.Clarification.Missing)

	// The answer supplies the origin; destination and date carry over.
	second, err := o.HandleTurn(ctx, "s1", "from Mumbai")
	require.NoError(t, err)
	assert.False(t, second.ClarificationNeeded)
	assert.Equal(t, "Mumbai", second.Entities.Origin)
	assert.Equal(t, "Delhi", second.Entities.Destination)
	assert.Equal(t, "2025-07-15", second.Entities.Date)
}

func TestApplyDefaults_DateScopedToFlightSearch(t *testing.T) {
	now := fixedNow()

	flight := applyDefaults(models.ExtractedEntities{}, models.IntentFlightSearch, now)
	assert.Equal(t, "2025-07-01", flight.Date)
	assert.True(t, flight.DateInferred)

	for _, intent := range []models.Intent{
		models.IntentItineraryPlanning,
		models.IntentBestTimeQuery,
		models.IntentBudgetQuery,
		models.IntentGenericSuggestion,
	} {
		got := applyDefaults(models.ExtractedEntities{}, intent, now)
		assert.Empty(t, got.Date, "intent %s", intent)
		assert.False(t, got.DateInferred, "intent %s", intent)
		assert.Equal(t, defaultTripDays, got.Days, "intent %s", intent)
	}
}

func TestHandleTurn_NoDateFabricatedForItinerary(t *testing.T) {
	o, _ := newTestOrchestrator(t, &stubTool{name: "itinerary", status: tools.StatusUnavailable})

	result, err := o.HandleTurn(context.Background(), "s1", "plan a trip to Goa")
	require.NoError(t, err)

	// A date is only required for flight search; itinerary planning gets the
	// trip-length default but no invented travel date.
	assert.Empty(t, result.Entities.Date)
	assert.False(t, result.Entities.DateInferred)
	assert.Equal(t, defaultTripDays, result.Entities.Days)
}

func TestHandleTurn_BusySessionRejected(t *testing.T) {
	o, _ := newTestOrchestrator(t, &stubTool{name: "flights", status: tools.StatusUnavailable})

	unlock := o.locker.Lock("s1")
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := o.HandleTurn(ctx, "s1", "flights from Mumbai to Delhi on 2025-07-15")
	require.Error(t, err)
	assert.True(t, commonerrors.IsCode(err, commonerrors.ErrCodeSessionBusy))

	// The held session never saw the rejected turn.
	history, err := o.History(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestHandleTurn_CancelledTurnNotRecorded(t *testing.T) {
	o, _ := newTestOrchestrator(t, &stubTool{name: "flights", status: tools.StatusUnavailable})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.HandleTurn(ctx, "s1", "flights from Mumbai to Delhi on 2025-07-15")
	assert.Error(t, err)

	history, err := o.History(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestHandleTurn_BudgetQueryAttachesCurrency(t *testing.T) {
	itineraryStub := &stubTool{
		name:   "itinerary",
		status: tools.StatusOK,
		raw:    `[{"destination":"Paris, France","description":"ok","estimated_budget":"$150 per day"}]`,
	}
	currencyStub := &stubTool{
		name:   "currency",
		status: tools.StatusOK,
		raw:    `{"amount":100,"converted":8350,"rate":83.5,"from":"USD","to":"INR"}`,
	}
	o, _ := newTestOrchestrator(t, itineraryStub, currencyStub)

	result, err := o.HandleTurn(context.Background(), "s1", "how much does a week in Paris cost?")
	require.NoError(t, err)

	assert.Equal(t, models.IntentBudgetQuery, result.Intent)
	assert.Equal(t, models.ProvenanceLive, result.Provenance)
	require.NotNil(t, result.Data.Currency)
	assert.Equal(t, 83.5, result.Data.Currency.Rate)
}

func TestHandleTurn_GenericFallback(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	result, err := o.HandleTurn(context.Background(), "s1", "tell me something nice")
	require.NoError(t, err)

	assert.Equal(t, models.IntentGenericSuggestion, result.Intent)
	assert.Equal(t, models.ProvenanceSynthetic, result.Provenance)
	assert.NotEmpty(t, result.Data.Itineraries)
}
