// internal/engine/orchestrator/orchestrator.go
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	commonerrors "travel-orchestrator/internal/common/errors"
	"travel-orchestrator/internal/common/logger"
	"travel-orchestrator/internal/common/metrics"
	"travel-orchestrator/internal/common/observability"
	"travel-orchestrator/internal/engine/classifier"
	"travel-orchestrator/internal/engine/extractor"
	"travel-orchestrator/internal/engine/parser"
	"travel-orchestrator/internal/engine/session"
	"travel-orchestrator/internal/models"
	"travel-orchestrator/internal/tools"
	"travel-orchestrator/pkg/registry"
)

const defaultTripDays = 3

// defaultDateOffset is applied when an intent can proceed without an explicit
// date; the result is flagged as inferred so callers can tell the user.
const defaultDateOffset = 30 * 24 * time.Hour

// Orchestrator drives one user turn through classify, extract, dispatch and
// parse. Turns within a session are serialized; a turn always produces a
// CanonicalResult unless its context is cancelled.
type Orchestrator struct {
	classifier *classifier.Classifier
	extractor  *extractor.Extractor
	registry   *registry.Registry
	tools      map[string]tools.Tool
	store      session.Store
	locker     *session.Locker
	logger     logger.Logger
	obs        *observability.Observability
	now        func() time.Time
}

type Options struct {
	Classifier *classifier.Classifier
	Extractor  *extractor.Extractor
	Registry   *registry.Registry
	Tools      []tools.Tool
	Store      session.Store
	Logger     logger.Logger
	Obs        *observability.Observability
	// Now overrides the clock, used by tests and for deterministic date
	// defaulting.
	Now func() time.Time
}

func New(opts Options) (*Orchestrator, error) {
	if opts.Registry == nil {
		return nil, commonerrors.NewConfigInvalidError("orchestrator requires a tool registry")
	}
	if err := opts.Registry.VerifyBindings(); err != nil {
		return nil, err
	}

	toolMap := make(map[string]tools.Tool, len(opts.Tools))
	for _, t := range opts.Tools {
		toolMap[t.Name()] = t
	}
	for _, name := range opts.Registry.ToolNames() {
		if _, ok := toolMap[name]; !ok {
			return nil, commonerrors.NewConfigInvalidError(fmt.Sprintf("registered tool %q has no implementation", name))
		}
	}

	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	store := opts.Store
	if store == nil {
		store = session.NewMemoryStore()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Orchestrator{
		classifier: opts.Classifier,
		extractor:  opts.Extractor,
		registry:   opts.Registry,
		tools:      toolMap,
		store:      store,
		locker:     session.NewLocker(),
		logger:     log,
		obs:        opts.Obs,
		now:        now,
	}, nil
}

// HandleTurn processes one user turn end to end. Cancellation aborts the turn
// without recording it; every other outcome completes with a result.
func (o *Orchestrator) HandleTurn(ctx context.Context, sessionID, text string) (models.CanonicalResult, error) {
	unlock, err := o.locker.LockCtx(ctx, sessionID)
	if err != nil {
		o.logger.Warn("Turn rejected, session busy", map[string]interface{}{
			"sessionId": sessionID,
			"error":     err.Error(),
		})
		return models.CanonicalResult{}, err
	}
	defer unlock()

	start := o.now()
	request := models.NewTravelRequest(sessionID, text, start)

	state := StateClassifying
	intent := o.classifier.Classify(text)

	o.logger.Debug("Turn classified", map[string]interface{}{
		"turnId":    request.TurnID,
		"sessionId": sessionID,
		"state":     string(state),
		"intent":    intent.String(),
	})

	state = StateExtracting
	entities := o.extractor.Extract(text, start)

	prior, found, err := o.store.LastTurn(ctx, sessionID)
	if err != nil {
		return models.CanonicalResult{}, err
	}
	if found {
		entities = entities.MergeFrom(prior.Entities)
		// An answer to a clarification prompt rarely restates the request;
		// resume the intent that asked the question.
		if intent == models.IntentGenericSuggestion && prior.Result.ClarificationNeeded {
			intent = prior.Intent
		}
	}

	if missing := entities.MissingFields(intent.RequiredFields()); len(missing) > 0 {
		state = StateAwaitingClarification
		result := o.clarificationResult(request, intent, entities, missing)

		if err := o.record(ctx, sessionID, request, intent, entities, result); err != nil {
			return models.CanonicalResult{}, err
		}

		metrics.TurnsClarification.WithLabelValues(intent.String()).Inc()
		o.observe(ctx, intent, result.Provenance, start)
		o.logger.Info("Turn needs clarification", map[string]interface{}{
			"turnId":  request.TurnID,
			"state":   string(state),
			"missing": missing,
			"error":   commonerrors.NewMissingEntityError(missing).Error(),
		})
		return result, nil
	}

	entities = applyDefaults(entities, intent, start)

	state = StateDispatching
	binding, _ := o.registry.BindingFor(intent)
	outcomes := o.dispatch(ctx, binding, text, entities)

	if err := ctx.Err(); err != nil {
		return models.CanonicalResult{}, err
	}

	state = StateParsing
	data, provenance := o.parse(ctx, binding, outcomes, text, entities)
	o.attachSecondary(data.Kind, &data, outcomes, entities)

	result := models.CanonicalResult{
		TurnID:     request.TurnID,
		Intent:     intent,
		Entities:   entities,
		Data:       data,
		Provenance: provenance,
	}

	if err := o.record(ctx, sessionID, request, intent, entities, result); err != nil {
		return models.CanonicalResult{}, err
	}

	state = StateDone
	metrics.TurnsCompleted.WithLabelValues(intent.String(), string(provenance)).Inc()
	o.observe(ctx, intent, provenance, start)
	o.logger.Info("Turn completed", map[string]interface{}{
		"turnId":     request.TurnID,
		"sessionId":  sessionID,
		"state":      string(state),
		"intent":     intent.String(),
		"provenance": string(provenance),
		"durationMs": time.Since(start).Milliseconds(),
	})

	return result, nil
}

// History exposes the recorded turns of a session.
func (o *Orchestrator) History(ctx context.Context, sessionID string) ([]models.Turn, error) {
	return o.store.History(ctx, sessionID)
}

type outcome struct {
	raw    string
	status tools.Status
}

// dispatch invokes the primary and secondary tools concurrently and joins
// before parsing. Secondary failures are recorded but never fail the turn.
func (o *Orchestrator) dispatch(ctx context.Context, binding registry.Binding, text string, entities models.ExtractedEntities) map[string]outcome {
	names := append([]string{binding.Primary}, binding.Secondary...)

	var mu sync.Mutex
	var wg sync.WaitGroup
	outcomes := make(map[string]outcome, len(names))

	for _, name := range names {
		tool, ok := o.tools[name]
		if !ok {
			continue
		}
		args := buildArgs(name, text, entities)
		if err := o.registry.ValidateArgs(name, args); err != nil {
			o.logger.Warn("Tool arguments rejected by schema", map[string]interface{}{
				"tool":  name,
				"error": err.Error(),
			})
			mu.Lock()
			outcomes[name] = outcome{status: tools.StatusProviderError}
			mu.Unlock()
			continue
		}

		wg.Add(1)
		go func(name string, tool tools.Tool, args map[string]interface{}) {
			defer wg.Done()
			raw, status := tool.Invoke(ctx, args)
			if serr := tools.StatusError(name, status); serr != nil {
				o.logger.Warn("Tool invocation failed", map[string]interface{}{
					"tool":   name,
					"status": string(status),
					"error":  serr.Error(),
				})
			}
			mu.Lock()
			outcomes[name] = outcome{raw: raw, status: status}
			mu.Unlock()
		}(name, tool, args)
	}

	wg.Wait()
	return outcomes
}

// parse runs the primary payload through the tiered parser. When a healthy
// response still fails both decode tiers, the primary tool gets one re-invoke
// before settling for synthetic data.
func (o *Orchestrator) parse(ctx context.Context, binding registry.Binding, outcomes map[string]outcome, text string, entities models.ExtractedEntities) (models.ResultData, models.Provenance) {
	primary := outcomes[binding.Primary]

	raw := ""
	if primary.status == tools.StatusOK {
		raw = primary.raw
	}

	kind := primaryKind(binding.Primary)
	data, provenance := parser.Parse(raw, kind, entities)

	if provenance == models.ProvenanceSynthetic && primary.status == tools.StatusOK && ctx.Err() == nil {
		if tool, ok := o.tools[binding.Primary]; ok {
			perr := commonerrors.NewParseFailedError(string(kind), errors.New("payload failed strict and heuristic decoding"))
			o.logger.Warn("Primary payload unusable, retrying once", map[string]interface{}{
				"tool":  binding.Primary,
				"error": perr.Error(),
			})
			if retryRaw, status := tool.Invoke(ctx, buildArgs(binding.Primary, text, entities)); status == tools.StatusOK {
				data, provenance = parser.Parse(retryRaw, kind, entities)
			}
		}
	}

	return data, provenance
}

// attachSecondary folds successful secondary payloads into the primary result.
// Provenance stays whatever the primary earned; a failed enrichment is simply
// absent.
func (o *Orchestrator) attachSecondary(kind models.ResultKind, data *models.ResultData, outcomes map[string]outcome, entities models.ExtractedEntities) {
	for name, out := range outcomes {
		if primaryKind(name) == kind {
			continue
		}
		if out.status != tools.StatusOK || out.raw == "" {
			continue
		}
		switch name {
		case "weather":
			if parsed, prov := parser.Parse(out.raw, models.ResultWeather, entities); prov != models.ProvenanceSynthetic {
				data.Weather = parsed.Weather
			}
		case "currency":
			if parsed, prov := parser.Parse(out.raw, models.ResultCurrency, entities); prov != models.ProvenanceSynthetic {
				data.Currency = parsed.Currency
			}
		}
	}
}

func (o *Orchestrator) record(ctx context.Context, sessionID string, request models.TravelRequest, intent models.Intent, entities models.ExtractedEntities, result models.CanonicalResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := o.store.Append(ctx, sessionID, models.Turn{
		Request:  request,
		Intent:   intent,
		Entities: entities,
		Result:   result,
	})
	return err
}

func (o *Orchestrator) observe(ctx context.Context, intent models.Intent, provenance models.Provenance, start time.Time) {
	elapsed := time.Since(start)
	metrics.TurnDuration.WithLabelValues(intent.String()).Observe(elapsed.Seconds())
	if o.obs != nil {
		o.obs.RecordTurnProcessed(ctx, intent.String(), string(provenance))
		o.obs.RecordTurnDuration(ctx, intent.String(), elapsed)
	}
}

func (o *Orchestrator) clarificationResult(request models.TravelRequest, intent models.Intent, entities models.ExtractedEntities, missing []string) models.CanonicalResult {
	return models.CanonicalResult{
		TurnID:              request.TurnID,
		Intent:              intent,
		Entities:            entities,
		Data:                models.ResultData{Kind: models.ResultClarification},
		Provenance:          models.ProvenanceLive,
		ClarificationNeeded: true,
		Clarification: &models.ClarificationRequest{
			Missing: missing,
			Prompt:  fmt.Sprintf("I need a bit more to search: please provide your %s.", strings.Join(missing, ", ")),
			Example: clarificationExample(intent),
		},
	}
}

func clarificationExample(intent models.Intent) string {
	switch intent {
	case models.IntentFlightSearch:
		return "flights from Mumbai to Delhi on 2025-07-15"
	case models.IntentItineraryPlanning:
		return "plan a 5 day trip to Tokyo"
	default:
		return "plan a trip to Paris next month"
	}
}

// applyDefaults fills date and duration after the required-field gate, so a
// defaulted value never masks a clarification the intent demands. The date
// default only applies where a date is semantically required; itinerary and
// advisory intents pass through without a fabricated date.
func applyDefaults(entities models.ExtractedEntities, intent models.Intent, now time.Time) models.ExtractedEntities {
	if entities.Date == "" && intent == models.IntentFlightSearch {
		entities.Date = now.Add(defaultDateOffset).Format("2006-01-02")
		entities.DateInferred = true
	}
	if entities.Days == 0 {
		switch intent {
		case models.IntentItineraryPlanning, models.IntentBestTimeQuery,
			models.IntentBudgetQuery, models.IntentGenericSuggestion:
			entities.Days = defaultTripDays
		}
	}
	return entities
}

func primaryKind(tool string) models.ResultKind {
	switch tool {
	case "flights":
		return models.ResultFlights
	case "hotels":
		return models.ResultHotels
	case "weather":
		return models.ResultWeather
	case "currency":
		return models.ResultCurrency
	default:
		return models.ResultItinerary
	}
}

func buildArgs(tool, text string, entities models.ExtractedEntities) map[string]interface{} {
	switch tool {
	case "flights":
		args := map[string]interface{}{
			"origin":      entities.Origin,
			"destination": entities.Destination,
			"date":        entities.Date,
			"passengers":  entities.Passengers,
		}
		if entities.ReturnDate != "" {
			args["return_date"] = entities.ReturnDate
		}
		return args
	case "hotels":
		args := map[string]interface{}{"destination": entities.Destination}
		if entities.Date != "" {
			args["date"] = entities.Date
		}
		if entities.Days > 0 {
			args["days"] = entities.Days
		}
		return args
	case "weather":
		city := entities.Destination
		if city == "" {
			city = entities.Origin
		}
		return map[string]interface{}{"city": city}
	case "currency":
		// Budget turns show exchange context against a nominal amount.
		return map[string]interface{}{"from": "USD", "to": "INR", "amount": 100.0}
	default:
		args := map[string]interface{}{"text": text, "passengers": entities.Passengers}
		if entities.Destination != "" {
			args["destination"] = entities.Destination
		}
		if entities.Days > 0 {
			args["days"] = entities.Days
		}
		return args
	}
}
