// internal/engine/parser/parser.go
package parser

import (
	"encoding/json"
	"strconv"
	"strings"

	"travel-orchestrator/internal/common/metrics"
	"travel-orchestrator/internal/models"
)

// Parse converts raw tool or model output into a canonical payload. It never
// fails: a strict JSON decode is attempted first, then a heuristic text
// recovery, and finally deterministic synthetic data. Provenance records
// which tier produced the payload.
func Parse(raw string, kind models.ResultKind, entities models.ExtractedEntities) (models.ResultData, models.Provenance) {
	raw = strings.TrimSpace(raw)

	if raw != "" {
		if data, ok := parseStrict(raw, kind); ok {
			return data, models.ProvenanceLive
		}
		if data, ok := parseHeuristic(raw, kind, entities); ok {
			metrics.ParserFallbacks.WithLabelValues(string(kind), "heuristic").Inc()
			return data, models.ProvenanceRecovered
		}
	}

	metrics.ParserFallbacks.WithLabelValues(string(kind), "synthetic").Inc()
	return synthesize(kind, entities), models.ProvenanceSynthetic
}

// parseStrict decodes well-formed JSON in the shapes providers and the model
// are asked to produce, or in the parser's own canonical encoding. Payloads
// that decode but carry no usable data are rejected so the fallback tiers run.
func parseStrict(raw string, kind models.ResultKind) (models.ResultData, bool) {
	if data, ok := parseCanonical(raw, kind); ok {
		return data, true
	}
	switch kind {
	case models.ResultFlights:
		return parseFlightsJSON(raw)
	case models.ResultHotels:
		return parseHotelsJSON(raw)
	case models.ResultItinerary:
		return parseItineraryJSON(raw)
	case models.ResultWeather:
		return parseWeatherJSON(raw)
	case models.ResultCurrency:
		return parseCurrencyJSON(raw)
	default:
		return models.ResultData{}, false
	}
}

// parseCanonical accepts payloads already in the canonical encoding, either a
// bare payload arm or a whole ResultData object, so feeding the parser its own
// output is a no-op. Unknown fields disqualify a payload from this path and
// send it to the provider wire decoders.
func parseCanonical(raw string, kind models.ResultKind) (models.ResultData, bool) {
	switch kind {
	case models.ResultFlights:
		var flights []models.FlightOption
		if decodeKnownFields(raw, &flights) && len(flights) > 0 && flights[0].Airline != "" {
			return models.ResultData{Kind: kind, Flights: flights}, true
		}
	case models.ResultHotels:
		var hotels []models.HotelOption
		if decodeKnownFields(raw, &hotels) && len(hotels) > 0 && hotels[0].Name != "" {
			return models.ResultData{Kind: kind, Hotels: hotels}, true
		}
	case models.ResultItinerary:
		var suggestions []models.ItinerarySuggestion
		if decodeKnownFields(raw, &suggestions) && len(suggestions) > 0 && suggestions[0].Destination != "" {
			return models.ResultData{Kind: kind, Itineraries: suggestions}, true
		}
	case models.ResultWeather:
		var snapshot models.WeatherSnapshot
		if decodeKnownFields(raw, &snapshot) && snapshot.City != "" {
			return models.ResultData{Kind: kind, Weather: &snapshot}, true
		}
	case models.ResultCurrency:
		var conversion models.CurrencyConversion
		if decodeKnownFields(raw, &conversion) && conversion.Rate != 0 {
			return models.ResultData{Kind: kind, Currency: &conversion}, true
		}
	}

	var data models.ResultData
	if decodeKnownFields(raw, &data) && data.Kind == kind && hasPayload(data) {
		return data, true
	}
	return models.ResultData{}, false
}

func decodeKnownFields(raw string, out interface{}) bool {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(out) == nil
}

func hasPayload(data models.ResultData) bool {
	switch data.Kind {
	case models.ResultFlights:
		return len(data.Flights) > 0
	case models.ResultHotels:
		return len(data.Hotels) > 0
	case models.ResultItinerary:
		return len(data.Itineraries) > 0
	case models.ResultWeather:
		return data.Weather != nil
	case models.ResultCurrency:
		return data.Currency != nil
	default:
		return false
	}
}

// flightWire matches both our provider contract and common aggregator keys.
type flightWire struct {
	Airline       string  `json:"airline"`
	FlightNumber  string  `json:"flight_number"`
	Departure     string  `json:"departure"`
	Origin        string  `json:"origin"`
	Arrival       string  `json:"arrival"`
	Destination   string  `json:"destination"`
	DepartureTime string  `json:"departure_time"`
	ArrivalTime   string  `json:"arrival_time"`
	Price         json.Number `json:"price"`
	PriceText     string  `json:"price_text"`
	Duration      string  `json:"duration"`
	Stops         int     `json:"stops"`
	TripType      string  `json:"trip_type"`
	DepartureDate string  `json:"departure_date"`
	ReturnDate    string  `json:"return_date"`
}

func (w flightWire) toModel() models.FlightOption {
	price := w.PriceText
	if price == "" && w.Price != "" {
		price = "$" + w.Price.String()
	}
	departure := w.Departure
	if departure == "" {
		departure = w.Origin
	}
	arrival := w.Arrival
	if arrival == "" {
		arrival = w.Destination
	}
	tripType := w.TripType
	if tripType == "" {
		tripType = "one-way"
		if w.ReturnDate != "" {
			tripType = "round-trip"
		}
	}
	return models.FlightOption{
		Airline:       w.Airline,
		FlightNumber:  w.FlightNumber,
		Departure:     departure,
		Arrival:       arrival,
		DepartureTime: w.DepartureTime,
		ArrivalTime:   w.ArrivalTime,
		Price:         price,
		Duration:      w.Duration,
		Stops:         w.Stops,
		TripType:      tripType,
		DepartureDate: w.DepartureDate,
		ReturnDate:    w.ReturnDate,
	}
}

func parseFlightsJSON(raw string) (models.ResultData, bool) {
	var wires []flightWire
	if err := json.Unmarshal([]byte(raw), &wires); err != nil {
		var envelope struct {
			Flights []flightWire `json:"flights"`
		}
		if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
			return models.ResultData{}, false
		}
		wires = envelope.Flights
	}

	flights := make([]models.FlightOption, 0, len(wires))
	for _, w := range wires {
		if w.Airline == "" {
			continue
		}
		flights = append(flights, w.toModel())
	}
	if len(flights) == 0 {
		return models.ResultData{}, false
	}
	return models.ResultData{Kind: models.ResultFlights, Flights: flights}, true
}

type hotelWire struct {
	Name          string   `json:"name"`
	Rating        json.Number `json:"rating"`
	PricePerNight json.Number `json:"price_per_night"`
	Address       string   `json:"address"`
	Amenities     []string `json:"amenities"`
}

func parseHotelsJSON(raw string) (models.ResultData, bool) {
	var wires []hotelWire
	if err := json.Unmarshal([]byte(raw), &wires); err != nil {
		var envelope struct {
			Hotels []hotelWire `json:"hotels"`
		}
		if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
			return models.ResultData{}, false
		}
		wires = envelope.Hotels
	}

	hotels := make([]models.HotelOption, 0, len(wires))
	for _, w := range wires {
		if w.Name == "" {
			continue
		}
		price := ""
		if w.PricePerNight != "" {
			price = "$" + w.PricePerNight.String()
		}
		hotels = append(hotels, models.HotelOption{
			Name:          w.Name,
			Rating:        w.Rating.String(),
			PricePerNight: price,
			Address:       w.Address,
			Amenities:     w.Amenities,
		})
	}
	if len(hotels) == 0 {
		return models.ResultData{}, false
	}
	return models.ResultData{Kind: models.ResultHotels, Hotels: hotels}, true
}

// flexText decodes a JSON number or string and keeps its text form. Models
// answer "duration": 5 and "duration": "5 days" interchangeably.
type flexText string

func (f *flexText) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexText(n.String())
	return nil
}

// suggestionWire matches the snake_case keys the model prompt requests.
type suggestionWire struct {
	Destination     string   `json:"destination"`
	Description     string   `json:"description"`
	BestTimeToVisit string   `json:"best_time_to_visit"`
	EstimatedBudget string   `json:"estimated_budget"`
	Duration        flexText `json:"duration"`
	Activities      []string `json:"activities"`
	Accommodations  []string `json:"accommodation_suggestions"`
	Transportation  []string `json:"transportation"`
	LocalTips       []string `json:"local_tips"`
	WeatherInfo     string   `json:"weather_info"`
	SafetyInfo      string   `json:"safety_info"`
}

func (w suggestionWire) toModel() models.ItinerarySuggestion {
	days := 0
	if fields := strings.Fields(string(w.Duration)); len(fields) > 0 {
		if n, err := strconv.Atoi(fields[0]); err == nil {
			days = n
		}
	}
	return models.ItinerarySuggestion{
		Destination:     w.Destination,
		Description:     w.Description,
		BestTimeToVisit: w.BestTimeToVisit,
		EstimatedBudget: w.EstimatedBudget,
		Days:            days,
		Activities:      w.Activities,
		Accommodations:  w.Accommodations,
		Transportation:  w.Transportation,
		LocalTips:       w.LocalTips,
		WeatherInfo:     w.WeatherInfo,
		SafetyInfo:      w.SafetyInfo,
	}
}

func parseItineraryJSON(raw string) (models.ResultData, bool) {
	var wires []suggestionWire
	if err := json.Unmarshal([]byte(raw), &wires); err != nil {
		var envelope struct {
			Suggestions []suggestionWire `json:"suggestions"`
		}
		if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
			return models.ResultData{}, false
		}
		wires = envelope.Suggestions
	}

	suggestions := make([]models.ItinerarySuggestion, 0, len(wires))
	for _, w := range wires {
		if w.Destination == "" {
			continue
		}
		suggestions = append(suggestions, w.toModel())
	}
	if len(suggestions) == 0 {
		return models.ResultData{}, false
	}
	return models.ResultData{Kind: models.ResultItinerary, Itineraries: suggestions}, true
}

func parseWeatherJSON(raw string) (models.ResultData, bool) {
	// Flat contract first, then the OpenWeather response shape.
	var flat struct {
		City         string   `json:"city"`
		TemperatureC *float64 `json:"temperature_c"`
		Description  string   `json:"description"`
		Humidity     int      `json:"humidity"`
	}
	if err := json.Unmarshal([]byte(raw), &flat); err == nil && flat.City != "" && flat.TemperatureC != nil {
		return models.ResultData{Kind: models.ResultWeather, Weather: &models.WeatherSnapshot{
			City:         flat.City,
			TemperatureC: *flat.TemperatureC,
			Description:  flat.Description,
			Humidity:     flat.Humidity,
		}}, true
	}

	var ow struct {
		Name string `json:"name"`
		Main struct {
			Temp     *float64 `json:"temp"`
			Humidity int      `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	}
	if err := json.Unmarshal([]byte(raw), &ow); err != nil || ow.Name == "" || ow.Main.Temp == nil {
		return models.ResultData{}, false
	}
	description := ""
	if len(ow.Weather) > 0 {
		description = ow.Weather[0].Description
	}
	return models.ResultData{Kind: models.ResultWeather, Weather: &models.WeatherSnapshot{
		City:         ow.Name,
		TemperatureC: *ow.Main.Temp,
		Description:  description,
		Humidity:     ow.Main.Humidity,
	}}, true
}

func parseCurrencyJSON(raw string) (models.ResultData, bool) {
	var wire struct {
		Amount    *float64 `json:"amount"`
		Converted *float64 `json:"converted"`
		Result    *float64 `json:"result"`
		Rate      float64  `json:"rate"`
		From      string   `json:"from"`
		To        string   `json:"to"`
		Info      struct {
			Rate float64 `json:"rate"`
		} `json:"info"`
	}
	if err := json.Unmarshal([]byte(raw), &wire); err != nil || wire.Amount == nil {
		return models.ResultData{}, false
	}

	converted := wire.Converted
	if converted == nil {
		converted = wire.Result
	}
	if converted == nil {
		return models.ResultData{}, false
	}
	rate := wire.Rate
	if rate == 0 {
		rate = wire.Info.Rate
	}
	if rate == 0 && *wire.Amount != 0 {
		rate = *converted / *wire.Amount
	}

	return models.ResultData{Kind: models.ResultCurrency, Currency: &models.CurrencyConversion{
		Amount:    *wire.Amount,
		Converted: *converted,
		Rate:      rate,
		From:      wire.From,
		To:        wire.To,
	}}, true
}
