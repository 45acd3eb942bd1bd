// internal/models/result.go
package models

// Provenance indicates where a result's data came from.
type Provenance string

const (
	ProvenanceLive      Provenance = "live"      // decoded from a healthy provider/model response
	ProvenanceRecovered Provenance = "recovered" // heuristic parse of malformed output
	ProvenanceSynthetic Provenance = "synthetic" // deterministic placeholder data
)

// ResultKind tags the payload arm of a CanonicalResult.
type ResultKind string

const (
	ResultFlights       ResultKind = "flights"
	ResultHotels        ResultKind = "hotels"
	ResultItinerary     ResultKind = "itinerary"
	ResultWeather       ResultKind = "weather"
	ResultCurrency      ResultKind = "currency"
	ResultClarification ResultKind = "clarification"
)

// FlightOption is one flight leg offer.
type FlightOption struct {
	Airline       string `json:"airline"`
	FlightNumber  string `json:"flightNumber"`
	Departure     string `json:"departure"`
	Arrival       string `json:"arrival"`
	DepartureTime string `json:"departureTime"`
	ArrivalTime   string `json:"arrivalTime"`
	Price         string `json:"price"`
	Duration      string `json:"duration"`
	Stops         int    `json:"stops"`
	TripType      string `json:"tripType"` // "one-way" or "round-trip"
	DepartureDate string `json:"departureDate"`
	ReturnDate    string `json:"returnDate,omitempty"`
}

// HotelOption is one accommodation offer.
type HotelOption struct {
	Name          string   `json:"name"`
	Rating        string   `json:"rating"`
	PricePerNight string   `json:"pricePerNight"`
	Address       string   `json:"address"`
	Amenities     []string `json:"amenities"`
}

// ItinerarySuggestion is one destination plan.
type ItinerarySuggestion struct {
	Destination     string   `json:"destination"`
	Description     string   `json:"description"`
	BestTimeToVisit string   `json:"bestTimeToVisit"`
	EstimatedBudget string   `json:"estimatedBudget"`
	Days            int      `json:"days"`
	Activities      []string `json:"activities"`
	Accommodations  []string `json:"accommodations"`
	Transportation  []string `json:"transportation"`
	LocalTips       []string `json:"localTips"`
	VisaNotes       string   `json:"visaNotes,omitempty"`
	WeatherInfo     string   `json:"weatherInfo,omitempty"`
	SafetyInfo      string   `json:"safetyInfo,omitempty"`
}

// WeatherSnapshot is a point-in-time weather summary for a city.
type WeatherSnapshot struct {
	City         string  `json:"city"`
	TemperatureC float64 `json:"temperatureC"`
	Description  string  `json:"description"`
	Humidity     int     `json:"humidity"`
}

// CurrencyConversion is one completed rate lookup.
type CurrencyConversion struct {
	Amount    float64 `json:"amount"`
	Converted float64 `json:"converted"`
	Rate      float64 `json:"rate"`
	From      string  `json:"from"`
	To        string  `json:"to"`
}

// ClarificationRequest asks the user for missing required entities instead of
// invoking a tool. Terminal output of a turn.
type ClarificationRequest struct {
	Missing []string `json:"missing"`
	Prompt  string   `json:"prompt"`
	Example string   `json:"example"`
}

// ResultData is the tagged payload union. Exactly one primary arm is set,
// selected by Kind; Weather may additionally ride along on flight results.
type ResultData struct {
	Kind        ResultKind            `json:"kind"`
	Flights     []FlightOption        `json:"flights,omitempty"`
	Hotels      []HotelOption         `json:"hotels,omitempty"`
	Itineraries []ItinerarySuggestion `json:"itineraries,omitempty"`
	Weather     *WeatherSnapshot      `json:"weather,omitempty"`
	Currency    *CurrencyConversion   `json:"currency,omitempty"`
}

// CanonicalResult is the normalized output object returned for any turn,
// regardless of data provenance. A turn always completes with one of these;
// degradation is communicated via Provenance and ClarificationNeeded.
type CanonicalResult struct {
	TurnID              string                `json:"turnId"`
	Intent              Intent                `json:"intent"`
	Entities            ExtractedEntities     `json:"entities"`
	Data                ResultData            `json:"data"`
	Provenance          Provenance            `json:"provenance"`
	ClarificationNeeded bool                  `json:"clarificationNeeded"`
	Clarification       *ClarificationRequest `json:"clarification,omitempty"`
}
