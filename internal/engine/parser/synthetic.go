// internal/engine/parser/synthetic.go
package parser

import (
	"fmt"
	"strings"

	"travel-orchestrator/internal/models"
)

// Synthetic generators produce deterministic placeholder payloads when the
// provider and recovery tiers both come up empty. Same entities in, same
// payload out; nothing here reads a clock or a random source.

var syntheticAirlines = []string{
	"Air India", "Emirates", "British Airways",
	"Lufthansa", "Singapore Airlines", "Qatar Airways",
}

var syntheticBasePrices = []int{450, 650, 850, 1200, 1500}

func synthesize(kind models.ResultKind, entities models.ExtractedEntities) models.ResultData {
	switch kind {
	case models.ResultFlights:
		return models.ResultData{Kind: kind, Flights: syntheticFlights(entities)}
	case models.ResultHotels:
		return models.ResultData{Kind: kind, Hotels: syntheticHotels(entities)}
	case models.ResultItinerary:
		return models.ResultData{Kind: kind, Itineraries: syntheticItineraries(entities)}
	case models.ResultWeather:
		return models.ResultData{Kind: kind, Weather: syntheticWeather(entities)}
	case models.ResultCurrency:
		return models.ResultData{Kind: kind, Currency: &models.CurrencyConversion{Rate: 1.0}}
	default:
		return models.ResultData{Kind: kind}
	}
}

func syntheticFlights(entities models.ExtractedEntities) []models.FlightOption {
	tripType := "one-way"
	if entities.ReturnDate != "" {
		tripType = "round-trip"
	}

	flights := make([]models.FlightOption, 0, 3)
	for i := 0; i < 3; i++ {
		airline := syntheticAirlines[i%len(syntheticAirlines)]
		price := syntheticBasePrices[i%len(syntheticBasePrices)]
		if entities.ReturnDate != "" {
			price = int(float64(price) * 1.8)
		}

		departureHour := 8 + i*2
		// Minutes past the hour can overflow; carry into the hour so the
		// timestamp stays valid.
		flightMinutes := 30 + i*15
		arrivalHour := departureHour + 6 + i + flightMinutes/60
		arrivalMinute := flightMinutes % 60

		flights = append(flights, models.FlightOption{
			Airline:       airline,
			FlightNumber:  fmt.Sprintf("%s%d", strings.ToUpper(airline[:2]), 1000+i),
			Departure:     entities.Origin,
			Arrival:       entities.Destination,
			DepartureTime: fmt.Sprintf("%sT%02d:00:00", entities.Date, departureHour),
			ArrivalTime:   fmt.Sprintf("%sT%02d:%02d:00", entities.Date, arrivalHour, arrivalMinute),
			Price:         fmt.Sprintf("$%d", price),
			Duration:      fmt.Sprintf("%dh %dm", 6+i+flightMinutes/60, arrivalMinute),
			Stops:         i,
			TripType:      tripType,
			DepartureDate: entities.Date,
			ReturnDate:    entities.ReturnDate,
		})
	}
	return flights
}

func syntheticHotels(entities models.ExtractedEntities) []models.HotelOption {
	city := entities.Destination
	if city == "" {
		city = "City Center"
	}

	tiers := []struct {
		suffix    string
		basePrice int
		amenities []string
	}{
		{"Inn", 40, []string{"Free WiFi", "Air Conditioning", "Restaurant"}},
		{"Hotel", 90, []string{"Free WiFi", "Air Conditioning", "Restaurant", "Fitness Center"}},
		{"Resort", 200, []string{"Free WiFi", "Air Conditioning", "Restaurant", "Fitness Center", "Swimming Pool"}},
	}

	hotels := make([]models.HotelOption, 0, len(tiers))
	for i, tier := range tiers {
		hotels = append(hotels, models.HotelOption{
			Name:          fmt.Sprintf("%s %s", city, tier.suffix),
			Rating:        fmt.Sprintf("%.1f", 3.5+float64(i)*0.7),
			PricePerNight: fmt.Sprintf("$%d", tier.basePrice+i*20),
			Address:       fmt.Sprintf("Downtown %s", city),
			Amenities:     tier.amenities,
		})
	}
	return hotels
}

func syntheticItineraries(entities models.ExtractedEntities) []models.ItinerarySuggestion {
	days := entities.Days
	if days <= 0 {
		days = 3
	}

	first := models.ItinerarySuggestion{
		Destination:     "Bangkok, Thailand",
		Description:     "A vibrant city known for its street food, temples, and nightlife. Great for budget travelers seeking cultural experiences.",
		BestTimeToVisit: "November to March during the dry season",
		EstimatedBudget: "$50-100 per day",
		Days:            days,
		Activities: []string{
			"Visit the Grand Palace and Wat Phra Kaew",
			"Explore Chatuchak Weekend Market",
			"Take a Thai cooking class",
			"Temple hop to Wat Arun and Wat Pho",
			"Evening street food tour in Chinatown",
		},
		Accommodations: []string{
			"Lub d Bangkok Hostel",
			"Hotel Buddy Lodge",
			"Anantara Riverside",
		},
		Transportation: []string{"BTS Skytrain and MRT", "Tuk-tuk and metered taxi"},
		LocalTips: []string{
			"Always negotiate prices at markets",
			"Carry temple-appropriate clothing",
			"Use metered taxis instead of tuk-tuks at night",
		},
		WeatherInfo: "Tropical climate with temperatures between 25-35C year-round",
		SafetyInfo:  "Generally safe for tourists. Watch for scams near major attractions.",
	}

	// When a destination is known, lead with it so the fallback still answers
	// the actual question.
	if entities.Destination != "" {
		first = models.ItinerarySuggestion{
			Destination:     entities.Destination,
			Description:     fmt.Sprintf("A %d-day visit to %s covering its signature sights, food, and neighborhoods.", days, entities.Destination),
			BestTimeToVisit: "October to March for the most comfortable weather",
			EstimatedBudget: "$80-150 per day",
			Days:            days,
			Activities: []string{
				fmt.Sprintf("Guided walking tour of central %s", entities.Destination),
				"Visit the top-rated museum or historic site",
				"Local food market tour",
				"Day trip to nearby landmarks",
				"Evening neighborhood stroll",
			},
			Accommodations: []string{
				fmt.Sprintf("%s Inn", entities.Destination),
				fmt.Sprintf("Grand %s Hotel", entities.Destination),
				fmt.Sprintf("%s Luxury Resort", entities.Destination),
			},
			Transportation: []string{"Public transit day pass", "Ride-hailing apps", "Walking"},
			LocalTips: []string{
				"Book major attractions in advance",
				"Carry small cash for local markets",
				"Learn a few phrases in the local language",
			},
			WeatherInfo: "Check the forecast close to your travel date",
			SafetyInfo:  "Standard precautions apply; keep valuables secure in crowds.",
		}
	}

	second := models.ItinerarySuggestion{
		Destination:     "Prague, Czech Republic",
		Description:     "A medieval city with stunning architecture, affordable dining, and rich history.",
		BestTimeToVisit: "May to September for warm weather",
		EstimatedBudget: "$40-80 per day",
		Days:            days,
		Activities: []string{
			"Explore Prague Castle and St. Vitus Cathedral",
			"Walk across Charles Bridge at sunset",
			"Visit the Astronomical Clock in Old Town Square",
			"Take a brewery tour",
			"Wander through the Jewish Quarter",
		},
		Accommodations: []string{
			"Hostel One Home",
			"Hotel Golden Well",
			"Augustine Hotel",
		},
		Transportation: []string{"Public transport day pass", "Walking tours and bike rentals"},
		LocalTips: []string{
			"Try traditional Czech goulash",
			"Book restaurants in advance during peak season",
			"Keep valuables secure in tourist areas",
		},
		WeatherInfo: "Continental climate with warm summers and cold winters",
		SafetyInfo:  "Very safe for tourists. Watch for pickpockets in crowded areas.",
	}

	return []models.ItinerarySuggestion{first, second}
}

func syntheticWeather(entities models.ExtractedEntities) *models.WeatherSnapshot {
	city := entities.Destination
	if city == "" {
		city = entities.Origin
	}
	return &models.WeatherSnapshot{
		City:         city,
		TemperatureC: 24.0,
		Description:  "partly cloudy",
		Humidity:     50,
	}
}
