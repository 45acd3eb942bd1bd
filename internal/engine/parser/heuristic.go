// internal/engine/parser/heuristic.go
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"travel-orchestrator/internal/models"
)

var (
	reSectionSplit = regexp.MustCompile(`(?m)(?:^\s*\d+[\).:]|Suggestion \d+:|\n{2,})`)
	reTemperature  = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*°?\s*[cC]\b`)
	reHumidity     = regexp.MustCompile(`(?i)humidity[:\s]+(\d+)`)
)

// parseHeuristic recovers a payload from prose-shaped output. Only shapes the
// model produces free text for carry a recovery path; provider JSON either
// decodes strictly or is synthesized.
func parseHeuristic(raw string, kind models.ResultKind, entities models.ExtractedEntities) (models.ResultData, bool) {
	switch kind {
	case models.ResultItinerary:
		return parseItineraryText(raw)
	case models.ResultWeather:
		return parseWeatherText(raw, entities)
	default:
		return models.ResultData{}, false
	}
}

// parseItineraryText splits the text into numbered sections and reads
// "Key: value" lines within each. A section without a destination is noise
// and gets dropped.
func parseItineraryText(raw string) (models.ResultData, bool) {
	sections := reSectionSplit.Split(raw, -1)

	var suggestions []models.ItinerarySuggestion
	for _, section := range sections {
		section = strings.TrimSpace(section)
		if section == "" {
			continue
		}

		var s models.ItinerarySuggestion
		for _, line := range strings.Split(section, "\n") {
			line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-*"))
			if line == "" || !strings.Contains(line, ":") {
				continue
			}

			parts := strings.SplitN(line, ":", 2)
			key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(parts[0])), " ", "_")
			value := strings.TrimSpace(parts[1])
			if value == "" {
				continue
			}

			switch key {
			case "destination":
				s.Destination = value
			case "description":
				s.Description = value
			case "best_time_to_visit", "best_time":
				s.BestTimeToVisit = value
			case "estimated_budget", "budget":
				s.EstimatedBudget = value
			case "duration", "days":
				if n, err := strconv.Atoi(strings.Fields(value)[0]); err == nil {
					s.Days = n
				}
			case "activities":
				s.Activities = splitListValue(value)
			case "accommodation_suggestions", "accommodations", "accommodation":
				s.Accommodations = splitListValue(value)
			case "transportation":
				s.Transportation = splitListValue(value)
			case "local_tips", "tips":
				s.LocalTips = splitListValue(value)
			case "weather_info", "weather":
				s.WeatherInfo = value
			case "safety_info", "safety":
				s.SafetyInfo = value
			}
		}

		if s.Destination != "" {
			suggestions = append(suggestions, s)
		}
	}

	if len(suggestions) == 0 {
		return models.ResultData{}, false
	}
	return models.ResultData{Kind: models.ResultItinerary, Itineraries: suggestions}, true
}

func splitListValue(value string) []string {
	if strings.Contains(value, "[") && strings.Contains(value, "]") {
		value = strings.Trim(value, "[]")
		parts := strings.Split(value, ",")
		items := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.Trim(strings.TrimSpace(p), `"`)
			if p != "" {
				items = append(items, p)
			}
		}
		return items
	}
	return []string{value}
}

// parseWeatherText pulls a temperature out of prose. The city comes from the
// request since free text rarely restates it unambiguously.
func parseWeatherText(raw string, entities models.ExtractedEntities) (models.ResultData, bool) {
	m := reTemperature.FindStringSubmatch(raw)
	if m == nil {
		return models.ResultData{}, false
	}
	temp, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return models.ResultData{}, false
	}

	city := entities.Destination
	if city == "" {
		city = entities.Origin
	}
	if city == "" {
		return models.ResultData{}, false
	}

	snapshot := &models.WeatherSnapshot{City: city, TemperatureC: temp}
	if h := reHumidity.FindStringSubmatch(raw); h != nil {
		if n, err := strconv.Atoi(h[1]); err == nil {
			snapshot.Humidity = n
		}
	}

	return models.ResultData{Kind: models.ResultWeather, Weather: snapshot}, true
}
