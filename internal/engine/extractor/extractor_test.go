// internal/engine/extractor/extractor_test.go
package extractor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"travel-orchestrator/internal/aliases"
	"travel-orchestrator/internal/models"
)

func testExtractor() *Extractor {
	return New(aliases.NewTable())
}

func refTime() time.Time {
	return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
}

func TestExtract_CompleteFlightRequest(t *testing.T) {
	e := testExtractor()

	got := e.Extract("flights from Mumbai to Delhi on 2025-07-15", refTime())

	assert.Equal(t, "Mumbai", got.Origin)
	assert.Equal(t, "Delhi", got.Destination)
	assert.Equal(t, "2025-07-15", got.Date)
	assert.Equal(t, "", got.ReturnDate)
	assert.Equal(t, 1, got.Passengers)
}

func TestExtract_Cities(t *testing.T) {
	e := testExtractor()

	tests := []struct {
		name        string
		text        string
		origin      string
		destination string
	}{
		{
			name:        "from-to pattern with aliases",
			text:        "book a flight from Bombay to NYC",
			origin:      "Mumbai",
			destination: "New York",
		},
		{
			name:        "multi word cities",
			text:        "fly from new york to san francisco next week",
			origin:      "New York",
			destination: "San Francisco",
		},
		{
			name:        "iata codes in parentheses",
			text:        "cheapest fares (BOM) (DEL) please",
			origin:      "Mumbai",
			destination: "Delhi",
		},
		{
			name:        "single city is destination",
			text:        "plan a trip to Goa",
			origin:      "",
			destination: "Goa",
		},
		{
			name:        "reading order without from-to",
			text:        "I am in Delhi and want to see Jaipur",
			origin:      "Delhi",
			destination: "Jaipur",
		},
		{
			name:        "unknown city title cased via from-to",
			text:        "flights from Pune to Delhi tomorrow",
			origin:      "Pune",
			destination: "Delhi",
		},
		{
			name:        "unknown multi word city title cased via from-to",
			text:        "flights from port blair to Delhi tomorrow",
			origin:      "Port Blair",
			destination: "Delhi",
		},
		{
			name:        "no cities",
			text:        "I want to travel somewhere warm",
			origin:      "",
			destination: "",
		},
		{
			name:        "repeated city counted once",
			text:        "Delhi Delhi Delhi",
			origin:      "",
			destination: "Delhi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.text, refTime())
			assert.Equal(t, tt.origin, got.Origin)
			assert.Equal(t, tt.destination, got.Destination)
		})
	}
}

func TestExtract_Dates(t *testing.T) {
	e := testExtractor()
	ref := refTime()

	tests := []struct {
		name string
		text string
		date string
	}{
		{"iso format", "depart on 2025-12-01", "2025-12-01"},
		{"us numeric", "depart on 07/15/2025", "2025-07-15"},
		{"day first when month impossible", "depart on 25/07/2025", "2025-07-25"},
		{"month day", "flights on July 15", "2025-07-15"},
		{"month day ordinal with year", "flights on July 15th, 2025", "2025-07-15"},
		{"day month", "flights on 15 July", "2025-07-15"},
		{"yearless past date rolls forward", "flights on January 5", "2026-01-05"},
		{"today", "I need to leave today", "2025-06-01"},
		{"tomorrow", "fly out tomorrow", "2025-06-02"},
		{"day after tomorrow", "fly out the day after tomorrow", "2025-06-03"},
		{"next week", "flights next week", "2025-06-08"},
		{"next month", "flights next month", "2025-07-01"},
		{"in n days", "leaving in 10 days", "2025-06-11"},
		{"in n weeks", "leaving in 2 weeks", "2025-06-15"},
		{"no date", "flights to Delhi", ""},
		{"invalid calendar date ignored", "depart on 2025-02-30", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.text, ref)
			assert.Equal(t, tt.date, got.Date)
		})
	}
}

func TestExtract_ReturnDate(t *testing.T) {
	e := testExtractor()

	got := e.Extract("Delhi to Goa on 2025-07-15 returning on 2025-07-22", refTime())
	assert.Equal(t, "2025-07-15", got.Date)
	assert.Equal(t, "2025-07-22", got.ReturnDate)

	got = e.Extract("fly out July 10 and come back July 20", refTime())
	assert.Equal(t, "2025-07-10", got.Date)
	assert.Equal(t, "2025-07-20", got.ReturnDate)

	got = e.Extract("one way on 2025-07-15", refTime())
	assert.Equal(t, "2025-07-15", got.Date)
	assert.Equal(t, "", got.ReturnDate)
}

func TestExtract_Passengers(t *testing.T) {
	e := testExtractor()

	tests := []struct {
		text string
		want int
	}{
		{"flights for 3 passengers", 3},
		{"a trip for two people", 2},
		{"4 travellers to Goa", 4},
		{"2 adults flying to Paris", 2},
		{"flights to Delhi", 1},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := e.Extract(tt.text, refTime())
			assert.Equal(t, tt.want, got.Passengers)
		})
	}
}

func TestExtract_Days(t *testing.T) {
	e := testExtractor()

	tests := []struct {
		text string
		want int
	}{
		{"plan a 5 day trip to Tokyo", 5},
		{"a 2 week holiday in Bali", 14},
		{"1 month across Europe", 30},
		{"a trip to Tokyo", 0},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := e.Extract(tt.text, refTime())
			assert.Equal(t, tt.want, got.Days)
		})
	}
}

func TestExtract_TotalAndDeterministic(t *testing.T) {
	e := testExtractor()
	ref := refTime()

	inputs := []string{
		"",
		"!!!???",
		"from to from to",
		"99/99/9999 flights",
		"✈️ Mumbai ünïcode Delhi",
	}

	for _, in := range inputs {
		first := e.Extract(in, ref)
		for i := 0; i < 20; i++ {
			assert.Equal(t, first, e.Extract(in, ref), "input %q", in)
		}
	}
}

func TestExtract_NeverMutatesPrior(t *testing.T) {
	e := testExtractor()

	// Extraction looks only at the current turn; inheritance happens later.
	got := e.Extract("what about flights there in July", refTime())
	assert.Equal(t, "", got.Destination)
	assert.Equal(t, models.ExtractedEntities{Passengers: 1, Date: "2025-07-01"}.Date[:7], got.Date[:7])
}
