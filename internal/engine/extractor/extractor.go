// internal/engine/extractor/extractor.go
package extractor

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"travel-orchestrator/internal/aliases"
	"travel-orchestrator/internal/models"
)

const isoDate = "2006-01-02"

// Extractor pulls structured trip parameters out of free text. Pure function
// of (text, referenceTime): no I/O, deterministic, never fails. Absent fields
// are reported as absent, not as errors.
type Extractor struct {
	cities *aliases.Table
}

func New(cities *aliases.Table) *Extractor {
	return &Extractor{cities: cities}
}

var (
	reIATACode = regexp.MustCompile(`\(([A-Za-z]{3})\)`)
	reFromTo   = regexp.MustCompile(`from\s+([a-z .]+?)\s+to\s+([a-z .]+?)(?:\s+on\b|\s+for\b|\s+in\s+\d|\s+departing\b|\s+leaving\b|[,.!?;]|$)`)
	reFromOnly = regexp.MustCompile(`\bfrom\s+([a-z .]+?)(?:\s+on\b|\s+for\b|[,.!?;]|$)`)

	reISODate     = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	reNumericDate = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	reTextualDate = regexp.MustCompile(`\b(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sep|sept|oct|nov|dec)\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?\b`)
	reDayFirst    = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?\s+(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sep|sept|oct|nov|dec)(?:,?\s+(\d{4}))?\b`)
	reInNDays     = regexp.MustCompile(`\bin\s+(\d+)\s+(day|days|week|weeks)\b`)
	reMonthOnly   = regexp.MustCompile(`\bin\s+(january|february|march|april|may|june|july|august|september|october|november|december)\b`)

	rePassengers = regexp.MustCompile(`\b(\d+|one|two|three|four|five|six|seven|eight|nine|ten)\s+(?:passengers?|people|persons?|travell?ers?|adults?)\b`)
	reDayCount   = regexp.MustCompile(`\b(\d+)[\s-]*(day|days|week|weeks|month|months)\b`)

	reReturn = regexp.MustCompile(`\b(?:returning|return|coming back|back on)\b`)
)

var months = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may": time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// stopwords are filler tokens that must never be title-cased into a city name
// by the unknown-city fallback.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "to": true, "from": true,
	"on": true, "in": true, "at": true, "for": true, "and": true,
	"my": true, "me": true, "there": true, "here": true, "home": true,
	"trip": true, "vacation": true, "holiday": true, "flight": true,
	"flights": true, "somewhere": true, "anywhere": true,
}

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// Extract pulls entities out of one turn of text. referenceTime anchors
// relative date expressions like "tomorrow".
func (e *Extractor) Extract(text string, referenceTime time.Time) models.ExtractedEntities {
	entities := models.ExtractedEntities{Passengers: 1}

	lower := strings.ToLower(text)

	origin, destination := e.extractCities(text, lower)
	entities.Origin = origin
	entities.Destination = destination

	date, returnDate := e.extractDates(lower, referenceTime)
	entities.Date = date
	entities.ReturnDate = returnDate

	if m := rePassengers.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			if n > 0 {
				entities.Passengers = n
			}
		} else if n, ok := numberWords[m[1]]; ok {
			entities.Passengers = n
		}
	}

	if m := reDayCount.FindStringSubmatch(lower); m != nil {
		n, _ := strconv.Atoi(m[1])
		switch {
		case strings.HasPrefix(m[2], "week"):
			n *= 7
		case strings.HasPrefix(m[2], "month"):
			n *= 30
		}
		if n > 0 {
			entities.Days = n
		}
	}

	return entities
}

// extractCities resolves origin and destination. Priority order: parenthesized
// IATA codes, then a directional "from X to Y" pattern, then reading order of
// alias matches. A single detected city is the destination.
func (e *Extractor) extractCities(text, lower string) (origin, destination string) {
	// 1. IATA codes in parentheses, e.g. "(BOM)" and "(DEL)"
	codes := reIATACode.FindAllStringSubmatch(text, -1)
	if len(codes) >= 2 {
		o := e.cities.Resolve(codes[0][1])
		d := e.cities.Resolve(codes[1][1])
		if o != "" && d != "" {
			return o, d
		}
	}

	// 2. Directional pattern takes precedence over positional order.
	if m := reFromTo.FindStringSubmatch(lower); m != nil {
		o := e.resolveSegment(m[1])
		d := e.resolveSegment(m[2])
		if o != "" && d != "" {
			return o, d
		}
	}

	// 3. A bare "from X" names only the origin, e.g. when answering a
	// clarification prompt.
	if m := reFromOnly.FindStringSubmatch(lower); m != nil {
		if o := e.resolveSegment(m[1]); o != "" {
			for _, city := range e.detectCities(lower) {
				if city != o {
					return o, city
				}
			}
			return o, ""
		}
	}

	// 4. Reading order of known city mentions. More than two mentions in a
	// single turn is ambiguous in free text; extra mentions are ignored.
	detected := e.detectCities(lower)
	switch len(detected) {
	case 0:
		return "", ""
	case 1:
		return "", detected[0]
	default:
		return detected[0], detected[1]
	}
}

// resolveSegment resolves one side of a "from X to Y" phrase. Known aliases
// win; otherwise a short clean segment is title-cased as-is so unknown cities
// still flow through to providers.
func (e *Extractor) resolveSegment(segment string) string {
	segment = strings.TrimSpace(strings.Trim(segment, " .,"))
	if segment == "" {
		return ""
	}
	for _, surface := range e.cities.Surfaces() {
		if containsWord(segment, surface) {
			return e.cities.Resolve(surface)
		}
	}
	words := strings.Fields(segment)
	if len(words) > 3 {
		return ""
	}
	for _, w := range words {
		if stopwords[w] {
			return ""
		}
		for _, r := range w {
			if (r < 'a' || r > 'z') && r != '.' {
				return ""
			}
		}
	}
	return titleCase(words)
}

// titleCase uppercases the first letter of each word. Inputs are already
// validated as lowercase ASCII, so no Unicode-aware casing is needed.
func titleCase(words []string) string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(out, " ")
}

// detectCities returns canonical names of all distinct cities mentioned, in
// reading order.
func (e *Extractor) detectCities(lower string) []string {
	type match struct {
		pos  int
		city string
	}
	var matches []match
	seen := make(map[string]bool)

	for _, surface := range e.cities.Surfaces() {
		pos := indexWord(lower, surface)
		if pos < 0 {
			continue
		}
		city := e.cities.Resolve(surface)
		if seen[city] {
			continue
		}
		seen[city] = true
		matches = append(matches, match{pos: pos, city: city})
	}

	// Insertion sort by position; alias tables are small.
	for i := 1; i < len(matches); i++ {
		for j := i; j > 0 && matches[j].pos < matches[j-1].pos; j-- {
			matches[j], matches[j-1] = matches[j-1], matches[j]
		}
	}

	cities := make([]string, 0, len(matches))
	for _, m := range matches {
		cities = append(cities, m.city)
	}
	return cities
}

// extractDates finds the departure and, for round trips, the return date.
func (e *Extractor) extractDates(lower string, ref time.Time) (date, returnDate string) {
	type dateMatch struct {
		pos int
		day time.Time
	}
	var found []dateMatch

	add := func(pos int, t time.Time) {
		found = append(found, dateMatch{pos: pos, day: t})
	}

	for _, loc := range reISODate.FindAllStringSubmatchIndex(lower, -1) {
		if t, err := time.Parse(isoDate, lower[loc[2]:loc[3]]); err == nil {
			add(loc[0], t)
		}
	}

	for _, loc := range reNumericDate.FindAllStringSubmatchIndex(lower, -1) {
		a, _ := strconv.Atoi(lower[loc[2]:loc[3]])
		b, _ := strconv.Atoi(lower[loc[4]:loc[5]])
		y, _ := strconv.Atoi(lower[loc[6]:loc[7]])
		month, day := a, b
		// Tolerate day-first ordering when the month position is impossible.
		if month > 12 && day <= 12 {
			month, day = day, month
		}
		if t, ok := makeDate(y, month, day); ok {
			add(loc[0], t)
		}
	}

	for _, loc := range reTextualDate.FindAllStringSubmatchIndex(lower, -1) {
		monthName := lower[loc[2]:loc[3]]
		day, _ := strconv.Atoi(lower[loc[4]:loc[5]])
		year := ref.Year()
		if loc[6] >= 0 {
			year, _ = strconv.Atoi(lower[loc[6]:loc[7]])
		}
		if t, ok := makeDate(year, int(months[monthName]), day); ok {
			// A yearless date already past rolls forward to next year.
			if loc[6] < 0 && t.Before(ref.Truncate(24*time.Hour)) {
				t = t.AddDate(1, 0, 0)
			}
			add(loc[0], t)
		}
	}

	for _, loc := range reDayFirst.FindAllStringSubmatchIndex(lower, -1) {
		day, _ := strconv.Atoi(lower[loc[2]:loc[3]])
		monthName := lower[loc[4]:loc[5]]
		year := ref.Year()
		if loc[6] >= 0 {
			year, _ = strconv.Atoi(lower[loc[6]:loc[7]])
		}
		if t, ok := makeDate(year, int(months[monthName]), day); ok {
			if loc[6] < 0 && t.Before(ref.Truncate(24*time.Hour)) {
				t = t.AddDate(1, 0, 0)
			}
			add(loc[0], t)
		}
	}

	// Relative expressions resolved against referenceTime.
	relatives := []struct {
		phrase string
		days   int
	}{
		{"day after tomorrow", 2},
		{"tomorrow", 1},
		{"today", 0},
		{"next week", 7},
		{"next month", 30},
	}
	consumed := ""
	for _, rel := range relatives {
		pos := strings.Index(lower, rel.phrase)
		if pos < 0 {
			continue
		}
		// "tomorrow" is a substring of "day after tomorrow"; skip the overlap.
		if consumed != "" && strings.Contains(consumed, rel.phrase) {
			continue
		}
		consumed = rel.phrase
		add(pos, ref.AddDate(0, 0, rel.days))
	}

	for _, loc := range reInNDays.FindAllStringSubmatchIndex(lower, -1) {
		n, _ := strconv.Atoi(lower[loc[2]:loc[3]])
		if strings.HasPrefix(lower[loc[4]:loc[5]], "week") {
			n *= 7
		}
		add(loc[0], ref.AddDate(0, 0, n))
	}

	// A bare "in July" means the first of that month, rolled forward if past.
	if len(found) == 0 {
		if loc := reMonthOnly.FindStringSubmatchIndex(lower); loc != nil {
			t := time.Date(ref.Year(), months[lower[loc[2]:loc[3]]], 1, 0, 0, 0, 0, time.UTC)
			if t.Before(ref.Truncate(24 * time.Hour)) {
				t = t.AddDate(1, 0, 0)
			}
			add(loc[0], t)
		}
	}

	if len(found) == 0 {
		return "", ""
	}

	for i := 1; i < len(found); i++ {
		for j := i; j > 0 && found[j].pos < found[j-1].pos; j-- {
			found[j], found[j-1] = found[j-1], found[j]
		}
	}

	date = found[0].day.Format(isoDate)

	// A second date is a return date when a return indicator is present, or
	// when two distinct dates are simply listed in order.
	if len(found) > 1 {
		last := found[len(found)-1].day.Format(isoDate)
		if last != date && (reReturn.MatchString(lower) || len(found) == 2) {
			returnDate = last
		}
	}

	return date, returnDate
}

func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// Reject normalized overflow like February 30.
	if int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func containsWord(s, word string) bool {
	return indexWord(s, word) >= 0
}

// indexWord finds word in s at word boundaries, or -1.
func indexWord(s, word string) int {
	for start := 0; ; {
		idx := strings.Index(s[start:], word)
		if idx < 0 {
			return -1
		}
		idx += start
		end := idx + len(word)
		leftOK := idx == 0 || !isAlnum(s[idx-1])
		rightOK := end == len(s) || !isAlnum(s[end])
		if leftOK && rightOK {
			return idx
		}
		start = idx + 1
	}
}

func isAlnum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
