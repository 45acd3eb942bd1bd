// internal/aliases/aliases.go
package aliases

import (
	"strings"
)

// Table maps surface forms of city names (lowercased) to their canonical city
// name. IATA codes are included so "flights from BOM" resolves like "Mumbai".
type Table struct {
	byAlias map[string]string
	// surfaces holds alias keys ordered longest-first so that "new york"
	// matches before "york"-style substrings of longer aliases.
	surfaces []string
}

// defaultAliases is the embedded reference table. A Postgres-backed deployment
// can extend or replace it via LoadFromDB.
var defaultAliases = map[string]string{
	// Common spellings and historic names
	"mumbai": "Mumbai", "bombay": "Mumbai",
	"delhi": "Delhi", "new delhi": "Delhi",
	"bangalore": "Bangalore", "bengaluru": "Bangalore",
	"chennai": "Chennai", "madras": "Chennai",
	"hyderabad": "Hyderabad",
	"kolkata":   "Kolkata", "calcutta": "Kolkata",
	"goa": "Goa", "jaipur": "Jaipur", "agra": "Agra", "udaipur": "Udaipur",
	"kochi": "Kochi", "cochin": "Kochi",
	"london": "London", "paris": "Paris", "tokyo": "Tokyo",
	"new york": "New York", "nyc": "New York",
	"dubai": "Dubai", "singapore": "Singapore",
	"bangkok": "Bangkok", "bali": "Bali",
	"san francisco": "San Francisco", "los angeles": "Los Angeles",
	"chicago": "Chicago", "sydney": "Sydney", "melbourne": "Melbourne",
	"toronto": "Toronto", "vancouver": "Vancouver",
	"dammam": "Dammam", "shenzhen": "Shenzhen", "shanghai": "Shanghai",
	"beijing": "Beijing", "seoul": "Seoul", "hong kong": "Hong Kong",
	"taipei": "Taipei", "kuala lumpur": "Kuala Lumpur",
	"rome": "Rome", "barcelona": "Barcelona", "berlin": "Berlin",
	"amsterdam": "Amsterdam", "istanbul": "Istanbul", "cairo": "Cairo",

	// IATA airport codes
	"bom": "Mumbai", "del": "Delhi", "blr": "Bangalore",
	"maa": "Chennai", "hyd": "Hyderabad", "ccu": "Kolkata",
	"lhr": "London", "cdg": "Paris", "nrt": "Tokyo",
	"jfk": "New York", "lga": "New York", "ewr": "New York",
	"dxb": "Dubai", "sin": "Singapore", "bkk": "Bangkok",
	"dps": "Bali", "sfo": "San Francisco", "lax": "Los Angeles",
	"ord": "Chicago", "syd": "Sydney", "mel": "Melbourne",
	"yyz": "Toronto", "yvr": "Vancouver", "pvg": "Shanghai",
	"pek": "Beijing", "icn": "Seoul", "hkg": "Hong Kong",
	"tpe": "Taipei", "kul": "Kuala Lumpur", "dmm": "Dammam",
	"szx": "Shenzhen",
}

// NewTable builds a table from the embedded defaults.
func NewTable() *Table {
	return NewTableFrom(defaultAliases)
}

// NewTableFrom builds a table from an explicit alias map. Keys are lowercased.
func NewTableFrom(aliases map[string]string) *Table {
	t := &Table{byAlias: make(map[string]string, len(aliases))}
	for surface, canonical := range aliases {
		t.byAlias[strings.ToLower(surface)] = canonical
	}
	t.rebuildSurfaces()
	return t
}

func (t *Table) rebuildSurfaces() {
	t.surfaces = t.surfaces[:0]
	for surface := range t.byAlias {
		t.surfaces = append(t.surfaces, surface)
	}
	// Longest alias first; ties broken alphabetically for determinism.
	for i := 0; i < len(t.surfaces); i++ {
		for j := i + 1; j < len(t.surfaces); j++ {
			a, b := t.surfaces[i], t.surfaces[j]
			if len(b) > len(a) || (len(b) == len(a) && b < a) {
				t.surfaces[i], t.surfaces[j] = b, a
			}
		}
	}
}

// Resolve returns the canonical city for a surface form, or "" if unknown.
func (t *Table) Resolve(surface string) string {
	return t.byAlias[strings.ToLower(strings.TrimSpace(surface))]
}

// Surfaces returns all alias surface forms, longest first. The extractor scans
// these against the raw text in this order.
func (t *Table) Surfaces() []string {
	return t.surfaces
}

// Merge adds aliases on top of the current table, overriding duplicates.
func (t *Table) Merge(aliases map[string]string) {
	for surface, canonical := range aliases {
		t.byAlias[strings.ToLower(surface)] = canonical
	}
	t.rebuildSurfaces()
}

// Len reports the number of known surface forms.
func (t *Table) Len() int {
	return len(t.byAlias)
}
