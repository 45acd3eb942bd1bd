// internal/models/entities.go
package models

// ExtractedEntities holds the structured trip parameters pulled out of a raw
// user turn. Every field is independently optional; partial extraction is the
// normal case, not an error.
type ExtractedEntities struct {
	Origin      string `json:"origin,omitempty"`      // canonical city name
	Destination string `json:"destination,omitempty"` // canonical city name
	Date        string `json:"date,omitempty"`        // ISO calendar date (2006-01-02)
	ReturnDate  string `json:"returnDate,omitempty"`
	// DateInferred marks a date that was defaulted rather than stated, so
	// downstream tools get a usable value while callers can tell the user.
	DateInferred bool `json:"dateInferred,omitempty"`
	Passengers   int  `json:"passengers"`
	Days         int  `json:"days,omitempty"`
}

// Field returns the named entity value; used for required-field checks.
func (e ExtractedEntities) Field(name string) string {
	switch name {
	case "origin":
		return e.Origin
	case "destination":
		return e.Destination
	case "date":
		return e.Date
	case "returnDate":
		return e.ReturnDate
	}
	return ""
}

// MergeFrom fills absent fields from prior turn entities. Inheritance is
// additive only: a present value is never overwritten by an absent one, and
// the current turn always wins when both are present.
func (e ExtractedEntities) MergeFrom(prior ExtractedEntities) ExtractedEntities {
	merged := e
	if merged.Origin == "" {
		merged.Origin = prior.Origin
	}
	if merged.Destination == "" {
		merged.Destination = prior.Destination
	}
	if merged.Date == "" && prior.Date != "" {
		merged.Date = prior.Date
		merged.DateInferred = prior.DateInferred
	}
	if merged.ReturnDate == "" {
		merged.ReturnDate = prior.ReturnDate
	}
	if merged.Passengers <= 1 && prior.Passengers > 1 {
		merged.Passengers = prior.Passengers
	}
	if merged.Days == 0 {
		merged.Days = prior.Days
	}
	return merged
}

// MissingFields reports which of the given required fields are absent.
func (e ExtractedEntities) MissingFields(required []string) []string {
	var missing []string
	for _, name := range required {
		if e.Field(name) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
