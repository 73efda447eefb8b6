package utils

import "flightstatus-service/internal/domain/entity"

// ParsedMessage is everything the parser could pull out of one free-text
// message. A message may carry a date, a flight code, both or neither.
type ParsedMessage struct {
	Date        *entity.Date
	FlightCode  string
	InvalidDate bool // a dd.mm.yyyy token was present but named no real day

	// AmbiguousCodes lists the distinct codes found when there was more than one
	AmbiguousCodes []string
}

// HasDate reports whether a date was recognised
func (p ParsedMessage) HasDate() bool {
	return p.Date != nil
}

// HasFlightCode reports whether a flight code was recognised
func (p ParsedMessage) HasFlightCode() bool {
	return p.FlightCode != ""
}

// Ambiguous reports whether several different flight codes were found
func (p ParsedMessage) Ambiguous() bool {
	return len(p.AmbiguousCodes) > 1
}

// Empty reports whether nothing usable was found
func (p ParsedMessage) Empty() bool {
	return !p.HasDate() && !p.HasFlightCode()
}

// Constants
const (
	DISPLAY_DATE_LAYOUT = "02.01.2006"
	TIME_LAYOUT         = "15:04"
)
