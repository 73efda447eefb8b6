// internal/domain/entity/flight_query.go
package entity

import (
	"time"
)

// Lookup outcomes recorded on a flight query
const (
	OutcomeSuccess        = "SUCCESS"
	OutcomeNoData         = "NO_DATA"
	OutcomeTransientError = "TRANSIENT_ERROR"
)

// FlightQuery records a completed search for auditing and repeat lookups
type FlightQuery struct {
	ID             string    `bson:"_id,omitempty"`
	QueryKey       string    `bson:"queryKey"` // {conversation}:{code}:{date} - unique index
	ConversationID string    `bson:"conversationId"`
	FlightNumber   string    `bson:"flightNumber"`
	FlightDate     string    `bson:"flightDate"`
	Outcome        string    `bson:"outcome"`
	FlightStatus   string    `bson:"flightStatus,omitempty"`
	ResultCount    int       `bson:"resultCount"`
	LookupCount    int       `bson:"lookupCount"`
	CreatedAt      time.Time `bson:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt"`
}
