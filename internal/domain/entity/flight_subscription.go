package entity

import (
	"fmt"
	"time"
)

// FlightSubscription marks a conversation as interested in status updates for
// one flight on one day
type FlightSubscription struct {
	ID              string    `bson:"_id,omitempty"`
	SubscriptionKey string    `bson:"subscriptionKey"` // {conversation}:{code}:{date} - unique index
	ConversationID  string    `bson:"conversationId"`
	FlightNumber    string    `bson:"flightNumber"`
	FlightDate      string    `bson:"flightDate"`
	Locale          string    `bson:"locale,omitempty"`
	CreatedAt       time.Time `bson:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt"`
}

// SubscriptionKey builds the unique key of a subscription
func SubscriptionKey(conversationID, flightNumber string, date Date) string {
	return fmt.Sprintf("%s:%s:%s", conversationID, flightNumber, date)
}

// Date parses FlightDate
func (s *FlightSubscription) Date() (Date, error) {
	return ParseISODate(s.FlightDate)
}
