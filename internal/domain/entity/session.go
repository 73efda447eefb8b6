package entity

import (
	"time"

	"flightstatus-service/pkg/clock"
)

// SessionState is the slot-filling stage of a search session
type SessionState string

const (
	StateAwaitingDate       SessionState = "AWAITING_DATE"
	StateAwaitingFlightCode SessionState = "AWAITING_FLIGHT_CODE"
	StateComplete           SessionState = "COMPLETE"
)

// DefaultSessionTTL is how long an untouched session stays alive
const DefaultSessionTTL = time.Hour

// Session is one conversation's in-progress flight search.
// At most one exists per ConversationID.
type Session struct {
	ConversationID string       `json:"conversationId" bson:"conversationId"`
	State          SessionState `json:"state" bson:"state"`
	DateSlot       *Date        `json:"dateSlot,omitempty" bson:"dateSlot,omitempty"`
	FlightCodeSlot string       `json:"flightCodeSlot,omitempty" bson:"flightCodeSlot,omitempty"`
	CreatedAt      time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt" bson:"updatedAt"`
	ExpiresAt      time.Time    `json:"expiresAt" bson:"expiresAt"`
}

// HasDate reports whether the date slot is filled
func (s *Session) HasDate() bool {
	return s.DateSlot != nil && !s.DateSlot.IsZero()
}

// HasFlightCode reports whether the flight code slot is filled
func (s *Session) HasFlightCode() bool {
	return s.FlightCodeSlot != ""
}

// ExpiredAt reports whether the session is logically absent at now
func (s *Session) ExpiredAt(now time.Time) bool {
	return clock.Expired(now, s.ExpiresAt)
}

// Touch records a mutation at now and pushes the expiry out by ttl
func (s *Session) Touch(now time.Time, ttl time.Duration) {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(ttl)
}

// Clone returns a deep copy so callers never share the date pointer
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	if s.DateSlot != nil {
		d := *s.DateSlot
		c.DateSlot = &d
	}
	return &c
}
