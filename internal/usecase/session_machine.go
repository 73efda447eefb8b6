package usecase

import (
	"time"

	"flightstatus-service/internal/domain/entity"
)

// Action tells the caller what to say after a slot was applied
type Action int

const (
	ActionReprompt Action = iota
	ActionPromptDate
	ActionPromptFlightCode
	ActionComplete
)

func (a Action) String() string {
	switch a {
	case ActionPromptDate:
		return "prompt_date"
	case ActionPromptFlightCode:
		return "prompt_flight_code"
	case ActionComplete:
		return "complete"
	default:
		return "reprompt"
	}
}

// NextSession applies one slot value to current and returns the resulting
// session. current may be nil, meaning no live session exists.
//
// An unrecognized slot never mutates anything: the returned session is a copy
// of current (possibly nil) and the action is ActionReprompt. Supplying a slot
// that is already filled overwrites it; supplying a slot to a complete
// session overwrites it and clears the other slot so the user confirms both
// again.
func NextSession(conversationID string, current *entity.Session, slot entity.SlotValue, now time.Time, ttl time.Duration) (*entity.Session, Action) {
	if slot.Kind == entity.SlotUnrecognized {
		return current.Clone(), ActionReprompt
	}

	next := current.Clone()
	if next == nil {
		next = newSession(conversationID)
	}

	switch slot.Kind {
	case entity.SlotDate:
		d := slot.Date
		switch next.State {
		case entity.StateComplete:
			next.DateSlot = &d
			next.FlightCodeSlot = ""
			next.State = entity.StateAwaitingFlightCode
		case entity.StateAwaitingFlightCode:
			next.DateSlot = &d
		default:
			next.DateSlot = &d
			if next.HasFlightCode() {
				next.State = entity.StateComplete
			} else {
				next.State = entity.StateAwaitingFlightCode
			}
		}
	case entity.SlotFlightCode:
		switch next.State {
		case entity.StateComplete:
			next.FlightCodeSlot = slot.FlightCode
			next.DateSlot = nil
			next.State = entity.StateAwaitingDate
		case entity.StateAwaitingDate:
			next.FlightCodeSlot = slot.FlightCode
		default:
			next.FlightCodeSlot = slot.FlightCode
			if next.HasDate() {
				next.State = entity.StateComplete
			} else {
				next.State = entity.StateAwaitingDate
			}
		}
	}

	next.Touch(now, ttl)
	return next, actionFor(next.State)
}

// CompleteSession fills both slots in one step, whatever state current is in
func CompleteSession(conversationID string, current *entity.Session, date entity.Date, flightCode string, now time.Time, ttl time.Duration) *entity.Session {
	next := current.Clone()
	if next == nil {
		next = newSession(conversationID)
	}
	next.DateSlot = &date
	next.FlightCodeSlot = flightCode
	next.State = entity.StateComplete
	next.Touch(now, ttl)
	return next
}

func newSession(conversationID string) *entity.Session {
	return &entity.Session{
		ConversationID: conversationID,
		State:          entity.StateAwaitingDate,
	}
}

func actionFor(state entity.SessionState) Action {
	switch state {
	case entity.StateComplete:
		return ActionComplete
	case entity.StateAwaitingFlightCode:
		return ActionPromptFlightCode
	default:
		return ActionPromptDate
	}
}
