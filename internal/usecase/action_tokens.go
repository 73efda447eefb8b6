package usecase

import (
	"fmt"
	"strings"

	"flightstatus-service/internal/domain/entity"
)

// Action token names. Arguments follow the name separated by "|".
const (
	ActionTokenDate        = "date"
	ActionTokenNewSearch   = "new_search"
	ActionTokenChange      = "change"
	ActionTokenRefresh     = "refresh"
	ActionTokenSelect      = "select"
	ActionTokenSubscribe   = "subscribe"
	ActionTokenUnsubscribe = "unsubscribe"
	ActionTokenMyFlights   = "my_flights"

	changeDate       = "date"
	changeFlightCode = "code"
	tokenSeparator   = "|"
)

// SplitActionToken returns the token name and its arguments
func SplitActionToken(token string) (string, []string) {
	parts := strings.Split(strings.TrimSpace(token), tokenSeparator)
	return parts[0], parts[1:]
}

// DateAction picks a relative day, e.g. "date|tomorrow"
func DateAction(keyword string) string {
	return ActionTokenDate + tokenSeparator + keyword
}

// RefreshAction repeats a lookup, e.g. "refresh|SU100|2025-07-15"
func RefreshAction(flightCode string, date entity.Date) string {
	return strings.Join([]string{ActionTokenRefresh, flightCode, date.String()}, tokenSeparator)
}

// SelectAction picks one of several flights returned for the same lookup
func SelectAction(flightCode string, date entity.Date, index int) string {
	return strings.Join([]string{ActionTokenSelect, flightCode, date.String(), fmt.Sprint(index)}, tokenSeparator)
}

// ChangeDateAction keeps the flight code and asks for another date
func ChangeDateAction(flightCode string) string {
	return strings.Join([]string{ActionTokenChange, changeDate, flightCode}, tokenSeparator)
}

// ChangeFlightCodeAction keeps the date and asks for another flight code
func ChangeFlightCodeAction(date entity.Date) string {
	return strings.Join([]string{ActionTokenChange, changeFlightCode, date.String()}, tokenSeparator)
}

// SubscribeAction follows a flight, e.g. "subscribe|SU100|2025-07-15"
func SubscribeAction(flightCode string, date entity.Date) string {
	return strings.Join([]string{ActionTokenSubscribe, flightCode, date.String()}, tokenSeparator)
}

// UnsubscribeAction stops following a flight
func UnsubscribeAction(flightCode string, date entity.Date) string {
	return strings.Join([]string{ActionTokenUnsubscribe, flightCode, date.String()}, tokenSeparator)
}
