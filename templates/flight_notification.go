package templates

import (
	"fmt"
	"strings"

	"flightstatus-service/internal/domain/entity"
)

// RenderNotification renders a compact push-style update for record, e.g.
// "🛂 SU100: Boarding, gate 12". It shares the status table with
// RenderFullReport and never panics.
func RenderNotification(record *entity.FlightRecord) string {
	text, _ := renderNotification(record)
	return text
}

func renderNotification(record *entity.FlightRecord) (text string, fellBack bool) {
	if record == nil {
		return NoDataReport, false
	}
	defer func() {
		if r := recover(); r != nil {
			text, fellBack = minimalReport(record), true
		}
	}()

	status := record.StatusOrUnknown()
	presentation, _ := lookupStatus(status)

	message := notificationMessage(record, status, presentation.Notify)
	number := strings.ReplaceAll(record.Number, " ", "")
	if number == "" {
		return fmt.Sprintf("%s %s", presentation.Icon, message), false
	}
	return fmt.Sprintf("%s %s: %s", presentation.Icon, number, message), false
}

func notificationMessage(record *entity.FlightRecord, status entity.FlightStatus, kind notificationKind) string {
	switch kind {
	case notifyBoarding:
		if record.Departure != nil && record.Departure.Gate != "" {
			return "Boarding, gate " + record.Departure.Gate
		}
		return "Boarding"
	case notifyDeparted:
		msg := "Departed"
		if t := record.Departure.CurrentTime(); t != nil {
			msg = "Departed at " + clockString(t)
		}
		if t := record.Arrival.CurrentTime(); t != nil {
			msg += "\nEstimated arrival " + clockString(t)
		}
		return msg
	case notifyArrived:
		if t := record.Arrival.CurrentTime(); t != nil {
			return "Arrived at " + clockString(t)
		}
		return "Arrived"
	case notifyDelayed:
		return "Delayed"
	case notifyCanceled:
		return "Canceled"
	case notifyEnRoute:
		return "En route"
	case notifyCheckIn:
		return "Check-in open"
	case notifyGateClosed:
		return "Gate closed"
	case notifyApproaching:
		return "Approaching"
	}

	if record.NotificationSummary != "" {
		return record.NotificationSummary
	}
	return fmt.Sprintf("Status: %s", status)
}
