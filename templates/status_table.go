package templates

import "flightstatus-service/internal/domain/entity"

// notificationKind selects the one-line message used for push updates
type notificationKind int

const (
	notifyGeneric notificationKind = iota
	notifyCheckIn
	notifyBoarding
	notifyGateClosed
	notifyDeparted
	notifyEnRoute
	notifyDelayed
	notifyApproaching
	notifyArrived
	notifyCanceled
)

// statusPresentation is how one status looks in every renderer
type statusPresentation struct {
	Icon   string
	Notify notificationKind
}

const defaultStatusIcon = "ℹ️"

// statusTable is the single status dispatch table. Both the full report and
// the notification renderer look statuses up here and nowhere else.
var statusTable = map[entity.FlightStatus]statusPresentation{
	entity.StatusUnknown:           {Icon: "❓", Notify: notifyGeneric},
	entity.StatusExpected:          {Icon: "⏳", Notify: notifyGeneric},
	entity.StatusEnRoute:           {Icon: "✈️", Notify: notifyEnRoute},
	entity.StatusCheckIn:           {Icon: "📋", Notify: notifyCheckIn},
	entity.StatusBoarding:          {Icon: "🛂", Notify: notifyBoarding},
	entity.StatusGateClosed:        {Icon: "🔒", Notify: notifyGateClosed},
	entity.StatusDeparted:          {Icon: "✈️", Notify: notifyDeparted},
	entity.StatusDelayed:           {Icon: "⏰", Notify: notifyDelayed},
	entity.StatusApproaching:       {Icon: "🛬", Notify: notifyApproaching},
	entity.StatusArrived:           {Icon: "✅", Notify: notifyArrived},
	entity.StatusCanceled:          {Icon: "❌", Notify: notifyCanceled},
	entity.StatusDiverted:          {Icon: "🔄", Notify: notifyGeneric},
	entity.StatusCanceledUncertain: {Icon: "❓", Notify: notifyGeneric},
}

// lookupStatus returns the presentation for status and whether it is mapped.
// Unmapped statuses get the default icon and the generic notification.
func lookupStatus(status entity.FlightStatus) (statusPresentation, bool) {
	p, ok := statusTable[status]
	if !ok {
		return statusPresentation{Icon: defaultStatusIcon, Notify: notifyGeneric}, false
	}
	return p, true
}

// StatusIcon returns the icon shown next to status
func StatusIcon(status entity.FlightStatus) string {
	p, _ := lookupStatus(status)
	return p.Icon
}
