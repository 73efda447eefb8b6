package templates

import (
	"strings"
	"time"

	"flightstatus-service/internal/domain/entity"
	"flightstatus-service/pkg/utils"
)

const (
	clockLayout = utils.TIME_LAYOUT
	dateLayout  = utils.DISPLAY_DATE_LAYOUT
)

// provider timestamps, e.g. "2025-07-09 21:50+03:00" or "2025-07-09 18:50Z"
var providerTimeLayouts = []string{
	"2006-01-02 15:04Z07:00",
	"2006-01-02 15:04:05Z07:00",
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04",
}

// parseFlightTime reads the local representation, falling back to UTC.
// The result keeps the offset it was written with.
func parseFlightTime(ft *entity.FlightTime) (time.Time, bool) {
	if !ft.Present() {
		return time.Time{}, false
	}
	for _, raw := range []string{ft.Local, ft.UTC} {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		for _, layout := range providerTimeLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// clockString renders ft as 24h HH:MM. Unparseable values are printed as sent.
func clockString(ft *entity.FlightTime) string {
	if t, ok := parseFlightTime(ft); ok {
		return t.Format(clockLayout)
	}
	if ft == nil {
		return ""
	}
	if ft.Local != "" {
		return ft.Local
	}
	return ft.UTC
}

// updatedString renders a provider UTC stamp as "HH:MM dd.mm.yyyy UTC"
func updatedString(raw string) string {
	raw = strings.TrimSpace(raw)
	for _, layout := range providerTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC().Format(clockLayout+" "+dateLayout) + " UTC"
		}
	}
	return raw
}
