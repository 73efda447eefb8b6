package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"flightstatus-service/internal/domain/entity"
)

func TestRenderNotification(t *testing.T) {
	tests := []struct {
		name   string
		record *entity.FlightRecord
		want   string
	}{
		{
			name: "boarding with gate",
			record: &entity.FlightRecord{
				Number:    "SU 100",
				Status:    entity.StatusBoarding,
				Departure: &entity.FlightLeg{Gate: "12"},
			},
			want: "🛂 SU100: Boarding, gate 12",
		},
		{
			name: "departed with estimated arrival",
			record: &entity.FlightRecord{
				Number: "SU100",
				Status: entity.StatusDeparted,
				Departure: &entity.FlightLeg{
					ScheduledTime: &entity.FlightTime{Local: "2025-07-15 10:00+03:00"},
					ActualTime:    &entity.FlightTime{Local: "2025-07-15 10:15+03:00"},
				},
				Arrival: &entity.FlightLeg{
					PredictedTime: &entity.FlightTime{Local: "2025-07-15 12:10+03:00"},
				},
			},
			want: "✈️ SU100: Departed at 10:15\nEstimated arrival 12:10",
		},
		{
			name: "arrived",
			record: &entity.FlightRecord{
				Number:  "SU100",
				Status:  entity.StatusArrived,
				Arrival: &entity.FlightLeg{ActualTime: &entity.FlightTime{UTC: "2025-07-15 08:20Z"}},
			},
			want: "✅ SU100: Arrived at 08:20",
		},
		{
			name:   "delayed",
			record: &entity.FlightRecord{Number: "SU100", Status: entity.StatusDelayed},
			want:   "⏰ SU100: Delayed",
		},
		{
			name:   "gate closed",
			record: &entity.FlightRecord{Number: "SU100", Status: entity.StatusGateClosed},
			want:   "🔒 SU100: Gate closed",
		},
		{
			name:   "provider summary for unmapped status",
			record: &entity.FlightRecord{Number: "SU100", Status: "Holding", NotificationSummary: "Holding over Moscow"},
			want:   "ℹ️ SU100: Holding over Moscow",
		},
		{
			name:   "generic fallback",
			record: &entity.FlightRecord{Number: "SU100", Status: "Holding"},
			want:   "ℹ️ SU100: Status: Holding",
		},
		{
			name:   "empty status",
			record: &entity.FlightRecord{Number: "SU100"},
			want:   "❓ SU100: Status: Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderNotification(tt.record))
		})
	}
}

func TestStatusTableCoversEveryKnownStatus(t *testing.T) {
	assert.Len(t, statusTable, len(entity.KnownStatuses))

	for _, status := range entity.KnownStatuses {
		presentation, ok := lookupStatus(status)
		assert.True(t, ok, "status %s missing from table", status)

		record := &entity.FlightRecord{Number: "SU100", Status: status}
		report := RenderFullReport(record)
		notification := RenderNotification(record)

		// both renderers show the icon the shared table assigns
		assert.Contains(t, report, presentation.Icon+" Status: "+string(status))
		assert.True(t, strings.HasPrefix(notification, presentation.Icon+" "), "status %s: %q", status, notification)

		if presentation.Notify == notifyGeneric {
			assert.Contains(t, notification, "Status: "+string(status))
		} else {
			assert.NotContains(t, notification, "Status:")
		}
	}
}

func TestUnmappedStatusUsesDefaultsInBothRenderers(t *testing.T) {
	record := &entity.FlightRecord{Number: "SU100", Status: "Rerouted"}
	assert.Contains(t, RenderFullReport(record), defaultStatusIcon+" Status: Rerouted")
	assert.Equal(t, defaultStatusIcon+" SU100: Status: Rerouted", RenderNotification(record))
}
