package templates

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"flightstatus-service/internal/domain/entity"
)

// NoDataReport is returned when there is no usable record at all
const NoDataReport = "No flight data available."

const (
	reportSeparator = "__________________"
	boardingLead    = 20 * time.Minute

	codeshareStatusShared = "IsCodeshared"
)

var blankRunRegex = regexp.MustCompile(`\n{3,}`)

// RenderFullReport turns one flight record into the canonical text report.
// It never panics: a nil record yields NoDataReport and any failure while
// building the report yields "{code} - {status}".
func RenderFullReport(record *entity.FlightRecord) string {
	report, _ := renderFullReport(record)
	return report
}

// RenderRawReport decodes a provider payload and renders every record in it,
// separated by a blank line. Anything that is not a flight object renders as
// NoDataReport.
func RenderRawReport(raw []byte) string {
	records, err := entity.DecodeFlightRecords(raw)
	if err != nil || len(records) == 0 {
		return NoDataReport
	}

	reports := make([]string, 0, len(records))
	for i := range records {
		reports = append(reports, RenderFullReport(&records[i]))
	}
	return strings.Join(reports, "\n\n")
}

// RenderFlightList renders one summary line per record, numbered from 1, for
// the case where a flight number matches several flights on the same day.
func RenderFlightList(records []entity.FlightRecord) string {
	lines := make([]string, 0, len(records))
	for i := range records {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, RenderFlightSummary(&records[i])))
	}
	return strings.Join(lines, "\n")
}

// RenderFlightSummary renders "{icon} {code} {route} {time}" on one line
func RenderFlightSummary(record *entity.FlightRecord) (summary string) {
	if record == nil {
		return NoDataReport
	}
	defer func() {
		if r := recover(); r != nil {
			summary = minimalReport(record)
		}
	}()

	parts := []string{StatusIcon(record.StatusOrUnknown()), record.Number}
	if route := routeString(record); route != "" {
		parts = append(parts, route)
	}
	if current := record.Departure.CurrentTime(); current != nil {
		parts = append(parts, clockString(current))
	}
	return strings.Join(parts, " ")
}

// renderFullReport also reports whether the minimal fallback was used
func renderFullReport(record *entity.FlightRecord) (report string, fellBack bool) {
	if record == nil {
		return NoDataReport, false
	}
	defer func() {
		if r := recover(); r != nil {
			report, fellBack = minimalReport(record), true
		}
	}()

	var sb strings.Builder
	status := record.StatusOrUnknown()

	sb.WriteString(headerLine(record))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%s Status: %s\n\n", StatusIcon(status), status))

	if len(record.Codeshares) > 0 {
		sb.WriteString(fmt.Sprintf("Also listed as: %s\n\n", strings.Join(record.Codeshares, ", ")))
	} else if record.CodeshareNote != "" {
		sb.WriteString(fmt.Sprintf("📋 %s\n\n", record.CodeshareNote))
	} else if record.CodeshareStatus == codeshareStatusShared {
		sb.WriteString("📋 Codeshare flight\n\n")
	}

	if dep := record.Departure; hasAirport(dep) {
		sb.WriteString(fmt.Sprintf("🛫 %s / %s\n", iataOrDash(dep), dep.AirportName()))
		writeOptional(&sb, "Terminal", dep.Terminal)
		writeOptional(&sb, "Check-in", dep.CheckInDesk)
		if dep.Gate != "" {
			sb.WriteString(gateLine(dep, status))
			sb.WriteString("\n")
		}
		if line := timeLine("Departure", dep); line != "" {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	if arr := record.Arrival; hasAirport(arr) {
		sb.WriteString(fmt.Sprintf("🛬 %s / %s\n", iataOrDash(arr), arr.AirportName()))
		writeOptional(&sb, "Terminal", arr.Terminal)
		writeOptional(&sb, "Gate", arr.Gate)
		if line := timeLine("Arrival", arr); line != "" {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		writeOptional(&sb, "Baggage", arr.BaggageBelt)
		sb.WriteString("\n")
	}

	var footer strings.Builder
	if record.Aircraft != nil && record.Aircraft.Model != "" {
		writeOptional(&footer, "Aircraft", record.Aircraft.Model)
	}
	if record.IsCargo {
		footer.WriteString("📦 Cargo flight\n")
	}
	if record.Airline != nil && record.Airline.Name != "" {
		writeOptional(&footer, "Airline", record.Airline.Name)
	}
	if record.LastUpdatedUTC != "" {
		writeOptional(&footer, "Last updated", updatedString(record.LastUpdatedUTC))
	}
	if footer.Len() > 0 {
		sb.WriteString(reportSeparator)
		sb.WriteString("\n")
		sb.WriteString(footer.String())
	}

	out := blankRunRegex.ReplaceAllString(sb.String(), "\n\n")
	return strings.TrimSpace(out), false
}

// headerLine renders "{code} {dep}→{arr} {HH:MM} ({dd.mm.yyyy})"
func headerLine(record *entity.FlightRecord) string {
	parts := []string{record.Number}
	if route := routeString(record); route != "" {
		parts = append(parts, route)
	}
	if current := record.Departure.CurrentTime(); current != nil {
		if t, ok := parseFlightTime(current); ok {
			parts = append(parts, fmt.Sprintf("%s (%s)", t.Format(clockLayout), t.Format(dateLayout)))
		} else {
			parts = append(parts, clockString(current))
		}
	}
	return strings.Join(parts, " ")
}

func routeString(record *entity.FlightRecord) string {
	dep, arr := record.Departure.IATA(), record.Arrival.IATA()
	if dep == "" || arr == "" {
		return ""
	}
	return dep + "→" + arr
}

// gateLine augments the gate with boarding information depending on status
func gateLine(dep *entity.FlightLeg, status entity.FlightStatus) string {
	line := "Gate: " + dep.Gate
	switch status {
	case entity.StatusCheckIn:
		if scheduled, ok := parseFlightTime(dep.ScheduledTime); ok {
			line += fmt.Sprintf(" (boarding at %s)", scheduled.Add(-boardingLead).Format(clockLayout))
		}
	case entity.StatusBoarding:
		line += " (boarding in progress)"
	}
	return line
}

// timeLine renders "{label}: {current}" with "(was {scheduled})" when the
// resolved time differs from the schedule; "" when no time resolves.
func timeLine(label string, leg *entity.FlightLeg) string {
	current := leg.CurrentTime()
	if current == nil {
		return ""
	}
	line := fmt.Sprintf("%s: %s", label, clockString(current))
	if current != leg.ScheduledTime && leg.ScheduledTime.Present() {
		if scheduled := clockString(leg.ScheduledTime); scheduled != clockString(current) {
			line += fmt.Sprintf(" (was %s)", scheduled)
		}
	}
	return line
}

func hasAirport(leg *entity.FlightLeg) bool {
	return leg.IATA() != "" || leg.AirportName() != ""
}

func iataOrDash(leg *entity.FlightLeg) string {
	if iata := leg.IATA(); iata != "" {
		return iata
	}
	return "--"
}

func writeOptional(sb *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	sb.WriteString(fmt.Sprintf("%s: %s\n", label, value))
}

func minimalReport(record *entity.FlightRecord) string {
	return fmt.Sprintf("%s - %s", record.Number, record.StatusOrUnknown())
}
