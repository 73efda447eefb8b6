package entity

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// ErrMalformedFlightPayload is returned when a payload holds no flight object
var ErrMalformedFlightPayload = errors.New("malformed flight payload")

// DecodeFlightRecords reads a provider payload that is either one flight
// object or an array of them. Fields with unexpected types are dropped
// instead of failing the whole record; array elements that are not objects
// are skipped.
func DecodeFlightRecords(raw []byte) ([]FlightRecord, error) {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Join(ErrMalformedFlightPayload, err)
	}

	switch v := doc.(type) {
	case map[string]interface{}:
		return []FlightRecord{flightFromMap(v)}, nil
	case []interface{}:
		records := make([]FlightRecord, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]interface{}); ok {
				records = append(records, flightFromMap(m))
			}
		}
		return records, nil
	default:
		return nil, ErrMalformedFlightPayload
	}
}

func flightFromMap(m map[string]interface{}) FlightRecord {
	number := str(m, "number")
	if number == "" {
		number = str(m, "flightNumber")
	}

	record := FlightRecord{
		Number:              strings.TrimSpace(number),
		Status:              FlightStatus(str(m, "status")),
		Departure:           legFromMap(obj(m, "departure")),
		Arrival:             legFromMap(obj(m, "arrival")),
		Codeshares:          strList(m, "codeshares"),
		CodeshareNote:       str(m, "codeshareNote"),
		CodeshareStatus:     str(m, "codeshareStatus"),
		NotificationSummary: str(m, "notificationSummary"),
		LastUpdatedUTC:      str(m, "lastUpdatedUtc"),
	}
	if b, ok := m["isCargo"].(bool); ok {
		record.IsCargo = b
	}
	if a := obj(m, "aircraft"); a != nil {
		record.Aircraft = &Aircraft{Model: str(a, "model"), Reg: str(a, "reg")}
	}
	if a := obj(m, "airline"); a != nil {
		record.Airline = &Carrier{Name: str(a, "name"), IATA: str(a, "iata"), ICAO: str(a, "icao")}
	}
	return record
}

func legFromMap(m map[string]interface{}) *FlightLeg {
	if m == nil {
		return nil
	}
	leg := &FlightLeg{
		ScheduledTime: timeFromMap(m, "scheduledTime"),
		RevisedTime:   timeFromMap(m, "revisedTime"),
		PredictedTime: timeFromMap(m, "predictedTime"),
		ActualTime:    timeFromMap(m, "actualTime"),
		Terminal:      str(m, "terminal"),
		Gate:          str(m, "gate"),
		CheckInDesk:   str(m, "checkInDesk"),
		BaggageBelt:   str(m, "baggageBelt"),
	}
	if a := obj(m, "airport"); a != nil {
		leg.Airport = &Airport{
			IATA:         str(a, "iata"),
			ICAO:         str(a, "icao"),
			Name:         str(a, "name"),
			ShortName:    str(a, "shortName"),
			Municipality: str(a, "municipalityName"),
		}
	}
	return leg
}

// timeFromMap accepts both the nested {"utc","local"} shape and the flat
// "<key>Utc"/"<key>Local" shape used by webhook notifications.
func timeFromMap(m map[string]interface{}, key string) *FlightTime {
	t := &FlightTime{}
	if nested := obj(m, key); nested != nil {
		t.UTC = str(nested, "utc")
		t.Local = str(nested, "local")
	}
	if t.UTC == "" {
		t.UTC = str(m, key+"Utc")
	}
	if t.Local == "" {
		t.Local = str(m, key+"Local")
	}
	if !t.Present() {
		return nil
	}
	return t
}

func obj(m map[string]interface{}, key string) map[string]interface{} {
	v, _ := m[key].(map[string]interface{})
	return v
}

func str(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func strList(m map[string]interface{}, key string) []string {
	items, ok := m[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
