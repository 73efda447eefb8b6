package entity

// FlightStatus is the provider's status for a flight. Values outside the
// known set are kept verbatim.
type FlightStatus string

const (
	StatusUnknown           FlightStatus = "Unknown"
	StatusExpected          FlightStatus = "Expected"
	StatusEnRoute           FlightStatus = "EnRoute"
	StatusCheckIn           FlightStatus = "CheckIn"
	StatusBoarding          FlightStatus = "Boarding"
	StatusGateClosed        FlightStatus = "GateClosed"
	StatusDeparted          FlightStatus = "Departed"
	StatusDelayed           FlightStatus = "Delayed"
	StatusApproaching       FlightStatus = "Approaching"
	StatusArrived           FlightStatus = "Arrived"
	StatusCanceled          FlightStatus = "Canceled"
	StatusDiverted          FlightStatus = "Diverted"
	StatusCanceledUncertain FlightStatus = "CanceledUncertain"
)

// KnownStatuses lists every status the service presents specifically
var KnownStatuses = []FlightStatus{
	StatusUnknown,
	StatusExpected,
	StatusEnRoute,
	StatusCheckIn,
	StatusBoarding,
	StatusGateClosed,
	StatusDeparted,
	StatusDelayed,
	StatusApproaching,
	StatusArrived,
	StatusCanceled,
	StatusDiverted,
	StatusCanceledUncertain,
}

// FlightTime is one timestamp variant in both representations as sent by
// the provider, e.g. UTC "2025-07-09 18:50Z" and Local "2025-07-09 21:50+03:00".
type FlightTime struct {
	UTC   string `json:"utc,omitempty"`
	Local string `json:"local,omitempty"`
}

// Present reports whether t carries at least one representation
func (t *FlightTime) Present() bool {
	return t != nil && (t.UTC != "" || t.Local != "")
}

type Airport struct {
	IATA         string `json:"iata,omitempty"`
	ICAO         string `json:"icao,omitempty"`
	Name         string `json:"name,omitempty"`
	ShortName    string `json:"shortName,omitempty"`
	Municipality string `json:"municipalityName,omitempty"`
}

// FlightLeg is the departure or arrival side of a flight
type FlightLeg struct {
	Airport       *Airport    `json:"airport,omitempty"`
	ScheduledTime *FlightTime `json:"scheduledTime,omitempty"`
	RevisedTime   *FlightTime `json:"revisedTime,omitempty"`
	PredictedTime *FlightTime `json:"predictedTime,omitempty"`
	ActualTime    *FlightTime `json:"actualTime,omitempty"`
	Terminal      string      `json:"terminal,omitempty"`
	Gate          string      `json:"gate,omitempty"`
	CheckInDesk   string      `json:"checkInDesk,omitempty"`
	BaggageBelt   string      `json:"baggageBelt,omitempty"`
}

// IATA returns the airport code or ""
func (l *FlightLeg) IATA() string {
	if l == nil || l.Airport == nil {
		return ""
	}
	return l.Airport.IATA
}

// AirportName returns the airport name, falling back to its short name
func (l *FlightLeg) AirportName() string {
	if l == nil || l.Airport == nil {
		return ""
	}
	if l.Airport.Name != "" {
		return l.Airport.Name
	}
	return l.Airport.ShortName
}

// CurrentTime resolves the most authoritative timestamp:
// actual, then revised, then predicted, then scheduled. Nil if none is present.
func (l *FlightLeg) CurrentTime() *FlightTime {
	if l == nil {
		return nil
	}
	for _, t := range []*FlightTime{l.ActualTime, l.RevisedTime, l.PredictedTime, l.ScheduledTime} {
		if t.Present() {
			return t
		}
	}
	return nil
}

type Aircraft struct {
	Model string `json:"model,omitempty"`
	Reg   string `json:"reg,omitempty"`
}

// Carrier is the operating airline as reported on a flight record
type Carrier struct {
	Name string `json:"name,omitempty"`
	IATA string `json:"iata,omitempty"`
	ICAO string `json:"icao,omitempty"`
}

// FlightRecord is one provider status snapshot for a flight/date pair
type FlightRecord struct {
	Number              string       `json:"number"`
	Status              FlightStatus `json:"status"`
	Departure           *FlightLeg   `json:"departure,omitempty"`
	Arrival             *FlightLeg   `json:"arrival,omitempty"`
	Codeshares          []string     `json:"codeshares,omitempty"`
	CodeshareNote       string       `json:"codeshareNote,omitempty"`
	CodeshareStatus     string       `json:"codeshareStatus,omitempty"`
	Aircraft            *Aircraft    `json:"aircraft,omitempty"`
	Airline             *Carrier     `json:"airline,omitempty"`
	NotificationSummary string       `json:"notificationSummary,omitempty"`
	LastUpdatedUTC      string       `json:"lastUpdatedUtc,omitempty"`
	IsCargo             bool         `json:"isCargo,omitempty"`
}

// StatusOrUnknown returns the status, substituting Unknown for an empty one
func (r *FlightRecord) StatusOrUnknown() FlightStatus {
	if r == nil || r.Status == "" {
		return StatusUnknown
	}
	return r.Status
}

// DepartureDate is the local calendar day of the scheduled departure, falling
// back to the current departure time and then to UTC
func (r *FlightRecord) DepartureDate() (Date, bool) {
	if r == nil || r.Departure == nil {
		return Date{}, false
	}
	for _, t := range []*FlightTime{r.Departure.ScheduledTime, r.Departure.CurrentTime()} {
		if !t.Present() {
			continue
		}
		for _, raw := range []string{t.Local, t.UTC} {
			if len(raw) < len(ISODateLayout) {
				continue
			}
			if d, err := ParseISODate(raw[:len(ISODateLayout)]); err == nil {
				return d, true
			}
		}
	}
	return Date{}, false
}
