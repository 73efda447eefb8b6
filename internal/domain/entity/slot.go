package entity

// SlotKind tags a parsed slot value
type SlotKind int

const (
	SlotUnrecognized SlotKind = iota
	SlotDate
	SlotFlightCode
)

func (k SlotKind) String() string {
	switch k {
	case SlotDate:
		return "date"
	case SlotFlightCode:
		return "flight_code"
	default:
		return "unrecognized"
	}
}

// SlotValue is the classification of one piece of user input
type SlotValue struct {
	Kind       SlotKind
	Date       Date
	FlightCode string
}

func NewDateSlot(d Date) SlotValue {
	return SlotValue{Kind: SlotDate, Date: d}
}

func NewFlightCodeSlot(code string) SlotValue {
	return SlotValue{Kind: SlotFlightCode, FlightCode: code}
}

func UnrecognizedSlot() SlotValue {
	return SlotValue{Kind: SlotUnrecognized}
}
