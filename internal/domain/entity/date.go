package entity

import (
	"fmt"
	"time"
)

// ISODateLayout is the wire format of a calendar date
const ISODateLayout = "2006-01-02"

// Date is a calendar day without time of day or zone
type Date struct {
	Year  int        `json:"year" bson:"year"`
	Month time.Month `json:"month" bson:"month"`
	Day   int        `json:"day" bson:"day"`
}

// DateOf returns the calendar day of t in t's own location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// NewDate validates the components and rejects days that do not exist,
// e.g. 31.02.2025 is an error, not 03.03.2025.
func NewDate(year int, month time.Month, day int) (Date, error) {
	if month < time.January || month > time.December {
		return Date{}, fmt.Errorf("invalid month %d", month)
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}, fmt.Errorf("invalid date %04d-%02d-%02d", year, month, day)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// ParseISODate parses YYYY-MM-DD
func ParseISODate(s string) (Date, error) {
	t, err := time.Parse(ISODateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("failed to parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// IsZero reports whether d is unset
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// AddDays shifts d by n calendar days
func (d Date) AddDays(n int) Date {
	return DateOf(d.time().AddDate(0, 0, n))
}

// String formats d as YYYY-MM-DD
func (d Date) String() string {
	return d.time().Format(ISODateLayout)
}

// Format formats d with a time layout
func (d Date) Format(layout string) string {
	return d.time().Format(layout)
}

func (d Date) time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}
