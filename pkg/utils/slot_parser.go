package utils

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"flightstatus-service/internal/domain/entity"
)

var (
	absoluteDateRegex = regexp.MustCompile(`^(\d{1,2})[./-](\d{1,2})[./-](\d{4}|\d{2})$`)
	flightCodeRegex   = regexp.MustCompile(`^([a-z0-9]{2,3})[ -]?(\d{1,4})([a-z]?)$`)
	codePrefixRegex   = regexp.MustCompile(`^[a-z0-9]{2,3}$`)
	codeNumberRegex   = regexp.MustCompile(`^\d{1,4}[a-z]?$`)
	letterRegex       = regexp.MustCompile(`[a-z]`)
	whitespaceRegex   = regexp.MustCompile(`\s+`)
	tokenSplitRegex   = regexp.MustCompile(`[\s,;!?]+`)
)

const trailingPunctuation = ".,;:!?"

// ParseSlot classifies one whole input as a date, a flight code or neither.
// Relative keywords resolve against the calendar day of now. Dates are tried
// before flight codes, so input matching both reads as a date.
func ParseSlot(raw string, locale Locale, now time.Time) entity.SlotValue {
	text := normalizeInput(raw)
	if text == "" {
		return entity.UnrecognizedSlot()
	}

	if d, matched := parseDate(text, locale, now); matched {
		if d == nil {
			return entity.UnrecognizedSlot()
		}
		return entity.NewDateSlot(*d)
	}

	if code, ok := NormalizeFlightCode(text); ok {
		return entity.NewFlightCodeSlot(code)
	}

	return entity.UnrecognizedSlot()
}

// ParseMessage scans a free-text message and keeps the first date and the
// flight code it finds. Single-token codes ("SU100") win over codes split
// across two tokens; a split code is only joined when its prefix was typed
// in upper case ("SU 100"), so phrases like "at 10" stay plain words. Two or
// more different codes leave FlightCode empty and list them in
// AmbiguousCodes.
func ParseMessage(raw string, locale Locale, now time.Time) ParsedMessage {
	var result ParsedMessage

	text := normalizeInput(raw)
	if text == "" {
		return result
	}

	// the whole text first, so "su 100" or a lone keyword behave as in ParseSlot
	switch slot := ParseSlot(text, locale, now); slot.Kind {
	case entity.SlotDate:
		d := slot.Date
		result.Date = &d
		return result
	case entity.SlotFlightCode:
		result.FlightCode = slot.FlightCode
		return result
	}

	rawTokens := tokenSplitRegex.Split(strings.TrimSpace(raw), -1)
	tokens := make([]string, len(rawTokens))
	dateTokens := make([]bool, len(rawTokens))
	for i, t := range rawTokens {
		rawTokens[i] = strings.TrimRight(t, trailingPunctuation)
		tokens[i] = strings.ToLower(rawTokens[i])
	}

	var single []string
	for i, token := range tokens {
		if token == "" {
			continue
		}
		if d, matched := parseDate(token, locale, now); matched {
			dateTokens[i] = true
			if d == nil {
				result.InvalidDate = true
			} else if result.Date == nil {
				result.Date = d
			}
			continue
		}
		if code, ok := NormalizeFlightCode(token); ok {
			single = appendUnique(single, code)
		}
	}

	candidates := single
	if len(candidates) == 0 {
		for i := 0; i+1 < len(tokens); i++ {
			if dateTokens[i] || dateTokens[i+1] || !isUpperCodePrefix(rawTokens[i]) {
				continue
			}
			if !codeNumberRegex.MatchString(tokens[i+1]) {
				continue
			}
			if code, ok := NormalizeFlightCode(tokens[i] + tokens[i+1]); ok {
				candidates = appendUnique(candidates, code)
				i++
			}
		}
	}

	switch len(candidates) {
	case 0:
	case 1:
		result.FlightCode = candidates[0]
	default:
		result.AmbiguousCodes = candidates
	}

	if result.Date != nil {
		result.InvalidDate = false
	}
	return result
}

// NormalizeFlightCode validates a flight code and returns it uppercased with
// separators removed, e.g. "su 1234" becomes "SU1234".
func NormalizeFlightCode(raw string) (string, bool) {
	text := normalizeInput(raw)
	m := flightCodeRegex.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	if !letterRegex.MatchString(m[1]) {
		return "", false
	}
	return strings.ToUpper(m[1] + m[2] + m[3]), true
}

// ResolveRelativeKeyword turns a keyword such as "tomorrow" into a date
// relative to the calendar day of now.
func ResolveRelativeKeyword(word string, locale Locale, now time.Time) (entity.Date, bool) {
	offset, ok := LookupRelativeKeyword(word, locale)
	if !ok {
		return entity.Date{}, false
	}
	return entity.DateOf(now).AddDays(offset), true
}

// parseDate reports matched=true when token has the shape of a date. A nil
// date with matched=true means the shape was right but the day does not exist.
func parseDate(token string, locale Locale, now time.Time) (*entity.Date, bool) {
	if d, ok := ResolveRelativeKeyword(token, locale, now); ok {
		return &d, true
	}

	m := absoluteDateRegex.FindStringSubmatch(token)
	if m == nil {
		return nil, false
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if len(m[3]) == 2 {
		year += 2000
	}

	d, err := entity.NewDate(year, time.Month(month), day)
	if err != nil {
		return nil, true
	}
	return &d, true
}

// isUpperCodePrefix accepts "SU" or "U6" but not "at" or "In"
func isUpperCodePrefix(raw string) bool {
	lower := strings.ToLower(raw)
	return raw == strings.ToUpper(raw) &&
		codePrefixRegex.MatchString(lower) &&
		letterRegex.MatchString(lower)
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}

func normalizeInput(raw string) string {
	text := strings.ToLower(strings.TrimSpace(raw))
	text = whitespaceRegex.ReplaceAllString(text, " ")
	return strings.TrimRight(text, trailingPunctuation)
}
