package utils

import (
	"strings"
	"unicode"
)

// Locale selects the keyword table and message catalog for a conversation
type Locale string

const (
	LocaleEN Locale = "en"
	LocaleRU Locale = "ru"
)

// DefaultLocale is used when the transport does not say otherwise
const DefaultLocale = LocaleEN

// SupportedLocales in lookup order after the requested one
var SupportedLocales = []Locale{LocaleEN, LocaleRU}

// Canonical relative-day keywords, also used in date action tokens
const (
	KeywordYesterday = "yesterday"
	KeywordToday     = "today"
	KeywordTomorrow  = "tomorrow"
)

// RelativeDateKeywords maps a lowercase keyword to its day offset from today
var RelativeDateKeywords = map[Locale]map[string]int{
	LocaleEN: {
		KeywordYesterday: -1,
		KeywordToday:     0,
		KeywordTomorrow:  1,
	},
	LocaleRU: {
		"вчера":   -1,
		"сегодня": 0,
		"завтра":  1,
	},
}

// ParseLocale maps a transport language tag such as "ru-RU" or "EN" onto a
// supported locale, falling back to DefaultLocale.
func ParseLocale(tag string) Locale {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		tag = tag[:i]
	}
	for _, l := range SupportedLocales {
		if string(l) == tag {
			return l
		}
	}
	return DefaultLocale
}

// LookupRelativeKeyword resolves word against the requested locale first and
// then every other supported locale.
func LookupRelativeKeyword(word string, locale Locale) (int, bool) {
	word = strings.ToLower(strings.TrimSpace(word))
	if table, ok := RelativeDateKeywords[locale]; ok {
		if offset, ok := table[word]; ok {
			return offset, true
		}
	}
	for _, l := range SupportedLocales {
		if l == locale {
			continue
		}
		if offset, ok := RelativeDateKeywords[l][word]; ok {
			return offset, true
		}
	}
	return 0, false
}

// cyrillicShare is the fraction of Cyrillic letters above which text reads as Russian
const cyrillicShare = 0.3

var russianWords = map[string]bool{
	"рейс": true, "аэропорт": true, "время": true, "вылет": true, "прилет": true,
	"номер": true, "дата": true, "помощь": true, "найти": true, "поиск": true,
	"статус": true, "информация": true,
}

// DetectLocale guesses the locale from message text. It only answers when the
// text is recognisably Russian; Latin text such as "SU100" says nothing about
// the user's language, so ok is false and the caller keeps its default.
func DetectLocale(text string) (Locale, bool) {
	letters, cyrillic := 0, 0
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.Is(unicode.Cyrillic, r) {
			cyrillic++
		}
	}
	if letters > 0 && float64(cyrillic)/float64(letters) > cyrillicShare {
		return LocaleRU, true
	}

	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.TrimRight(word, trailingPunctuation)
		if _, ok := RelativeDateKeywords[LocaleRU][word]; ok || russianWords[word] {
			return LocaleRU, true
		}
	}
	return "", false
}
