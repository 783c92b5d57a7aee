package schedule

import (
	"regexp"
	"strings"
	"time"
)

// Updated-at candidates, in priority order: a date followed by a time, a
// time followed by a date, then a bare time of day. Dates are day-first
// with ".", "/" or "-" separators and 2- or 4-digit years.
var (
	dateTimeRe = regexp.MustCompile(`\b\d{1,2}[./-]\d{1,2}[./-]\d{2,4}\s+\d{1,2}:\d{2}\b`)
	timeDateRe = regexp.MustCompile(`\b\d{1,2}:\d{2}\s+\d{1,2}[./-]\d{1,2}[./-]\d{2,4}\b`)
	bareTimeRe = regexp.MustCompile(`\b\d{1,2}:\d{2}\b`)
)

var (
	dateTimeLayouts = []string{"2.1.2006 15:04", "2.1.06 15:04"}
	timeDateLayouts = []string{"15:04 2.1.2006", "15:04 2.1.06"}
	dateLayouts     = []string{"2.1.2006", "2.1.06"}
)

// ResolveUpdatedAt recovers the instant a schedule block was last changed
// from the block's full text. Candidates are tried best-first: combined
// date+time tokens in either order, then a bare time of day anchored on
// the fallback date, and finally midnight of the fallback date. The
// resolution is total; unparsable candidates are skipped, never fatal.
func ResolveUpdatedAt(text string, fallback time.Time) time.Time {
	loc := fallback.Location()

	for _, token := range dateTimeRe.FindAllString(text, -1) {
		if t, ok := parseDayFirst(token, dateTimeLayouts, loc); ok {
			return t
		}
	}
	for _, token := range timeDateRe.FindAllString(text, -1) {
		if t, ok := parseDayFirst(token, timeDateLayouts, loc); ok {
			return t
		}
	}
	if token := bareTimeRe.FindString(text); token != "" {
		if tod, err := ParseTimeOfDay(token); err == nil {
			return tod.At(fallback)
		}
	}
	return time.Date(fallback.Year(), fallback.Month(), fallback.Day(), 0, 0, 0, 0, loc)
}

// parseDayFirst normalizes a token's date separators and whitespace, then
// tries each layout in loc. Layouts are day-first to match how the page
// writes dates.
func parseDayFirst(token string, layouts []string, loc *time.Location) (time.Time, bool) {
	norm := strings.Map(func(r rune) rune {
		if r == '/' || r == '-' {
			return '.'
		}
		return r
	}, token)
	norm = strings.Join(strings.Fields(norm), " ")

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, norm, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
