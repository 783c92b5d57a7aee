package schedule

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// The page's schedule grammar is fixed: time ranges are written as
// "HH:MM-HH:MM" or "з HH:MM до HH:MM", and queue labels as "Черга N",
// "Група N" or "Queue N" with optional ":" or "#" before the number.
var (
	timeRangeRe  = regexp.MustCompile(`(?i)(?:з\s*)?(\d{1,2}:\d{2})\s*(?:-|до)\s*(\d{1,2}:\d{2})`)
	queueLabelRe = regexp.MustCompile(`(?i)(?:група|черг[аи]|queue)\s*[:#]?\s*([\d.]+)`)
)

// LineTokens holds everything the grammar recognized in one line.
type LineTokens struct {
	// Queue is the normalized queue label, or "" when the line had none.
	Queue string
	// Ranges are the recognized outage windows in order of appearance.
	Ranges []Range
}

// ParseLineTokens extracts all outage time ranges and an optional queue
// label from a single line of block text. A line without ranges is not an
// error; callers simply skip it.
func ParseLineTokens(line string) LineTokens {
	var tokens LineTokens

	for _, m := range timeRangeRe.FindAllStringSubmatch(line, -1) {
		start, err := ParseTimeOfDay(m[1])
		if err != nil {
			continue
		}
		end, err := ParseTimeOfDay(m[2])
		if err != nil {
			continue
		}
		tokens.Ranges = append(tokens.Ranges, Range{Start: start, End: end})
	}

	if m := queueLabelRe.FindStringSubmatch(line); m != nil {
		tokens.Queue = NormalizeQueue(m[1])
	}
	return tokens
}

// ParseTimeOfDay parses an "HH:MM" token. The literal "24:00" is the
// page's end-of-day sentinel and parses to midnight; whether that rolls
// over to the next day is decided when ranges are anchored to a date.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	if s == "24:00" {
		return TimeOfDay{}, nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("parsing time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// NormalizeQueue trims surrounding whitespace and the punctuation the
// page hangs off queue labels, so "1.", " 1:" and "1" all compare equal.
func NormalizeQueue(s string) string {
	return strings.Trim(strings.TrimSpace(s), ".,;: ")
}
