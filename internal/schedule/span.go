package schedule

import "time"

// Span is a Range anchored to concrete instants on a calendar day.
type Span struct {
	Start time.Time
	End   time.Time
}

// MaterializeRanges anchors each range on the given civil day, in the
// day's location. A range whose end does not come after its start (the
// page's 24:00 sentinel, or an overnight window) rolls its end over to
// the next day.
func MaterializeRanges(day time.Time, ranges []Range) []Span {
	spans := make([]Span, 0, len(ranges))
	for _, r := range ranges {
		start := r.Start.At(day)
		end := r.End.At(day)
		if !end.After(start) {
			end = end.AddDate(0, 0, 1)
		}
		spans = append(spans, Span{Start: start, End: end})
	}
	return spans
}
