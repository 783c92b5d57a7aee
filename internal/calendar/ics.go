// Package calendar renders outage windows as iCalendar payloads.
package calendar

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/VAlux/power-outage-scraper/internal/schedule"
)

const prodID = "-//power-outage-scraper//EN"

// EventTitle renders the summary shared by every outage event of one
// queue. Events carrying it are considered owned by this tool.
func EventTitle(prefix, queue string) string {
	return fmt.Sprintf("%s (Queue %s)", prefix, queue)
}

// EventUID builds the stable identifier for one outage window, so a
// rewritten schedule replaces its events instead of piling up copies.
func EventUID(queue string, span schedule.Span) string {
	return fmt.Sprintf("poweroutage-%s-%s-%s-%s",
		queue, schedule.DayKey(span.Start), span.Start.Format("1504"), span.End.Format("1504"))
}

// GenerateICS renders one outage window as a calendar object with a
// single VEVENT, the shape CalDAV servers store per resource.
func GenerateICS(uid, title, queue string, span schedule.Span, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetProductId(prodID)
	addEvent(cal, uid, title, queue, span, stamp)
	return cal.Serialize()
}

// GenerateDayICS renders every window of one day into a single calendar,
// suitable for writing an importable .ics file. Returns the empty string
// when there are no windows.
func GenerateDayICS(prefix, queue string, spans []schedule.Span, stamp time.Time) string {
	if len(spans) == 0 {
		return ""
	}

	cal := ics.NewCalendar()
	cal.SetProductId(prodID)
	title := EventTitle(prefix, queue)
	for _, span := range spans {
		addEvent(cal, EventUID(queue, span), title, queue, span, stamp)
	}
	return cal.Serialize()
}

func addEvent(cal *ics.Calendar, uid, title, queue string, span schedule.Span, stamp time.Time) {
	event := cal.AddEvent(uid)
	event.SetDtStampTime(stamp.UTC())
	event.SetStartAt(span.Start)
	event.SetEndAt(span.End)
	event.SetSummary(title)
	event.SetDescription(fmt.Sprintf("Scheduled outage for queue %s", queue))
}
