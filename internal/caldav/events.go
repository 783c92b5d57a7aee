package caldav

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/VAlux/power-outage-scraper/internal/calendar"
	"github.com/VAlux/power-outage-scraper/internal/schedule"
)

// ReplaceDayEvents swaps out every outage event this client owns on the
// given day for one event per span. An empty span list clears the day.
// It returns the number of events created.
//
// Ownership is recognized by the event title, so events created by hand
// or by other tools survive a replace.
func (c *Client) ReplaceDayEvents(ctx context.Context, day time.Time, queue string, spans []schedule.Span) (int, error) {
	calURL, err := c.calendarCollection(ctx)
	if err != nil {
		return 0, err
	}

	title := calendar.EventTitle(c.eventPrefix, queue)
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	objects, err := c.queryEvents(ctx, calURL, dayStart, dayEnd)
	if err != nil {
		return 0, fmt.Errorf("querying events for %s: %w", schedule.DayKey(day), err)
	}

	removed := 0
	for _, obj := range objects {
		if !strings.Contains(obj.Data, title) {
			continue
		}
		target, err := c.resolve(obj.Href)
		if err != nil {
			return 0, err
		}
		if err := c.deleteObject(ctx, target); err != nil {
			return 0, fmt.Errorf("deleting stale event: %w", err)
		}
		removed++
	}

	created := 0
	for _, span := range spans {
		uid := calendar.EventUID(queue, span)
		target := strings.TrimRight(calURL, "/") + "/" + uid + ".ics"
		payload := calendar.GenerateICS(uid, title, queue, span, time.Now().UTC())
		if err := c.putObject(ctx, target, payload); err != nil {
			return created, fmt.Errorf("creating event %s: %w", uid, err)
		}
		created++
	}

	c.log.Debug("replaced day events",
		zap.String("day", schedule.DayKey(day)),
		zap.String("queue", queue),
		zap.Int("removed", removed),
		zap.Int("created", created))
	return created, nil
}
