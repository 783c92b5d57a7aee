package notify

import (
	"context"
	"time"

	"github.com/VAlux/power-outage-scraper/internal/schedule"
)

// Update describes one applied schedule change.
type Update struct {
	// Day is the civil date the change applies to.
	Day time.Time
	// Queue is the outage queue the events were created for.
	Queue string
	// UpdatedAt is the instant the source last changed the schedule.
	UpdatedAt time.Time
	// Spans are the concrete outage windows now on the calendar.
	Spans []schedule.Span
}

// Notifier delivers a schedule-update notification over one channel.
type Notifier interface {
	// NotifyUpdate announces that the calendar was rewritten for one day.
	NotifyUpdate(ctx context.Context, update Update) error
}
