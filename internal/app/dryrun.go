package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/VAlux/power-outage-scraper/internal/schedule"
)

// DryRunCalendar logs the calendar changes a run would make without
// touching any server.
type DryRunCalendar struct {
	log *zap.Logger
}

// NewDryRunCalendar creates a calendar stand-in for dry runs.
func NewDryRunCalendar(log *zap.Logger) *DryRunCalendar {
	return &DryRunCalendar{log: log}
}

// ReplaceDayEvents logs the would-be change and reports every span as
// created.
func (c *DryRunCalendar) ReplaceDayEvents(_ context.Context, day time.Time, queue string, spans []schedule.Span) (int, error) {
	windows := make([]string, 0, len(spans))
	for _, span := range spans {
		windows = append(windows, span.Start.Format("15:04")+"-"+span.End.Format("15:04"))
	}
	c.log.Info("dry-run calendar change",
		zap.String("day", schedule.DayKey(day)),
		zap.String("queue", queue),
		zap.Strings("windows", windows))
	return len(spans), nil
}
