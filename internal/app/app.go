package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/VAlux/power-outage-scraper/internal/config"
	"github.com/VAlux/power-outage-scraper/internal/notify"
	"github.com/VAlux/power-outage-scraper/internal/schedule"
	"github.com/VAlux/power-outage-scraper/internal/state"
)

// Renderer produces the rendered markup of the schedule page.
type Renderer interface {
	FetchHTML(ctx context.Context, url string) (string, error)
}

// Calendar materializes or clears one day's outage events. An empty span
// list clears the day.
type Calendar interface {
	ReplaceDayEvents(ctx context.Context, day time.Time, queue string, spans []schedule.Span) (int, error)
}

// App executes sync runs against one source page and one calendar.
type App struct {
	cfg       *config.Config
	loc       *time.Location
	renderer  Renderer
	calendar  Calendar
	notifiers []notify.Notifier
	log       *zap.Logger

	now func() time.Time
}

// New assembles an app from its collaborators.
func New(cfg *config.Config, loc *time.Location, renderer Renderer, calendar Calendar, notifiers []notify.Notifier, log *zap.Logger) *App {
	return &App{
		cfg:       cfg,
		loc:       loc,
		renderer:  renderer,
		calendar:  calendar,
		notifiers: notifiers,
		log:       log,
		now:       time.Now,
	}
}

// Result summarizes what one run changed.
type Result struct {
	Updated int
	Cleared int
	NoOps   int
}

// Run performs one complete sync pass.
//
// State is saved once, after all calendar work for the run has
// succeeded. A run that fails partway leaves the previous state file
// untouched, so the next invocation simply redoes the same changes.
func (a *App) Run(ctx context.Context) (*Result, error) {
	st, err := state.Load(a.cfg.StateFile)
	if err != nil {
		return nil, err
	}

	today := civilDate(a.now().In(a.loc))
	a.log.Info("starting sync run",
		zap.String("source", a.cfg.SourceURL),
		zap.String("queue", a.cfg.OutageQueue),
		zap.String("today", schedule.DayKey(today)),
		zap.Int("known_days", len(st.ByDayFingerprint)))

	markup, err := a.renderer.FetchHTML(ctx, a.cfg.SourceURL)
	if err != nil {
		return nil, fmt.Errorf("fetching rendered page: %w", err)
	}

	snapshots, err := schedule.Parse(markup, a.loc)
	if err != nil {
		if errors.Is(err, schedule.ErrNoBlocksFound) {
			a.log.Info("source shows no schedule, clearing today")
			res := &Result{}
			if err := a.applyClear(ctx, st, today, res); err != nil {
				return nil, err
			}
			if err := a.saveState(st, today); err != nil {
				return nil, err
			}
			return res, nil
		}
		return nil, err
	}

	if a.cfg.LogExtractedEvents {
		a.logExtracted(snapshots)
	}

	decisions, err := schedule.Plan(snapshots, a.cfg.OutageQueue, today, st.ByDayFingerprint)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	for _, d := range decisions {
		switch d.Kind {
		case schedule.DecisionNoOp:
			a.log.Info("no schedule changes for day", zap.String("day", schedule.DayKey(d.Day)))
			res.NoOps++
		case schedule.DecisionClear:
			if err := a.applyClear(ctx, st, d.Day, res); err != nil {
				return nil, err
			}
		case schedule.DecisionUpdate:
			if err := a.applyUpdate(ctx, st, d, res); err != nil {
				return nil, err
			}
		}
	}

	if err := a.saveState(st, today); err != nil {
		return nil, err
	}
	a.log.Info("sync run finished",
		zap.Int("updated", res.Updated),
		zap.Int("cleared", res.Cleared),
		zap.Int("noops", res.NoOps))
	return res, nil
}

func (a *App) applyClear(ctx context.Context, st *state.State, day time.Time, res *Result) error {
	key := schedule.DayKey(day)
	if _, err := a.calendar.ReplaceDayEvents(ctx, day, a.cfg.OutageQueue, nil); err != nil {
		return fmt.Errorf("clearing calendar for %s: %w", key, err)
	}
	st.Drop(key)
	res.Cleared++
	a.log.Info("cleared calendar day", zap.String("day", key))
	return nil
}

func (a *App) applyUpdate(ctx context.Context, st *state.State, d schedule.Decision, res *Result) error {
	key := schedule.DayKey(d.Day)
	spans := schedule.MaterializeRanges(d.Day, d.Ranges)

	created, err := a.calendar.ReplaceDayEvents(ctx, d.Day, d.Queue, spans)
	if err != nil {
		return fmt.Errorf("updating calendar for %s: %w", key, err)
	}
	a.log.Info("rewrote calendar day",
		zap.String("day", key),
		zap.String("queue", d.Queue),
		zap.Int("events", created))

	a.notifyUpdate(ctx, d, spans)

	st.Set(key, d.Fingerprint)
	res.Updated++
	return nil
}

// notifyUpdate fans the change out to every configured channel. Delivery
// problems are logged and swallowed; the calendar is already correct and
// the run must not fail over a missed message.
func (a *App) notifyUpdate(ctx context.Context, d schedule.Decision, spans []schedule.Span) {
	if len(a.notifiers) == 0 {
		return
	}
	update := notify.Update{
		Day:       d.Day,
		Queue:     d.Queue,
		UpdatedAt: d.UpdatedAt,
		Spans:     spans,
	}
	for _, n := range a.notifiers {
		if err := n.NotifyUpdate(ctx, update); err != nil {
			a.log.Error("notification failed", zap.Error(err))
			continue
		}
	}
}

func (a *App) saveState(st *state.State, today time.Time) error {
	st.Prune(schedule.DayKey(today), schedule.DayKey(today.AddDate(0, 0, 1)))
	if err := state.Save(a.cfg.StateFile, st); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

func (a *App) logExtracted(snapshots []*schedule.Snapshot) {
	for _, snap := range snapshots {
		var windows []string
		for _, line := range snap.Lines {
			label := line.Queue
			if label == "" {
				label = "?"
			}
			for _, r := range line.Ranges {
				windows = append(windows, fmt.Sprintf("queue %s: %s", label, r))
			}
		}
		a.log.Info("extracted schedule",
			zap.String("day", snap.DayKey()),
			zap.Time("updated_at", snap.UpdatedAt),
			zap.Strings("windows", windows))
	}
}

func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
