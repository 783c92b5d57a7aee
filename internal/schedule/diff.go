package schedule

import (
	"sort"
	"time"
)

// DecisionKind classifies what a planned day needs.
type DecisionKind string

const (
	// DecisionUpdate replaces the day's calendar events with new ranges.
	DecisionUpdate DecisionKind = "update"
	// DecisionNoOp means the stored fingerprint still matches; the day is
	// left untouched.
	DecisionNoOp DecisionKind = "noop"
	// DecisionClear removes the day's calendar events because the source
	// no longer shows a usable schedule for it.
	DecisionClear DecisionKind = "clear"
)

// Decision is one planned action for one day.
type Decision struct {
	Kind  DecisionKind
	Day   time.Time
	Queue string

	// Ranges, UpdatedAt and Fingerprint are set on updates only:
	// the ranges to materialize, the source's last-change instant, and
	// the digest to persist once the update is applied.
	Ranges      []Range
	UpdatedAt   time.Time
	Fingerprint string
}

// Plan compares parsed snapshots against the fingerprints persisted by
// the previous run and decides, per day, whether to update, clear or do
// nothing.
//
// Only today and tomorrow (relative to today's civil date) are
// considered. Multiple snapshots for one day collapse to the one with
// the greatest UpdatedAt; on an exact tie the later-encountered snapshot
// wins. A horizon with nothing for today produces a Clear for today, so
// a schedule the source withdrew also disappears from the calendar.
func Plan(snapshots []*Snapshot, queue string, today time.Time, prior map[string]string) ([]Decision, error) {
	todayKey := DayKey(today)
	tomorrowKey := DayKey(today.AddDate(0, 0, 1))

	var horizon []*Snapshot
	for _, snap := range snapshots {
		if key := snap.DayKey(); key == todayKey || key == tomorrowKey {
			horizon = append(horizon, snap)
		}
	}

	if len(horizon) == 0 {
		return []Decision{{Kind: DecisionClear, Day: today, Queue: queue}}, nil
	}

	latest := make(map[string]*Snapshot)
	for _, snap := range horizon {
		key := snap.DayKey()
		if prev, ok := latest[key]; !ok || !snap.UpdatedAt.Before(prev.UpdatedAt) {
			latest[key] = snap
		}
	}

	var decisions []Decision
	if _, ok := latest[todayKey]; !ok {
		decisions = append(decisions, Decision{Kind: DecisionClear, Day: today, Queue: queue})
	}

	for _, key := range sortedKeys(latest) {
		snap := latest[key]
		if prior[key] == snap.Fingerprint {
			decisions = append(decisions, Decision{Kind: DecisionNoOp, Day: snap.Date, Queue: queue})
			continue
		}

		ranges, err := PickQueueRanges(snap, queue)
		if err != nil {
			return nil, err
		}
		decisions = append(decisions, Decision{
			Kind:        DecisionUpdate,
			Day:         snap.Date,
			Queue:       queue,
			Ranges:      ranges,
			UpdatedAt:   snap.UpdatedAt,
			Fingerprint: snap.Fingerprint,
		})
	}
	return decisions, nil
}

func sortedKeys(m map[string]*Snapshot) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
