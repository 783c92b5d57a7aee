package schedule

import (
	"fmt"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time within a single day.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// String renders the time as zero-padded "HH:MM".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Before reports whether t is strictly earlier in the day than u.
func (t TimeOfDay) Before(u TimeOfDay) bool {
	if t.Hour != u.Hour {
		return t.Hour < u.Hour
	}
	return t.Minute < u.Minute
}

// At anchors the time of day on the civil date of day, in day's location.
func (t TimeOfDay) At(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, 0, 0, day.Location())
}

// Range is one outage window within a single day. End may be equal to or
// earlier than Start; whether that means an overnight window is decided
// when the range is anchored to concrete instants.
type Range struct {
	Start TimeOfDay
	End   TimeOfDay
}

func (r Range) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// QueueLine is one line of a schedule block that carried at least one
// outage range.
type QueueLine struct {
	// Raw is the line text exactly as it appeared on the page.
	Raw string
	// Queue is the normalized queue label, or "" when the line had none.
	Queue string
	// Ranges are the outage windows in order of appearance.
	Ranges []Range
}

// Snapshot is the parsed form of one schedule block for one day.
type Snapshot struct {
	// Date is the civil date the block applies to, at midnight in the
	// parse location.
	Date time.Time
	// UpdatedAt is the best-effort instant the source last changed the
	// block.
	UpdatedAt time.Time
	// Lines holds every line that carried outage ranges, in page order.
	Lines []QueueLine
	// Fingerprint is the content digest used for change detection.
	Fingerprint string
}

// DayKey returns the snapshot's date as a YYYY-MM-DD state key.
func (s *Snapshot) DayKey() string {
	return DayKey(s.Date)
}

// DayKey formats a civil date as the YYYY-MM-DD key used throughout the
// sync state.
func DayKey(day time.Time) string {
	return day.Format(time.DateOnly)
}

// BuildSnapshot turns one extracted block into a snapshot. The updated-at
// instant is resolved from the block's full text with the block's own
// date as fallback; lines without outage ranges are dropped. A block
// whose lines carry no ranges at all yields ErrEmptyQueueLines.
func BuildSnapshot(block Block) (*Snapshot, error) {
	updatedAt := ResolveUpdatedAt(strings.Join(block.Lines, "\n"), block.Date)

	var lines []QueueLine
	for _, raw := range block.Lines {
		tokens := ParseLineTokens(raw)
		if len(tokens.Ranges) == 0 {
			continue
		}
		lines = append(lines, QueueLine{Raw: raw, Queue: tokens.Queue, Ranges: tokens.Ranges})
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("block for %s: %w", DayKey(block.Date), ErrEmptyQueueLines)
	}

	return &Snapshot{
		Date:        block.Date,
		UpdatedAt:   updatedAt,
		Lines:       lines,
		Fingerprint: Fingerprint(block.Date, updatedAt, rawLines(lines)),
	}, nil
}

// Parse extracts every usable schedule snapshot from rendered page markup.
func Parse(html string, loc *time.Location) ([]*Snapshot, error) {
	blocks, err := ExtractBlocks(html, loc)
	if err != nil {
		return nil, err
	}

	snapshots := make([]*Snapshot, 0, len(blocks))
	for _, block := range blocks {
		snap, err := BuildSnapshot(block)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}

func rawLines(lines []QueueLine) []string {
	raw := make([]string, len(lines))
	for i, line := range lines {
		raw[i] = line.Raw
	}
	return raw
}
