package schedule

import (
	"errors"
	"fmt"
)

// Parse failures form a closed set so callers can branch with errors.Is
// and errors.As instead of matching message text.
var (
	// ErrNoBlocksFound means the rendered page contained no schedule
	// sections at all. Callers treat it as "the source currently shows
	// no schedule" and clear today's events instead of failing the run.
	ErrNoBlocksFound = errors.New("no schedule blocks found on page")

	// ErrNoSnapshotsProduced means schedule sections were present but
	// none carried a recognizable date header.
	ErrNoSnapshotsProduced = errors.New("no usable snapshots in schedule blocks")

	// ErrEmptyQueueLines means a dated block contained no lines with
	// outage time ranges.
	ErrEmptyQueueLines = errors.New("no outage time ranges in schedule block")
)

// QueueNotFoundError reports that the requested queue matched no line of
// a snapshot.
type QueueNotFoundError struct {
	Queue string
}

func (e *QueueNotFoundError) Error() string {
	return fmt.Sprintf("no outage ranges found for queue %q", e.Queue)
}
