package schedule

import "strconv"

// PickQueueRanges returns the outage ranges a snapshot holds for the
// requested queue.
//
// Lines whose normalized label equals the normalized request are taken in
// page order and their ranges concatenated. When no line carries a label
// and the raw request is purely numeric, the request falls back to a
// 1-based position in the block's line order. Anything else yields a
// QueueNotFoundError.
func PickQueueRanges(snap *Snapshot, queue string) ([]Range, error) {
	target := NormalizeQueue(queue)

	var selected []QueueLine
	for _, line := range snap.Lines {
		if line.Queue != "" && line.Queue == target {
			selected = append(selected, line)
		}
	}

	if len(selected) == 0 && unlabeled(snap.Lines) && isDigits(queue) {
		if idx, err := strconv.Atoi(queue); err == nil && idx >= 1 && idx <= len(snap.Lines) {
			selected = []QueueLine{snap.Lines[idx-1]}
		}
	}

	if len(selected) == 0 {
		return nil, &QueueNotFoundError{Queue: queue}
	}

	var ranges []Range
	for _, line := range selected {
		ranges = append(ranges, line.Ranges...)
	}
	return ranges, nil
}

func unlabeled(lines []QueueLine) bool {
	for _, line := range lines {
		if line.Queue != "" {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
