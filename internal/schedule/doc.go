// Package schedule parses the utility's rendered outage page into per-day
// schedule snapshots and decides, against the previously synced state,
// which days need calendar changes.
package schedule
