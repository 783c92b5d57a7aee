// Package notify delivers schedule-change notifications. Every channel
// implements the Notifier interface; delivery failures are reported but
// never fail a sync run.
package notify
