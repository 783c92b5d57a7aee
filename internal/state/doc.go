// Package state persists the per-day schedule fingerprints between sync
// runs.
package state
