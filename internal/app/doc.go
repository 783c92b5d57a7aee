// Package app wires one synchronization run: render the source page,
// parse it into schedule snapshots, plan per-day actions against the
// persisted state, and apply them to the calendar and notifiers.
package app
