// Package cli implements the command-line interface for power-outage-scraper.
//
// The cli package provides the Cobra-based CLI with a one-shot sync command
// and a watch subcommand that reruns the sync on a cron schedule. It wires
// the config, render, schedule, caldav and notify packages into a running
// application and maps run outcomes to process exit codes.
package cli
