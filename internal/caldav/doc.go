// Package caldav talks to the CalDAV server that hosts the outage
// calendar. It implements just enough of RFC 4791 for the sync's one
// high-level operation: replacing a day's outage events with a new set.
package caldav
