package notify

import (
	"fmt"
	"strings"

	"github.com/VAlux/power-outage-scraper/internal/schedule"
)

const (
	spanTimeLayout    = "2006-01-02 15:04 MST"
	updatedAtLayout   = "2006-01-02T15:04:05"
	telegramDayLayout = "Mon, 2 Jan 2006"
)

// UpdateSubject renders the one-line summary used as the e-mail subject.
func UpdateSubject(update Update) string {
	return fmt.Sprintf("Power outage schedule updated: %s (Queue %s)",
		schedule.DayKey(update.Day), update.Queue)
}

// UpdateBody renders the plain-text notification body.
func UpdateBody(update Update) string {
	var b strings.Builder
	b.WriteString("Detected schedule update.\n")
	fmt.Fprintf(&b, "Date: %s\n", schedule.DayKey(update.Day))
	fmt.Fprintf(&b, "Queue: %s\n", update.Queue)
	fmt.Fprintf(&b, "Source updated at: %s\n", update.UpdatedAt.Format(updatedAtLayout))
	b.WriteString("\nTime ranges:\n")
	if len(update.Spans) == 0 {
		b.WriteString("- (no ranges)\n")
		return b.String()
	}
	for _, span := range update.Spans {
		fmt.Fprintf(&b, "- %s -> %s\n",
			span.Start.Format(spanTimeLayout), span.End.Format(spanTimeLayout))
	}
	return b.String()
}

// UpdateHTML renders the Telegram flavor of the notification, using the
// Bot API's HTML parse mode.
func UpdateHTML(update Update) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⚡ <b>Power outage schedule updated</b>\n")
	fmt.Fprintf(&b, "%s — queue %s\n", update.Day.Format(telegramDayLayout), update.Queue)
	if len(update.Spans) == 0 {
		b.WriteString("No outage windows.")
		return b.String()
	}
	b.WriteString("Outage windows:\n")
	for _, span := range update.Spans {
		fmt.Fprintf(&b, "• %s – %s\n",
			span.Start.Format("15:04"), span.End.Format(spanEndLayout(span)))
	}
	return strings.TrimRight(b.String(), "\n")
}

// spanEndLayout keeps overnight ends unambiguous: when the window ends on
// a different day than it starts, the end carries its date.
func spanEndLayout(span schedule.Span) string {
	if span.Start.Day() != span.End.Day() {
		return "15:04 (2 Jan)"
	}
	return "15:04"
}
