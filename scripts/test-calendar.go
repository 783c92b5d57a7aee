package main

import (
	"fmt"
	"os"
	"time"

	"github.com/VAlux/power-outage-scraper/internal/calendar"
	"github.com/VAlux/power-outage-scraper/internal/schedule"
)

func main() {
	loc, err := time.LoadLocation("Europe/Kyiv")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading timezone: %v\n", err)
		os.Exit(1)
	}

	// A sample day with two outage windows, the second running to midnight.
	day := time.Date(2024, time.March, 14, 0, 0, 0, 0, loc)
	spans := schedule.MaterializeRanges(day, []schedule.Range{
		{Start: schedule.TimeOfDay{Hour: 8}, End: schedule.TimeOfDay{Hour: 12}},
		{Start: schedule.TimeOfDay{Hour: 22}, End: schedule.TimeOfDay{}},
	})

	icsContent := calendar.GenerateDayICS("Power outage", "1", spans, time.Now().UTC())

	// Write to file (owner read/write only for security)
	filename := "test-outage-day.ics"
	if err := os.WriteFile(filename, []byte(icsContent), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Generated calendar file: %s\n\n", filename)
	fmt.Println("Test it by:")
	fmt.Println("1. Open the .ics file with your calendar app (double-click)")
	fmt.Println("2. Or import it into Google Calendar, Apple Calendar, or Outlook")
	fmt.Println("\nFile contents preview:")
	fmt.Println("---")
	fmt.Println(icsContent)
}
