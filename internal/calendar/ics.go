// Package calendar renders relevant events as an iCalendar feed.
package calendar

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/pfrederiksen/ai-events/internal/event"
)

const (
	ProductID       = "-//ai-events//ai-events//EN"
	DefaultCalendar = "AI Events"
	uidDomain       = "ai-events"
)

// GenerateICS builds a calendar with one all-day VEVENT per dated event.
// Events whose date cannot be parsed are skipped; the number skipped is returned.
func GenerateICS(events []event.Event, name string, now time.Time) (string, int) {
	cal := ics.NewCalendar()
	cal.SetProductId(ProductID)
	cal.SetMethod(ics.MethodPublish)
	cal.SetCalscale("GREGORIAN")
	if name == "" {
		name = DefaultCalendar
	}
	cal.SetXWRCalName(name)

	skipped := 0
	for _, evt := range events {
		start := evt.StartDate()
		if start.IsZero() {
			skipped++
			continue
		}

		id := evt.ID
		if id == "" {
			id = event.GenerateID(evt.Title, evt.Date, evt.Link)
		}

		ve := cal.AddEvent(fmt.Sprintf("%s@%s", id, uidDomain))
		ve.SetDtStampTime(now)
		ve.SetAllDayStartAt(start)
		ve.SetAllDayEndAt(start.AddDate(0, 0, 1))
		ve.SetSummary(evt.Title)
		ve.SetDescription(description(evt))
		if evt.HasLink() {
			ve.SetURL(evt.Link)
		}
		ve.SetStatus(ics.ObjectStatusConfirmed)
	}

	return cal.Serialize(ics.WithNewLineWindows), skipped
}

// description keeps the full schedule text since only the day survives in DTSTART.
func description(evt event.Event) string {
	var parts []string
	if evt.Date != "" {
		parts = append(parts, "When: "+evt.Date)
	}
	if evt.Description != "" {
		parts = append(parts, evt.Description)
	}
	if evt.HasLink() {
		parts = append(parts, "Register at: "+evt.Link)
	}
	return strings.Join(parts, "\n\n")
}
