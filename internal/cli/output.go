package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pfrederiksen/ai-events/internal/calendar"
	"github.com/pfrederiksen/ai-events/internal/event"
	"github.com/pfrederiksen/ai-events/internal/filter"
	"github.com/pfrederiksen/ai-events/internal/logger"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatICS  OutputFormat = "ics"
)

// ParseOutputFormat validates a --format value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch format := OutputFormat(strings.ToLower(strings.TrimSpace(s))); format {
	case FormatText, FormatJSON, FormatICS:
		return format, nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be 'text', 'json' or 'ics')", s)
	}
}

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt  time.Time     `json:"checked_at"`
	URL        string        `json:"url"`
	Keywords   []string      `json:"keywords"`
	AIEvents   []event.Event `json:"ai_events"`
	EventCount int           `json:"count"`

	keywords filter.Keywords
}

// NewOutputResult builds the printable result of one scrape.
func NewOutputResult(url string, kw filter.Keywords, events []event.Event) *OutputResult {
	if events == nil {
		events = []event.Event{}
	}
	return &OutputResult{
		CheckedAt:  time.Now().UTC(),
		URL:        url,
		Keywords:   kw.List(),
		AIEvents:   events,
		EventCount: len(events),
		keywords:   kw,
	}
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	case FormatICS:
		return writeICS(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeICS outputs dated events as an iCalendar feed
func writeICS(w io.Writer, result *OutputResult) error {
	feed, skipped := calendar.GenerateICS(result.AIEvents, calendar.DefaultCalendar, result.CheckedAt)
	if skipped > 0 {
		logger.Warn("Skipped events without a parseable date", logger.Fields{"count": skipped})
	}
	_, err := io.WriteString(w, feed)
	return err
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.EventCount == 0 {
		fmt.Fprintln(w, "No AI-related events found.")
		return nil
	}

	for i, evt := range result.AIEvents {
		fmt.Fprintf(w, "%d. %s\n", i+1, evt.Title)
		if evt.Date != "" {
			fmt.Fprintf(w, "   Date: %s\n", evt.Date)
		}
		if evt.HasLink() {
			fmt.Fprintf(w, "   Link: %s\n", evt.Link)
		}
		if verbose {
			fmt.Fprintf(w, "   ID: %s\n", evt.ID)
			if evt.Description != "" {
				fmt.Fprintf(w, "   Description: %s\n", evt.Description)
			}
			if matched := filter.MatchedKeywords(evt, result.keywords); len(matched) > 0 {
				fmt.Fprintf(w, "   Matched: %v\n", matched)
			}
		}
	}
	fmt.Fprintf(w, "\nTotal: %d AI-related events\n", result.EventCount)

	return nil
}
