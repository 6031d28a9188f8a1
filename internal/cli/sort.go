package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/ai-events/internal/event"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByPage  SortOrder = "page"
	SortByDate  SortOrder = "date"
	SortByTitle SortOrder = "title"
)

// ParseSortOrder validates a --sort value.
func ParseSortOrder(s string) (SortOrder, error) {
	switch order := SortOrder(strings.ToLower(strings.TrimSpace(s))); order {
	case SortByPage, SortByDate, SortByTitle:
		return order, nil
	case "":
		return SortByPage, nil
	default:
		return "", fmt.Errorf("invalid sort: %s (must be 'page', 'date' or 'title')", s)
	}
}

// sortEvents sorts events in place. SortByPage keeps listing order.
func sortEvents(events []event.Event, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		sort.SliceStable(events, func(i, j int) bool {
			return compareByDate(events[i], events[j])
		})
	case SortByTitle:
		sort.SliceStable(events, func(i, j int) bool {
			ti, tj := strings.ToLower(events[i].Title), strings.ToLower(events[j].Title)
			if ti != tj {
				return ti < tj
			}
			// If titles are equal, sort by date
			return compareByDate(events[i], events[j])
		})
	}
}

// compareByDate compares two events by their date
// Returns true if event i should come before event j
func compareByDate(i, j event.Event) bool {
	dateI := i.StartDate()
	dateJ := j.StartDate()

	// If both dates are valid, compare them
	if !dateI.IsZero() && !dateJ.IsZero() {
		return dateI.Before(dateJ)
	}

	// If only one date is valid, put the valid one first
	if !dateI.IsZero() {
		return true
	}
	return false
}
