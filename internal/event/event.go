package event

import (
	"crypto/sha1"
	"fmt"
	"strings"
)

// Event represents one entry of the events listing
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"` // schedule text exactly as shown on the page
	Description string `json:"description"`
	Link        string `json:"link,omitempty"`
}

// GenerateID creates a deterministic ID for an event based on its visible fields
func GenerateID(title, date, link string) string {
	h := sha1.New()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(title)) + "|" + date + "|" + link))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// New creates an Event with its ID populated
func New(title, date, description, link string) Event {
	return Event{
		ID:          GenerateID(title, date, link),
		Title:       title,
		Date:        date,
		Description: description,
		Link:        link,
	}
}

// HasLink reports whether the listing exposed a registration link for the event.
func (e Event) HasLink() bool {
	return e.Link != ""
}

// Valid reports whether the event carries the minimum data to be emitted.
func (e Event) Valid() bool {
	return strings.TrimSpace(e.Title) != ""
}
