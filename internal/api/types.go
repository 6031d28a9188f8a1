package api

import (
	"context"

	"github.com/pfrederiksen/ai-events/internal/event"
	"github.com/pfrederiksen/ai-events/internal/metrics"
	"github.com/pfrederiksen/ai-events/internal/scraper"
)

// EventFetcher runs one scrape and returns the relevant events.
type EventFetcher interface {
	FetchRelevantEvents(ctx context.Context) ([]event.Event, error)
}

var _ EventFetcher = (*scraper.Scraper)(nil)

// Handler serves the HTTP endpoints.
type Handler struct {
	fetcher EventFetcher
	metrics *metrics.Recorder
	version string
}

// EventsResponse is the body of a successful GET /ai-events.
type EventsResponse struct {
	AIEvents []event.Event `json:"ai_events"`
	Count    int           `json:"count"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Detail  string `json:"detail,omitempty"`
}
