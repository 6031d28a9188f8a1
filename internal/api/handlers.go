package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pfrederiksen/ai-events/internal/calendar"
	"github.com/pfrederiksen/ai-events/internal/event"
	"github.com/pfrederiksen/ai-events/internal/logger"
	"github.com/pfrederiksen/ai-events/internal/metrics"
)

func NewHandler(fetcher EventFetcher, recorder *metrics.Recorder, version string) *Handler {
	return &Handler{
		fetcher: fetcher,
		metrics: recorder,
		version: version,
	}
}

// GetAIEvents runs a fresh scrape on every request. Scrapes are not cached.
func (h *Handler) GetAIEvents(c *gin.Context) {
	events, err := h.fetcher.FetchRelevantEvents(c.Request.Context())
	if err != nil {
		logger.Error("Scrape request failed", logger.Fields{"client": c.ClientIP()}, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:  "Failed to scrape events",
			Detail: err.Error(),
		})
		return
	}

	if events == nil {
		events = []event.Event{}
	}

	c.JSON(http.StatusOK, EventsResponse{
		AIEvents: events,
		Count:    len(events),
	})
}

// GetAIEventsICS serves the same scrape as an iCalendar feed.
func (h *Handler) GetAIEventsICS(c *gin.Context) {
	events, err := h.fetcher.FetchRelevantEvents(c.Request.Context())
	if err != nil {
		logger.Error("Scrape request failed", logger.Fields{"client": c.ClientIP(), "format": "ics"}, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:  "Failed to scrape events",
			Detail: err.Error(),
		})
		return
	}

	feed, skipped := calendar.GenerateICS(events, calendar.DefaultCalendar, time.Now())

	c.Header("X-Events-Count", strconv.Itoa(len(events)))
	c.Header("X-Events-Undated", strconv.Itoa(skipped))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"version":   h.version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) GetMetrics(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}
