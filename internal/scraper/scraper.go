package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pfrederiksen/ai-events/internal/browser"
	"github.com/pfrederiksen/ai-events/internal/event"
	"github.com/pfrederiksen/ai-events/internal/extract"
	"github.com/pfrederiksen/ai-events/internal/filter"
	"github.com/pfrederiksen/ai-events/internal/logger"
	"github.com/pfrederiksen/ai-events/internal/metrics"
)

const (
	ListingURL           = "https://events.microsoft.com/en-us/allevents/?language=English&clientTimeZone=1"
	DefaultMaxIterations = 4
)

// Config is the immutable input of every invocation.
type Config struct {
	URL           string
	Keywords      filter.Keywords
	MaxIterations int
	Browser       browser.Options
	// Timeout bounds a whole invocation. Zero leaves only the per-step waits.
	Timeout time.Duration
}

// ScrapeFailure wraps any error that prevented a scrape from completing.
type ScrapeFailure struct {
	Cause error
}

func (e *ScrapeFailure) Error() string {
	return fmt.Sprintf("scrape failed: %v", e.Cause)
}

func (e *ScrapeFailure) Unwrap() error {
	return e.Cause
}

// Scraper handles fetching and filtering the events listing
type Scraper struct {
	cfg      Config
	launcher browser.Launcher
	metrics  *metrics.Recorder
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithMetrics records every invocation on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(s *Scraper) {
		s.metrics = r
	}
}

// New creates a new Scraper instance
func New(cfg Config, launcher browser.Launcher, opts ...Option) *Scraper {
	if cfg.URL == "" {
		cfg.URL = ListingURL
	}
	if cfg.MaxIterations < 0 {
		cfg.MaxIterations = 0
	}

	s := &Scraper{
		cfg:      cfg,
		launcher: launcher,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Keywords returns the keyword set events are matched against.
func (s *Scraper) Keywords() filter.Keywords {
	return s.cfg.Keywords
}

// URL returns the listing URL.
func (s *Scraper) URL() string {
	return s.cfg.URL
}

// FetchRelevantEvents scrapes the listing and returns the events relevant to the keyword set.
// The result is empty, not nil, when nothing matches.
func (s *Scraper) FetchRelevantEvents(ctx context.Context) ([]event.Event, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	run, err := s.run(ctx)

	obs := metrics.Scrape{
		Outcome:   outcome(err),
		Duration:  time.Since(start),
		Clicks:    run.clicks,
		Extracted: run.extracted,
		Relevant:  len(run.events),
	}
	s.metrics.ObserveScrape(obs)

	if err != nil {
		logger.Error("Scrape failed", logger.Fields{
			"url":      s.cfg.URL,
			"clicks":   run.clicks,
			"duration": obs.Duration.String(),
		}, err)
		return nil, err
	}

	logger.Info("Scrape finished", logger.Fields{
		"url":       s.cfg.URL,
		"clicks":    run.clicks,
		"extracted": run.extracted,
		"relevant":  len(run.events),
		"duration":  obs.Duration.String(),
	})

	return run.events, nil
}

type runResult struct {
	events    []event.Event
	clicks    int
	extracted int
}

// run performs one invocation inside a dedicated browser session.
func (s *Scraper) run(ctx context.Context) (runResult, error) {
	var res runResult

	session, err := s.launcher.NewSession(ctx)
	if err != nil {
		return res, &ScrapeFailure{Cause: fmt.Errorf("starting browser session: %w", err)}
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("Closing browser session failed", logger.Fields{"error": err.Error()})
		}
	}()

	snap, err := browser.LoadAll(ctx, session, s.cfg.URL, s.cfg.MaxIterations, s.cfg.Browser)
	res.clicks = snap.Iterations
	if err != nil {
		return res, &ScrapeFailure{Cause: err}
	}

	extracted, err := extract.FromHTML(snap.HTML, snap.URL)
	if err != nil {
		return res, &ScrapeFailure{Cause: fmt.Errorf("extracting events: %w", err)}
	}
	res.extracted = len(extracted)

	if len(extracted) == 0 {
		logger.Warn("No event cards found. Check HTML structure.", logger.Fields{"url": snap.URL})
	} else {
		logger.Info("Found event cards", logger.Fields{"count": len(extracted), "exhausted": snap.Exhausted})
	}

	res.events = filter.Apply(extracted, s.cfg.Keywords)

	for _, evt := range res.events {
		logger.Debug("Found AI event", logger.Fields{
			"title":    evt.Title,
			"keywords": filter.MatchedKeywords(evt, s.cfg.Keywords),
		})
	}
	if len(res.events) == 0 {
		logger.Info("No AI-related events found after filtering", nil)
	}

	return res, nil
}

// outcome maps an invocation error to its metrics label.
func outcome(err error) string {
	var navErr *browser.NavigationError
	var timeoutErr *browser.LoadTimeoutError

	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.As(err, &navErr):
		return metrics.OutcomeNavigationError
	case errors.As(err, &timeoutErr):
		return metrics.OutcomeLoadTimeout
	default:
		return metrics.OutcomeError
	}
}
