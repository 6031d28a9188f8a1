package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pfrederiksen/ai-events/internal/logger"
)

// LoadAll navigates page to url and expands the listing by activating the "load more"
// control at most maxIterations times, then returns the rendered markup.
//
// Stopping because the control is absent or disabled, or because the cap was reached,
// is normal termination. A listing that never renders and failed scroll passes are
// logged and tolerated so that partial results are still returned.
func LoadAll(ctx context.Context, page Page, url string, maxIterations int, opts Options) (Snapshot, error) {
	opts = opts.withDefaults()
	snap := Snapshot{URL: url}

	logger.Info("Navigating to listing", logger.Fields{"url": url})

	navCtx, cancel := context.WithTimeout(ctx, opts.NavigateTimeout)
	err := page.Navigate(navCtx, url)
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			return snap, fmt.Errorf("navigating to %s: %w", url, ctx.Err())
		}
		return snap, &NavigationError{URL: url, Err: err}
	}

	renderCtx, cancel := context.WithTimeout(ctx, opts.RenderTimeout)
	err = page.WaitListing(renderCtx)
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			return snap, fmt.Errorf("waiting for listing: %w", ctx.Err())
		}
		logger.Warn("Event listing did not render", logger.Fields{
			"url":     url,
			"timeout": opts.RenderTimeout.String(),
			"error":   err.Error(),
		})
	}

	for snap.Iterations < maxIterations {
		available, err := page.LoadMoreAvailable(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return snap, fmt.Errorf("locating load more control: %w", ctx.Err())
			}
			logger.Warn("Could not locate load more control", logger.Fields{
				"iteration": snap.Iterations + 1,
				"error":     err.Error(),
			})
			break
		}
		if !available {
			snap.Exhausted = true
			break
		}

		before, err := page.CardCount(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return snap, fmt.Errorf("counting cards: %w", ctx.Err())
			}
			logger.Warn("Could not count cards", logger.Fields{"error": err.Error()})
			break
		}

		logger.Info("Clicking load more", logger.Fields{
			"attempt": snap.Iterations + 1,
			"max":     maxIterations,
			"cards":   before,
		})

		if err := page.ClickLoadMore(ctx); err != nil {
			if errors.Is(err, ErrNoLoadMore) {
				snap.Exhausted = true
				break
			}
			if ctx.Err() != nil {
				return snap, fmt.Errorf("clicking load more: %w", ctx.Err())
			}
			logger.Warn("Error clicking load more", logger.Fields{
				"attempt": snap.Iterations + 1,
				"error":   err.Error(),
			})
			break
		}
		snap.Iterations++

		if err := waitForExpansion(ctx, page, before, snap.Iterations, opts); err != nil {
			return snap, err
		}
	}

	if !snap.Exhausted && snap.Iterations == maxIterations && maxIterations > 0 {
		logger.Info("Reached load more cap", logger.Fields{"max": maxIterations})
	}

	for i := 0; i < opts.ScrollPasses; i++ {
		if err := page.Scroll(ctx); err != nil {
			if ctx.Err() != nil {
				return snap, fmt.Errorf("scrolling: %w", ctx.Err())
			}
			logger.Warn("Scroll pass failed", logger.Fields{"pass": i + 1, "error": err.Error()})
			break
		}
		if err := sleep(ctx, opts.SettleDelay); err != nil {
			return snap, fmt.Errorf("scrolling: %w", err)
		}
	}

	html, err := page.HTML(ctx)
	if err != nil {
		return snap, fmt.Errorf("capturing page HTML: %w", err)
	}
	snap.HTML = html

	return snap, nil
}

// waitForExpansion polls until the card count grows past before or the control goes away.
func waitForExpansion(ctx context.Context, page Page, before, iteration int, opts Options) error {
	waitCtx, cancel := context.WithTimeout(ctx, opts.ExpandTimeout)
	defer cancel()

	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	for {
		if settled(waitCtx, page, before) {
			return sleep(ctx, opts.SettleDelay)
		}

		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return fmt.Errorf("waiting for expansion %d: %w", iteration, ctx.Err())
			}
			// No cards were countable before the click, so growth cannot be observed.
			// Keep going and let extraction decide what the page holds.
			if before == 0 {
				logger.Warn("Listing growth not observable, continuing", logger.Fields{
					"iteration": iteration,
					"timeout":   opts.ExpandTimeout.String(),
				})
				return nil
			}
			return &LoadTimeoutError{Iteration: iteration, Timeout: opts.ExpandTimeout, Err: waitCtx.Err()}
		case <-ticker.C:
		}
	}
}

func settled(ctx context.Context, page Page, before int) bool {
	count, err := page.CardCount(ctx)
	if err != nil {
		return false
	}
	if count > before {
		return true
	}

	available, err := page.LoadMoreAvailable(ctx)
	return err == nil && !available
}

// sleep pauses for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
