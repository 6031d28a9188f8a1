package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/chromedp"
)

// Default browser window used for rendering the listing.
const (
	DefaultWindowWidth  = 1366
	DefaultWindowHeight = 1024
)

// ChromeLauncher starts headless Chromium sessions through chromedp.
// Each session gets its own browser process, so concurrent sessions share nothing.
type ChromeLauncher struct {
	// ExecPath overrides the Chromium binary. If empty, chromedp searches the usual locations.
	ExecPath string

	// UserAgent overrides the browser user agent when non-empty.
	UserAgent string

	// ShowBrowser disables headless mode, which helps when debugging selectors.
	ShowBrowser bool

	// WindowWidth and WindowHeight are the viewport dimensions in pixels. If zero,
	// DefaultWindowWidth / DefaultWindowHeight are used.
	WindowWidth  int
	WindowHeight int

	// CardSelector matches the event cards used to detect listing growth.
	CardSelector string

	// LoadMorePrefixes are matched against the start of the control's text.
	// If empty, DefaultLoadMorePrefixes is used.
	LoadMorePrefixes []string
}

// NewSession launches a browser and opens a blank tab.
// The browser is shut down when the session is closed or ctx is cancelled.
func (l *ChromeLauncher) NewSession(ctx context.Context) (Session, error) {
	width, height := l.WindowWidth, l.WindowHeight
	if width <= 0 {
		width = DefaultWindowWidth
	}
	if height <= 0 {
		height = DefaultWindowHeight
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(width, height),
	)
	if l.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(l.ExecPath))
	}
	if l.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(l.UserAgent))
	}
	if l.ShowBrowser {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Run with no actions starts the browser, so launch failures surface here.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	prefixes := l.LoadMorePrefixes
	if len(prefixes) == 0 {
		prefixes = DefaultLoadMorePrefixes
	}

	return &chromeSession{
		ctx:          browserCtx,
		cancel:       func() { browserCancel(); allocCancel() },
		cardSelector: l.CardSelector,
		findScript:   loadMoreScript(prefixes, false),
		clickScript:  loadMoreScript(prefixes, true),
	}, nil
}

type chromeSession struct {
	ctx    context.Context // chromedp browser context
	cancel func()

	cardSelector string
	findScript   string
	clickScript  string

	closeOnce sync.Once
	closeErr  error
}

// run executes actions on the session tab, bounded by both the session and ctx.
func (s *chromeSession) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()

	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		runCtx, cancelDeadline = context.WithDeadline(runCtx, deadline)
		defer cancelDeadline()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (s *chromeSession) Navigate(ctx context.Context, url string) error {
	return s.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

func (s *chromeSession) WaitListing(ctx context.Context) error {
	if s.cardSelector == "" {
		return nil
	}
	return s.run(ctx, chromedp.WaitVisible(s.cardSelector, chromedp.ByQuery))
}

func (s *chromeSession) CardCount(ctx context.Context) (int, error) {
	if s.cardSelector == "" {
		return 0, nil
	}
	var n int
	if err := s.run(ctx, chromedp.Evaluate(countScript(s.cardSelector), &n)); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *chromeSession) LoadMoreAvailable(ctx context.Context) (bool, error) {
	var found bool
	if err := s.run(ctx, chromedp.Evaluate(s.findScript, &found)); err != nil {
		return false, err
	}
	return found, nil
}

func (s *chromeSession) ClickLoadMore(ctx context.Context) error {
	var clicked bool
	if err := s.run(ctx, chromedp.Evaluate(s.clickScript, &clicked)); err != nil {
		return err
	}
	if !clicked {
		return ErrNoLoadMore
	}
	return nil
}

func (s *chromeSession) Scroll(ctx context.Context) error {
	return s.run(ctx, chromedp.Evaluate(scrollScript, nil))
}

func (s *chromeSession) HTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

// Close shuts the browser down and releases the allocator.
func (s *chromeSession) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = chromedp.Cancel(s.ctx)
		s.cancel()
	})
	return s.closeErr
}
