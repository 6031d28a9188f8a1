package browser

import (
	"context"
	"time"
)

// Default wait bounds used when Options leaves a field zero.
const (
	DefaultNavigateTimeout = 60 * time.Second
	DefaultRenderTimeout   = 15 * time.Second
	DefaultExpandTimeout   = 20 * time.Second
	DefaultSettleDelay     = time.Second
	DefaultPollInterval    = 250 * time.Millisecond
)

// DefaultScrollPasses is the number of scroll-to-bottom passes configuration applies
// after expansion. Options itself treats zero as "no scrolling".
const DefaultScrollPasses = 3

// Page is exclusive access to the current tab of one browser session.
// Implementations must honor ctx cancellation and deadlines on every call.
type Page interface {
	// Navigate loads url and waits for the document to be ready.
	Navigate(ctx context.Context, url string) error
	// WaitListing blocks until at least one event card is visible.
	WaitListing(ctx context.Context) error
	// CardCount returns the number of event cards currently rendered.
	CardCount(ctx context.Context) (int, error)
	// LoadMoreAvailable reports whether an enabled "load more" control is present.
	LoadMoreAvailable(ctx context.Context) (bool, error)
	// ClickLoadMore activates the "load more" control.
	// It returns ErrNoLoadMore when the control has gone.
	ClickLoadMore(ctx context.Context) error
	// Scroll moves the viewport to the bottom of the document.
	Scroll(ctx context.Context) error
	// HTML returns the rendered markup of the whole document.
	HTML(ctx context.Context) (string, error)
}

// Session is a browser session owned by a single invocation.
// Close must be called on every exit path; it is safe to call more than once.
type Session interface {
	Page
	Close() error
}

// Launcher starts independent browser sessions.
type Launcher interface {
	NewSession(ctx context.Context) (Session, error)
}

// Options bounds the waits performed by LoadAll.
type Options struct {
	NavigateTimeout time.Duration // initial page load
	RenderTimeout   time.Duration // first cards becoming visible
	ExpandTimeout   time.Duration // one "load more" expansion
	SettleDelay     time.Duration // pause after an expansion or scroll
	PollInterval    time.Duration // card count polling during an expansion
	ScrollPasses    int           // scroll-to-bottom passes after expansion
}

// withDefaults fills zero durations with the package defaults.
func (o Options) withDefaults() Options {
	if o.NavigateTimeout <= 0 {
		o.NavigateTimeout = DefaultNavigateTimeout
	}
	if o.RenderTimeout <= 0 {
		o.RenderTimeout = DefaultRenderTimeout
	}
	if o.ExpandTimeout <= 0 {
		o.ExpandTimeout = DefaultExpandTimeout
	}
	if o.SettleDelay < 0 {
		o.SettleDelay = 0
	}
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.ScrollPasses < 0 {
		o.ScrollPasses = 0
	}
	return o
}

// Snapshot is the fully expanded listing captured by LoadAll.
type Snapshot struct {
	URL        string
	HTML       string
	Iterations int  // "load more" activations performed
	Exhausted  bool // the control disappeared before the cap was reached
}
