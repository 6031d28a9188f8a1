package browser

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoLoadMore is returned by Page.ClickLoadMore when there is no control to activate.
var ErrNoLoadMore = errors.New("load more control not found")

// NavigationError reports that the initial page load did not succeed.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigating to %s: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

// LoadTimeoutError reports that a "load more" expansion did not settle in time.
type LoadTimeoutError struct {
	Iteration int
	Timeout   time.Duration
	Err       error
}

func (e *LoadTimeoutError) Error() string {
	return fmt.Sprintf("expansion %d did not settle within %s", e.Iteration, e.Timeout)
}

func (e *LoadTimeoutError) Unwrap() error {
	return e.Err
}
