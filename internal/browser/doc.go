// Package browser drives a headless browser session to fully expand an events listing.
//
// LoadAll navigates to the listing, keeps activating its "load more" control until the
// control disappears or an iteration cap is reached, and returns the rendered markup.
// Every wait is bounded: a failed initial load surfaces as *NavigationError and an
// expansion that never settles as *LoadTimeoutError. Hitting the cap is not an error.
//
// The loop talks to the browser through the Page interface; ChromeLauncher provides the
// chromedp-backed implementation, one browser process per session.
package browser
