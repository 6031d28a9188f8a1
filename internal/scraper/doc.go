// Package scraper fetches the AI-related events from the configured listing page.
//
// A Scraper composes the pipeline for one invocation: it launches a dedicated browser
// session, expands the listing, extracts the event cards and keeps those matching the
// keyword set. The session is closed on every exit path. Failures are returned as
// *ScrapeFailure wrapping the underlying cause; finding no relevant events is not a failure.
package scraper
