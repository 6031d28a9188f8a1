// Package event provides the event record produced by the listing scraper.
//
// An Event is one card from the events listing: a title, a free-text schedule string,
// an optional description and an optional registration link. Events are plain values;
// the pipeline compares them structurally and never stores them.
package event
