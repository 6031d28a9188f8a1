// Package cli implements the command-line interface for ai-events.
//
// The cli package provides the Cobra-based CLI with a one-shot scrape command
// (text/JSON output, sorting by page order, date or title), the authenticated HTTP
// service, and a listing of the effective keyword set. It loads configuration once
// and wires the browser, scraper, metrics and api packages together.
package cli
