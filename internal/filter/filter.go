// Package filter decides which scraped events are relevant to the AI topic taxonomy.
//
// Relevance is literal keyword containment: an event is relevant when at least one
// configured keyword occurs, case-insensitively, anywhere in its title or description.
// There is no word-boundary requirement, so "Generative AI" and "AI-powered" both
// match the keyword "AI".
//
// Example usage:
//
//	kw := filter.NewKeywords(filter.DefaultKeywords)
//	relevant := filter.Apply(events, kw)
package filter

import (
	"strings"

	"github.com/pfrederiksen/ai-events/internal/event"
	"golang.org/x/text/cases"
)

// DefaultKeywords is the AI topic taxonomy used when configuration supplies none.
var DefaultKeywords = []string{
	"AI",
	"Artificial Intelligence",
	"Machine Learning",
	"ML",
	"Deep Learning",
	"Cognitive Services",
	"Azure AI",
	"Copilot",
	"Generative AI",
	"Neural Networks",
	"Data Science",
	"Intelligent Apps",
}

// Keywords is an immutable, case-folded keyword set.
// It is built once at startup and is safe for concurrent use.
type Keywords struct {
	original []string
	folded   []string
}

// NewKeywords builds a keyword set. Blank entries and duplicates (after case folding)
// are dropped; the first spelling of each keyword is kept for display.
func NewKeywords(keywords []string) Keywords {
	kw := Keywords{
		original: make([]string, 0, len(keywords)),
		folded:   make([]string, 0, len(keywords)),
	}

	seen := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		f := fold(k)
		if seen[f] {
			continue
		}
		seen[f] = true
		kw.original = append(kw.original, k)
		kw.folded = append(kw.folded, f)
	}

	return kw
}

// List returns a copy of the keywords as configured.
func (k Keywords) List() []string {
	out := make([]string, len(k.original))
	copy(out, k.original)
	return out
}

// Len returns the number of distinct keywords.
func (k Keywords) Len() int {
	return len(k.folded)
}

// String returns the keywords joined with ", ".
func (k Keywords) String() string {
	return strings.Join(k.original, ", ")
}

// IsRelevant reports whether at least one keyword occurs in the event's title or description.
// An empty keyword set matches nothing.
func IsRelevant(evt event.Event, kw Keywords) bool {
	haystack := haystack(evt)
	for _, k := range kw.folded {
		if strings.Contains(haystack, k) {
			return true
		}
	}
	return false
}

// MatchedKeywords returns the configured spelling of every keyword found in the event.
func MatchedKeywords(evt event.Event, kw Keywords) []string {
	haystack := haystack(evt)

	var matched []string
	for i, k := range kw.folded {
		if strings.Contains(haystack, k) {
			matched = append(matched, kw.original[i])
		}
	}
	return matched
}

// Apply returns the relevant events in their original order.
// The result is never nil, so callers can encode it directly as an empty list.
func Apply(events []event.Event, kw Keywords) []event.Event {
	filtered := make([]event.Event, 0, len(events))
	for _, evt := range events {
		if IsRelevant(evt, kw) {
			filtered = append(filtered, evt)
		}
	}
	return filtered
}

// haystack joins the searchable fields with a newline so a keyword can never
// match across the boundary between title and description.
func haystack(evt event.Event) string {
	return fold(evt.Title + "\n" + evt.Description)
}

// fold normalizes case. A Caser is stateful, so one is created per call.
func fold(s string) string {
	return cases.Fold().String(s)
}
