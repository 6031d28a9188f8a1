package event

import (
	"regexp"
	"strings"
	"time"
)

// datePrefix matches the leading calendar date of a schedule string such as
// "Oct 21, 2026 | 9:00 AM - 10:00 AM (UTC)" or "21 October 2026".
var datePrefix = regexp.MustCompile(`(?i)^\s*(?:[a-z]+,\s*)?((?:[a-z]{3,9}\.?\s+\d{1,2},?\s+\d{4})|(?:\d{1,2}\s+[a-z]{3,9}\.?,?\s+\d{4})|(?:\d{4}-\d{2}-\d{2})|(?:\d{1,2}/\d{1,2}/\d{2,4}))`)

var monthName = regexp.MustCompile(`^[A-Za-z]+$`)

var dateLayouts = []string{
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"January 2 2006",
	"2 Jan 2006",
	"2 January 2006",
	"2006-01-02",
	"1/2/2006",
	"1/2/06",
}

// ParseDate attempts to parse the leading date of a schedule string.
// Returns time.Time{} (zero value) if no known layout matches.
// Supports formats: "Oct 21, 2026", "October 21 2026", "21 Oct 2026", "2026-10-21", "10/21/2026"
func ParseDate(dateText string) time.Time {
	if dateText == "" {
		return time.Time{}
	}

	m := datePrefix.FindStringSubmatch(dateText)
	if m == nil {
		return time.Time{}
	}
	candidate := normalizeDate(m[1])

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, candidate); err == nil {
			return t
		}
	}

	// Could not parse, return zero time
	return time.Time{}
}

// normalizeDate reduces a matched date to the spellings dateLayouts knows:
// "Sept." becomes "Sep" and a comma after the month name ("21 Oct, 2026") is dropped.
func normalizeDate(s string) string {
	fields := strings.Fields(strings.Replace(s, ".", "", 1))
	for i, f := range fields {
		if month, ok := strings.CutSuffix(f, ","); ok && monthName.MatchString(month) {
			f = month
		}
		if strings.EqualFold(f, "sept") {
			f = "Sep"
		}
		fields[i] = f
	}
	return strings.Join(fields, " ")
}

// StartDate returns the parsed start date of the event, or the zero time.
func (e Event) StartDate() time.Time {
	return ParseDate(e.Date)
}
