package extract

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/ai-events/internal/event"
)

const (
	// CardSelector matches the event cards of the listing page.
	CardSelector = "div.c-card.grideventscroll"

	headingSelector = "h1, h2, h3, h4"
)

var (
	fallbackCardClass = regexp.MustCompile(`(?i)card|event`)
	windowOpenPattern = regexp.MustCompile(`window\.open\(\s*['"]([^'"]+)['"]`)
	whitespace        = regexp.MustCompile(`\s+`)
)

// field lookups are tried in order; the first non-empty text wins
var (
	titleSelectors       = []string{"h3.c-heading-6", headingSelector, "[class*='title']:not([class*='date'])"}
	dateSelectors        = []string{"p.title-date", "time", "[class*='date']"}
	descriptionSelectors = []string{"p.gridcard-description-min", "[class*='description']"}
)

// FromHTML parses a page snapshot and extracts its events.
// baseURL, when non-empty, is used to resolve relative links.
func FromHTML(html, baseURL string) ([]event.Event, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("parsing base URL: %w", err)
		}
		doc.Url = u
	}

	return Events(doc), nil
}

// Events extracts one event per card in document order.
// Cards without a usable title are skipped.
func Events(doc *goquery.Document) []event.Event {
	events := make([]event.Event, 0)

	Cards(doc).Each(func(i int, card *goquery.Selection) {
		title, ok := Title(card)
		if !ok {
			return
		}

		date, _ := Date(card)
		description, _ := Description(card)
		link, _ := Link(card, doc.Url)

		events = append(events, event.New(title, date, description, link))
	})

	return events
}

// Cards returns the event card blocks of the document.
//
// The primary signature is CardSelector. If it matches nothing, any div whose class
// mentions "card" or "event" and which holds at most one heading is accepted, keeping
// only the outermost of nested matches. The heading limit keeps list containers such as
// "events-grid" from being read as a single card.
func Cards(doc *goquery.Document) *goquery.Selection {
	cards := doc.Find(CardSelector)
	if cards.Length() > 0 {
		return cards
	}

	return doc.Find("div[class]").FilterFunction(func(i int, s *goquery.Selection) bool {
		if !fallbackCard(s) {
			return false
		}
		return s.ParentsFiltered("div[class]").FilterFunction(func(j int, p *goquery.Selection) bool {
			return fallbackCard(p)
		}).Length() == 0
	})
}

func fallbackCard(s *goquery.Selection) bool {
	return fallbackCardClass.MatchString(s.AttrOr("class", "")) && s.Find(headingSelector).Length() <= 1
}

// Title returns the card's title text.
func Title(card *goquery.Selection) (string, bool) {
	return firstText(card, titleSelectors)
}

// Date returns the card's schedule text, unparsed.
func Date(card *goquery.Selection) (string, bool) {
	return firstText(card, dateSelectors)
}

// Description returns the card's summary text.
func Description(card *goquery.Selection) (string, bool) {
	return firstText(card, descriptionSelectors)
}

// Link returns the card's registration URL, made absolute against base when possible.
//
// The registration button opens its target from an onclick handler, so that is tried
// before any anchor inside the card.
func Link(card *goquery.Selection, base *url.URL) (string, bool) {
	var raw string

	card.Find("button[id*='EventRegistrationButton'], [onclick*='window.open']").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if m := windowOpenPattern.FindStringSubmatch(s.AttrOr("onclick", "")); m != nil {
			raw = m[1]
			return false
		}
		return true
	})

	if raw == "" {
		card.Find("a[href]").EachWithBreak(func(i int, s *goquery.Selection) bool {
			href := strings.TrimSpace(s.AttrOr("href", ""))
			if usableHref(href) {
				raw = href
				return false
			}
			return true
		})
	}

	if !usableHref(raw) {
		return "", false
	}

	return resolve(raw, base)
}

func usableHref(href string) bool {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return false
	}
	return !strings.HasPrefix(strings.ToLower(href), "javascript:")
}

func resolve(raw string, base *url.URL) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if !u.IsAbs() {
		return "", false
	}
	return u.String(), true
}

func firstText(card *goquery.Selection, selectors []string) (string, bool) {
	for _, sel := range selectors {
		var text string
		card.Find(sel).EachWithBreak(func(i int, s *goquery.Selection) bool {
			text = cleanText(s.Text())
			return text == ""
		})
		if text != "" {
			return text, true
		}
	}
	return "", false
}

// cleanText collapses runs of whitespace and trims the result
func cleanText(s string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}
