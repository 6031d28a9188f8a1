package extract

import (
	"net/url"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const listingURL = "https://events.microsoft.com/en-us/allevents/?language=English"

func loadFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("testdata/listing.html")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	return string(data)
}

func TestFromHTML_Fixture(t *testing.T) {
	events, err := FromHTML(loadFixture(t), listingURL)
	if err != nil {
		t.Fatalf("FromHTML() error: %v", err)
	}

	if len(events) != 3 {
		t.Fatalf("FromHTML() returned %d events, want 3 (untitled card dropped)", len(events))
	}

	first := events[0]
	if first.Title != "AI Training Day" {
		t.Errorf("Title = %q, want 'AI Training Day'", first.Title)
	}
	if first.Date != "Oct 21, 2026 | 9:00 AM - 4:00 PM (UTC)" {
		t.Errorf("Date = %q, want verbatim schedule text", first.Date)
	}
	if first.Description != "Hands-on labs covering Azure AI Foundry and responsible deployment." {
		t.Errorf("Description = %q, want whitespace-collapsed text", first.Description)
	}
	if first.Link != "https://events.microsoft.com/en-us/event/1201" {
		t.Errorf("Link = %q", first.Link)
	}
	if first.ID == "" {
		t.Error("ID should be populated")
	}

	// Relative onclick target resolved against the page URL
	if events[1].Link != "https://events.microsoft.com/en-us/event/1202" {
		t.Errorf("relative link = %q, want resolved absolute URL", events[1].Link)
	}

	// Missing description and link degrade the record instead of dropping it
	last := events[2]
	if last.Title != "Copilot & Machine Learning Office Hours" {
		t.Errorf("Title = %q, want decoded entity", last.Title)
	}
	if last.Description != "" {
		t.Errorf("Description = %q, want empty", last.Description)
	}
	if last.HasLink() {
		t.Errorf("Link = %q, want absent", last.Link)
	}
}

func TestFromHTML_Idempotent(t *testing.T) {
	html := loadFixture(t)

	first, err := FromHTML(html, listingURL)
	if err != nil {
		t.Fatalf("FromHTML() error: %v", err)
	}
	second, err := FromHTML(html, listingURL)
	if err != nil {
		t.Fatalf("FromHTML() error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("re-extraction differs:\n%+v\n%+v", first, second)
	}
}

func TestEvents_SameDocumentTwice(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(loadFixture(t)))
	if err != nil {
		t.Fatal(err)
	}

	if a, b := Events(doc), Events(doc); !reflect.DeepEqual(a, b) {
		t.Error("Events() is not idempotent over one document")
	}
}

func TestFromHTML_InvalidBaseURL(t *testing.T) {
	if _, err := FromHTML("<html></html>", "://bad"); err == nil {
		t.Error("FromHTML() expected error for invalid base URL")
	}
}

func TestFromHTML_EdgeCases(t *testing.T) {
	tests := []struct {
		name       string
		html       string
		baseURL    string
		wantTitles []string
		wantLinks  []string
	}{
		{
			name:       "empty page",
			html:       `<html><body><p>No events</p></body></html>`,
			wantTitles: []string{},
		},
		{
			name: "every card untitled",
			html: `<div class="c-card grideventscroll"><p class="title-date">Oct 1</p></div>
			       <div class="c-card grideventscroll"><h3 class="c-heading-6"></h3></div>`,
			wantTitles: []string{},
		},
		{
			name: "fallback signature when card classes change",
			html: `<section class="results">
			         <div class="event-tile"><div class="event-tile__body"><h2>Intro to Copilot</h2><a href="/e/1">More</a></div></div>
			         <div class="event-tile"><h2>Data Science Meetup</h2></div>
			       </section>`,
			baseURL:    "https://example.com/list",
			wantTitles: []string{"Intro to Copilot", "Data Science Meetup"},
			wantLinks:  []string{"https://example.com/e/1", ""},
		},
		{
			name: "fallback ignores list container holding many cards",
			html: `<div class="events-grid">
			         <div class="card"><h3>One</h3></div>
			         <div class="card"><h3>Two</h3></div>
			       </div>`,
			wantTitles: []string{"One", "Two"},
			wantLinks:  []string{"", ""},
		},
		{
			name: "title from class when heading missing",
			html: `<div class="c-card grideventscroll">
			         <p class="title-date">Oct 1</p>
			         <span class="event-title">Neural Networks 101</span>
			       </div>`,
			wantTitles: []string{"Neural Networks 101"},
		},
		{
			name: "javascript and fragment links are absent",
			html: `<div class="c-card grideventscroll">
			         <h3 class="c-heading-6">Deep Learning Day</h3>
			         <a href="javascript:void(0)">x</a><a href="#top">y</a>
			       </div>`,
			baseURL:    "https://example.com/",
			wantTitles: []string{"Deep Learning Day"},
			wantLinks:  []string{""},
		},
		{
			name: "relative link without base is absent",
			html: `<div class="c-card grideventscroll">
			         <h3 class="c-heading-6">ML Ops</h3><a href="/e/9">Register</a>
			       </div>`,
			wantTitles: []string{"ML Ops"},
			wantLinks:  []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := FromHTML(tt.html, tt.baseURL)
			if err != nil {
				t.Fatalf("FromHTML() error: %v", err)
			}

			titles := make([]string, 0, len(events))
			links := make([]string, 0, len(events))
			for _, evt := range events {
				if evt.Title == "" {
					t.Error("extracted event has empty title")
				}
				titles = append(titles, evt.Title)
				links = append(links, evt.Link)
			}

			if !reflect.DeepEqual(titles, tt.wantTitles) {
				t.Errorf("titles = %v, want %v", titles, tt.wantTitles)
			}
			if tt.wantLinks != nil && !reflect.DeepEqual(links, tt.wantLinks) {
				t.Errorf("links = %v, want %v", links, tt.wantLinks)
			}
		})
	}
}

func TestFieldLookups(t *testing.T) {
	html := `<div class="c-card grideventscroll">
		<h3 class="c-heading-6">  Azure   AI
			Day </h3>
		<time datetime="2026-10-21">Oct 21</time>
		<div class="session-description">Build agents.</div>
		<a href="https://example.com/r">Register</a>
	</div>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	card := doc.Find(CardSelector).First()

	if got, ok := Title(card); !ok || got != "Azure AI Day" {
		t.Errorf("Title() = %q, %v", got, ok)
	}
	if got, ok := Date(card); !ok || got != "Oct 21" {
		t.Errorf("Date() = %q, %v", got, ok)
	}
	if got, ok := Description(card); !ok || got != "Build agents." {
		t.Errorf("Description() = %q, %v", got, ok)
	}

	base, _ := url.Parse("https://other.example.org/")
	if got, ok := Link(card, base); !ok || got != "https://example.com/r" {
		t.Errorf("Link() = %q, %v", got, ok)
	}

	empty := doc.Find("time").First()
	if _, ok := Description(empty); ok {
		t.Error("Description() on a node without one should report absent")
	}
}
