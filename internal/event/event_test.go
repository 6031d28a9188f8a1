package event

import (
	"testing"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name  string
		title string
		date  string
		link  string
	}{
		{
			name:  "same input produces same ID",
			title: "AI Training Day",
			date:  "Oct 21, 2026",
			link:  "https://example.com/register",
		},
		{
			name:  "no link",
			title: "Copilot Office Hours",
			date:  "Nov 3, 2026",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := GenerateID(tt.title, tt.date, tt.link)
			id2 := GenerateID(tt.title, tt.date, tt.link)

			if id1 != id2 {
				t.Errorf("GenerateID should be deterministic, got different IDs: %s vs %s", id1, id2)
			}

			if len(id1) != 40 { // SHA1 produces 40 hex characters
				t.Errorf("expected ID length of 40, got %d", len(id1))
			}
		})
	}
}

func TestGenerateID_TitleCaseInsensitive(t *testing.T) {
	a := GenerateID("AI Training Day", "Oct 21", "")
	b := GenerateID("  ai training day ", "Oct 21", "")
	if a != b {
		t.Errorf("IDs differ for titles differing only in case and padding: %s vs %s", a, b)
	}

	if a == GenerateID("AI Training Day", "Oct 22", "") {
		t.Error("IDs should differ when the date differs")
	}
}

func TestNew(t *testing.T) {
	evt := New("AI Training Day", "Oct 21, 2026", "Hands-on labs", "https://example.com/r")

	if evt.ID == "" {
		t.Error("expected ID to be generated")
	}
	if evt.Title != "AI Training Day" {
		t.Errorf("expected title to be 'AI Training Day', got '%s'", evt.Title)
	}
	if evt.Date != "Oct 21, 2026" {
		t.Errorf("expected date to be preserved verbatim, got '%s'", evt.Date)
	}
	if !evt.HasLink() {
		t.Error("expected HasLink to be true")
	}
}

func TestEvent_HasLinkAndValid(t *testing.T) {
	tests := []struct {
		name      string
		evt       Event
		wantLink  bool
		wantValid bool
	}{
		{"complete", New("Title", "Date", "Desc", "https://x"), true, true},
		{"no link", New("Title", "", "", ""), false, true},
		{"blank title", New("   ", "Date", "Desc", "https://x"), true, false},
		{"zero value", Event{}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.evt.HasLink(); got != tt.wantLink {
				t.Errorf("HasLink() = %v, want %v", got, tt.wantLink)
			}
			if got := tt.evt.Valid(); got != tt.wantValid {
				t.Errorf("Valid() = %v, want %v", got, tt.wantValid)
			}
		})
	}
}
