package event

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name      string
		dateText  string
		wantYear  int
		wantMonth time.Month
		wantDay   int
		wantZero  bool
	}{
		{
			name:      "Short month with comma",
			dateText:  "Oct 21, 2026",
			wantYear:  2026,
			wantMonth: time.October,
			wantDay:   21,
		},
		{
			name:      "Short month with time range suffix",
			dateText:  "Oct 21, 2026 | 9:00 AM - 10:00 AM (UTC)",
			wantYear:  2026,
			wantMonth: time.October,
			wantDay:   21,
		},
		{
			name:      "Long month without comma",
			dateText:  "November 3 2026",
			wantYear:  2026,
			wantMonth: time.November,
			wantDay:   3,
		},
		{
			name:      "Weekday prefix",
			dateText:  "Tuesday, Dec 1, 2026",
			wantYear:  2026,
			wantMonth: time.December,
			wantDay:   1,
		},
		{
			name:      "Four letter September",
			dateText:  "Sept 21, 2026",
			wantYear:  2026,
			wantMonth: time.September,
			wantDay:   21,
		},
		{
			name:      "Abbreviated September with period",
			dateText:  "Sept. 3, 2026 | 1:00 PM",
			wantYear:  2026,
			wantMonth: time.September,
			wantDay:   3,
		},
		{
			name:      "Day first with comma after month",
			dateText:  "21 Oct, 2026",
			wantYear:  2026,
			wantMonth: time.October,
			wantDay:   21,
		},
		{
			name:      "Day first",
			dateText:  "21 October 2026",
			wantYear:  2026,
			wantMonth: time.October,
			wantDay:   21,
		},
		{
			name:      "ISO date",
			dateText:  "2026-02-15 - 2026-02-16",
			wantYear:  2026,
			wantMonth: time.February,
			wantDay:   15,
		},
		{
			name:      "Slash format",
			dateText:  "2/15/2026",
			wantYear:  2026,
			wantMonth: time.February,
			wantDay:   15,
		},
		{
			name:      "Slash format short year",
			dateText:  "02/15/26",
			wantYear:  2026,
			wantMonth: time.February,
			wantDay:   15,
		},
		{
			name:     "Empty string",
			dateText: "",
			wantZero: true,
		},
		{
			name:     "On demand",
			dateText: "On-demand",
			wantZero: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.dateText)

			if tt.wantZero {
				if !got.IsZero() {
					t.Errorf("ParseDate(%q) = %v, want zero time", tt.dateText, got)
				}
				return
			}

			if got.IsZero() {
				t.Fatalf("ParseDate(%q) returned zero time", tt.dateText)
			}
			if got.Year() != tt.wantYear || got.Month() != tt.wantMonth || got.Day() != tt.wantDay {
				t.Errorf("ParseDate(%q) = %v, want %d-%02d-%02d", tt.dateText, got.Format("2006-01-02"), tt.wantYear, tt.wantMonth, tt.wantDay)
			}
		})
	}
}

func TestEvent_StartDate(t *testing.T) {
	evt := New("AI Summit", "Mar 13, 2026", "", "")
	if got := evt.StartDate(); got.Month() != time.March || got.Day() != 13 {
		t.Errorf("StartDate() = %v, want Mar 13", got)
	}
}
