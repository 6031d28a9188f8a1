package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/pfrederiksen/ai-events/internal/browser"
	"github.com/pfrederiksen/ai-events/internal/config"
)

const listing = `
<html><body>
	<div class="c-card grideventscroll">
		<h3 class="c-heading-6">Machine Learning Summit</h3>
		<p class="title-date">Nov 5, 2026</p>
		<a href="/e/ml">Details</a>
	</div>
	<div class="c-card grideventscroll">
		<h3 class="c-heading-6">Budget Meeting</h3>
		<p class="title-date">Oct 1, 2026</p>
	</div>
	<div class="c-card grideventscroll">
		<h3 class="c-heading-6">AI Training Day</h3>
		<p class="title-date">Oct 21, 2026</p>
		<p class="gridcard-description-min">Hands-on Copilot labs</p>
	</div>
</body></html>`

type stubSession struct{ html string }

func (s stubSession) Navigate(ctx context.Context, url string) error      { return nil }
func (s stubSession) WaitListing(ctx context.Context) error               { return nil }
func (s stubSession) CardCount(ctx context.Context) (int, error)          { return 3, nil }
func (s stubSession) LoadMoreAvailable(ctx context.Context) (bool, error) { return false, nil }
func (s stubSession) ClickLoadMore(ctx context.Context) error             { return browser.ErrNoLoadMore }
func (s stubSession) Scroll(ctx context.Context) error                    { return nil }
func (s stubSession) HTML(ctx context.Context) (string, error)            { return s.html, nil }
func (s stubSession) Close() error                                        { return nil }

type stubLauncher struct{ html string }

func (l stubLauncher) NewSession(ctx context.Context) (browser.Session, error) {
	return stubSession{html: l.html}, nil
}

func useStubBrowser(t *testing.T) {
	t.Helper()
	orig := newLauncher
	newLauncher = func(*config.Config) browser.Launcher { return stubLauncher{html: listing} }
	t.Cleanup(func() { newLauncher = orig })

	for _, k := range []string{config.EnvURL, config.EnvAPIKey, config.EnvLogLevel, config.EnvListen} {
		t.Setenv(k, "")
	}
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer

	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestScrape_JSON(t *testing.T) {
	useStubBrowser(t)

	out, _, err := run(t, "scrape", "--scroll-passes", "0", "--url", "https://example.com/events", "--format", "json", "--log-level", "error")
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}

	var result struct {
		URL      string `json:"url"`
		Count    int    `json:"count"`
		AIEvents []struct {
			Title string `json:"title"`
			Link  string `json:"link"`
		} `json:"ai_events"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}

	if result.Count != 2 {
		t.Fatalf("count = %d, want 2", result.Count)
	}
	if result.AIEvents[0].Title != "Machine Learning Summit" {
		t.Errorf("first event = %q, want page order", result.AIEvents[0].Title)
	}
	if result.AIEvents[0].Link != "https://example.com/e/ml" {
		t.Errorf("link = %q, want resolved against the listing URL", result.AIEvents[0].Link)
	}
}

func TestScrape_TextSortedByDate(t *testing.T) {
	useStubBrowser(t)

	out, _, err := run(t, "scrape", "--scroll-passes", "0", "--sort", "date", "--log-level", "error")
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}

	first := strings.Index(out, "AI Training Day")
	second := strings.Index(out, "Machine Learning Summit")
	if first < 0 || second < 0 || first > second {
		t.Errorf("date order wrong:\n%s", out)
	}
	if !strings.Contains(out, "Total: 2 AI-related events") {
		t.Errorf("missing total:\n%s", out)
	}
	if strings.Contains(out, "Budget Meeting") {
		t.Errorf("irrelevant event printed:\n%s", out)
	}
}

func TestScrape_CustomKeywordsVerbose(t *testing.T) {
	useStubBrowser(t)

	out, stderr, err := run(t, "scrape", "--scroll-passes", "0", "--keyword", "budget", "--verbose", "--log-level", "error")
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}

	if !strings.Contains(out, "Budget Meeting") || strings.Contains(out, "AI Training Day") {
		t.Errorf("keyword override not applied:\n%s", out)
	}
	if !strings.Contains(out, "Matched: [budget]") {
		t.Errorf("verbose output missing matched keywords:\n%s", out)
	}
	if !strings.Contains(stderr, "Fetching events from") {
		t.Errorf("verbose stderr missing progress:\n%s", stderr)
	}
}

func TestScrape_NoMatches(t *testing.T) {
	useStubBrowser(t)

	out, _, err := run(t, "scrape", "--scroll-passes", "0", "--keyword", "Quantum", "--log-level", "error")
	if err != nil {
		t.Fatalf("no matches should not be an error: %v", err)
	}
	if !strings.Contains(out, "No AI-related events found.") {
		t.Errorf("output = %q", out)
	}
}

func TestScrape_InvalidArguments(t *testing.T) {
	useStubBrowser(t)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"bad format", []string{"scrape", "--format", "xml"}, "invalid format"},
		{"bad sort", []string{"scrape", "--sort", "state"}, "invalid sort"},
		{"relative url", []string{"scrape", "--url", "/events"}, "invalid configuration"},
		{"too many iterations", []string{"scrape", "--max-iterations", "500"}, "max_iterations"},
		{"negative scroll passes", []string{"scrape", "--scroll-passes=-1"}, "scroll_passes"},
		{"bad log level", []string{"scrape", "--log-level", "loud"}, "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestServe_RequiresAPIKey(t *testing.T) {
	useStubBrowser(t)

	_, _, err := run(t, "serve", "--log-level", "error")
	if err == nil || !strings.Contains(err.Error(), "API key") {
		t.Errorf("error = %v, want API key requirement", err)
	}
}

func TestKeywordsCommand(t *testing.T) {
	useStubBrowser(t)

	out, _, err := run(t, "keywords", "--keyword", "Robotics", "--keyword", "robotics", "--keyword", "Vision")
	if err != nil {
		t.Fatalf("keywords failed: %v", err)
	}
	if out != "Robotics\nVision\n" {
		t.Errorf("output = %q", out)
	}
}

func TestKeywordsCommand_Defaults(t *testing.T) {
	useStubBrowser(t)

	out, _, err := run(t, "keywords")
	if err != nil {
		t.Fatalf("keywords failed: %v", err)
	}
	if !strings.Contains(out, "Machine Learning\n") || !strings.Contains(out, "Copilot\n") {
		t.Errorf("default keywords missing:\n%s", out)
	}
}
