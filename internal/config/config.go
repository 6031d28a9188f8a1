// Package config loads the scraper and service settings from YAML and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/pfrederiksen/ai-events/internal/browser"
	"github.com/pfrederiksen/ai-events/internal/extract"
	"github.com/pfrederiksen/ai-events/internal/filter"
	"github.com/pfrederiksen/ai-events/internal/logger"
	"github.com/pfrederiksen/ai-events/internal/scraper"
	"gopkg.in/yaml.v3"
)

const (
	DefaultListen         = ":8000"
	DefaultRequestTimeout = 3 * time.Minute
	MaxIterationsLimit    = 100
)

// Environment variables that override file values.
const (
	EnvAPIKey   = "API_KEY"
	EnvURL      = "AI_EVENTS_URL"
	EnvListen   = "AI_EVENTS_LISTEN"
	EnvLogLevel = "AI_EVENTS_LOG_LEVEL"
)

// Config is the top-level application configuration.
type Config struct {
	// URL is the events listing page.
	URL string `yaml:"url"`

	// Keywords replaces the default AI keyword set when non-empty.
	Keywords []string `yaml:"keywords"`

	// MaxIterations caps "load more" activations per scrape. Zero in the file means
	// the default; the --max-iterations flag can still set it to zero.
	MaxIterations int `yaml:"max_iterations"`

	// ScrollPasses is the number of scroll-to-bottom passes after expansion. Zero in the
	// file means the default; the --scroll-passes flag can set it to zero.
	ScrollPasses    int           `yaml:"scroll_passes"`
	NavigateTimeout time.Duration `yaml:"navigate_timeout"`
	RenderTimeout   time.Duration `yaml:"render_timeout"`
	ExpandTimeout   time.Duration `yaml:"expand_timeout"`
	SettleDelay     time.Duration `yaml:"settle_delay"`
	PollInterval    time.Duration `yaml:"poll_interval"`

	// RequestTimeout bounds one whole scrape, including browser startup.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	LoadMorePrefixes []string `yaml:"load_more_prefixes"`
	UserAgent        string   `yaml:"user_agent"`
	ChromePath       string   `yaml:"chrome_path"`
	ShowBrowser      bool     `yaml:"show_browser"`

	Listen   string `yaml:"listen"`
	APIKey   string `yaml:"api_key"`
	LogLevel string `yaml:"log_level"`
}

// Default returns an in-memory default configuration.
func Default() *Config {
	c := &Config{}
	c.Normalize()
	return c
}

// Normalize fills missing or zero values with defaults.
func (c *Config) Normalize() {
	c.URL = strings.TrimSpace(c.URL)
	if c.URL == "" {
		c.URL = scraper.ListingURL
	}
	if len(c.Keywords) == 0 {
		c.Keywords = append([]string(nil), filter.DefaultKeywords...)
	}
	if c.MaxIterations == 0 {
		c.MaxIterations = scraper.DefaultMaxIterations
	}
	if c.NavigateTimeout <= 0 {
		c.NavigateTimeout = browser.DefaultNavigateTimeout
	}
	if c.RenderTimeout <= 0 {
		c.RenderTimeout = browser.DefaultRenderTimeout
	}
	if c.ExpandTimeout <= 0 {
		c.ExpandTimeout = browser.DefaultExpandTimeout
	}
	if c.SettleDelay == 0 {
		c.SettleDelay = browser.DefaultSettleDelay
	}
	if c.PollInterval <= 0 {
		c.PollInterval = browser.DefaultPollInterval
	}
	if c.ScrollPasses == 0 {
		c.ScrollPasses = browser.DefaultScrollPasses
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if len(c.LoadMorePrefixes) == 0 {
		c.LoadMorePrefixes = append([]string(nil), browser.DefaultLoadMorePrefixes...)
	}
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	c.LogLevel = strings.ToUpper(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
}

// Load reads configuration from the given YAML path.
// An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Info("Config file not found, using defaults", logger.Fields{"path": path})
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	c.Normalize()

	return &c, nil
}

// ApplyEnv overrides file values with any environment variables that are set.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(EnvAPIKey); ok && v != "" {
		c.APIKey = v
	}
	if v, ok := lookup(EnvURL); ok && v != "" {
		c.URL = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvListen); ok && v != "" {
		c.Listen = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = strings.ToUpper(strings.TrimSpace(v))
	}
}

// Validate reports the first setting that cannot be used for a scrape.
func (c *Config) Validate() error {
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", c.URL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid url %q: must be an absolute http(s) URL", c.URL)
	}

	if filter.NewKeywords(c.Keywords).Len() == 0 {
		return errors.New("at least one non-blank keyword is required")
	}

	if c.MaxIterations < 0 || c.MaxIterations > MaxIterationsLimit {
		return fmt.Errorf("max_iterations must be between 0 and %d, got %d", MaxIterationsLimit, c.MaxIterations)
	}
	if c.ScrollPasses < 0 {
		return fmt.Errorf("scroll_passes must not be negative, got %d", c.ScrollPasses)
	}

	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

// ValidateServe additionally checks the settings the HTTP service needs.
func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.APIKey == "" {
		return fmt.Errorf("an API key is required to serve; set %s or api_key", EnvAPIKey)
	}
	if c.Listen == "" {
		return errors.New("listen address is empty")
	}
	return nil
}

// BrowserOptions returns the page-loader timing settings.
func (c *Config) BrowserOptions() browser.Options {
	return browser.Options{
		NavigateTimeout: c.NavigateTimeout,
		RenderTimeout:   c.RenderTimeout,
		ExpandTimeout:   c.ExpandTimeout,
		SettleDelay:     c.SettleDelay,
		PollInterval:    c.PollInterval,
		ScrollPasses:    c.ScrollPasses,
	}
}

// Scraper returns the immutable per-invocation scraper configuration.
func (c *Config) Scraper() scraper.Config {
	return scraper.Config{
		URL:           c.URL,
		Keywords:      filter.NewKeywords(c.Keywords),
		MaxIterations: c.MaxIterations,
		Browser:       c.BrowserOptions(),
		Timeout:       c.RequestTimeout,
	}
}

// Launcher returns a headless Chrome launcher for these settings.
func (c *Config) Launcher() *browser.ChromeLauncher {
	return &browser.ChromeLauncher{
		ExecPath:         c.ChromePath,
		UserAgent:        c.UserAgent,
		ShowBrowser:      c.ShowBrowser,
		CardSelector:     extract.CardSelector,
		LoadMorePrefixes: c.LoadMorePrefixes,
	}
}
