package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pfrederiksen/ai-events/internal/api"
	"github.com/pfrederiksen/ai-events/internal/browser"
	"github.com/pfrederiksen/ai-events/internal/config"
	"github.com/pfrederiksen/ai-events/internal/filter"
	"github.com/pfrederiksen/ai-events/internal/logger"
	"github.com/pfrederiksen/ai-events/internal/metrics"
	"github.com/pfrederiksen/ai-events/internal/scraper"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// Version is set at build time.
var Version = "dev"

// newLauncher builds the browser launcher for a configuration. Tests replace it.
var newLauncher = func(cfg *config.Config) browser.Launcher {
	return cfg.Launcher()
}

type rootOptions struct {
	configPath    string
	url           string
	keywords      []string
	maxIterations int
	scrollPasses  int
	logLevel      string
	chromePath    string

	cfg *config.Config
}

type scrapeOptions struct {
	format  string
	sort    string
	verbose bool
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "ai-events",
		Short: "Find AI-related events on the Microsoft events listing",
		Long: `A tool that loads the Microsoft events listing in headless Chrome, expands it
through its "load more" control, and reports the events matching an AI keyword set.
Run a single scrape with "scrape" or expose the results over HTTP with "serve".`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	flags.StringVar(&opts.url, "url", "", "Events listing URL")
	flags.StringArrayVar(&opts.keywords, "keyword", nil, "Keyword to match (repeatable, replaces the defaults)")
	flags.IntVar(&opts.maxIterations, "max-iterations", scraper.DefaultMaxIterations, "Maximum 'load more' activations")
	flags.IntVar(&opts.scrollPasses, "scroll-passes", browser.DefaultScrollPasses, "Scroll-to-bottom passes after expansion (0 disables)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&opts.chromePath, "chrome-path", "", "Chrome/Chromium executable (default: auto-detect)")

	cmd.AddCommand(newScrapeCmd(opts), newServeCmd(opts), newKeywordsCmd(opts))

	return cmd
}

// load builds the effective configuration: file, then environment, then flags.
func (o *rootOptions) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg.ApplyEnv(os.LookupEnv)

	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.URL = strings.TrimSpace(o.url)
	}
	if flags.Changed("keyword") {
		cfg.Keywords = o.keywords
	}
	if flags.Changed("max-iterations") {
		cfg.MaxIterations = o.maxIterations
	}
	if flags.Changed("scroll-passes") {
		cfg.ScrollPasses = o.scrollPasses
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = strings.ToUpper(o.logLevel)
	}
	if flags.Changed("chrome-path") {
		cfg.ChromePath = o.chromePath
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	o.cfg = cfg
	return nil
}

func newScrapeCmd(root *rootOptions) *cobra.Command {
	opts := &scrapeOptions{}

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape the listing once and print the AI-related events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), root.cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text, json or ics")
	cmd.Flags().StringVar(&opts.sort, "sort", "page", "Sort order: page, date or title")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Show IDs, descriptions and matched keywords")

	return cmd
}

// runScrape is the main command logic
func runScrape(ctx context.Context, stdout, stderr io.Writer, cfg *config.Config, opts *scrapeOptions) error {
	format, err := ParseOutputFormat(opts.format)
	if err != nil {
		return err
	}

	order, err := ParseSortOrder(opts.sort)
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sc := scraper.New(cfg.Scraper(), newLauncher(cfg))

	if opts.verbose {
		fmt.Fprintf(stderr, "Fetching events from %s\n", sc.URL())
		fmt.Fprintf(stderr, "Keywords: %s\n", sc.Keywords())
	}

	events, err := sc.FetchRelevantEvents(ctx)
	if err != nil {
		return fmt.Errorf("fetching events: %w", err)
	}

	sortEvents(events, order)

	result := NewOutputResult(sc.URL(), sc.Keywords(), events)
	if err := WriteOutput(stdout, result, format, opts.verbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

func newServeCmd(root *rootOptions) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve AI-related events over HTTP",
		Long: `Start an HTTP service. GET /ai-events runs a fresh scrape per request and
requires the API key (X-API-Key header or Authorization: Bearer). GET /health and
GET /metrics are open.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := root.cfg
			if cmd.Flags().Changed("listen") {
				cfg.Listen = listen
			}
			if err := cfg.ValidateServe(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", config.DefaultListen, "HTTP listen address")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	recorder := metrics.New()
	sc := scraper.New(cfg.Scraper(), newLauncher(cfg), scraper.WithMetrics(recorder))

	handler := api.NewHandler(sc, recorder, Version)
	engine := api.NewServer(handler, cfg.APIKey)

	logger.Info("AI events service starting", logger.Fields{
		"listen":         cfg.Listen,
		"url":            cfg.URL,
		"keywords":       len(cfg.Keywords),
		"max_iterations": cfg.MaxIterations,
		"version":        Version,
	})

	return api.ListenAndServe(ctx, cfg.Listen, engine, cfg.RequestTimeout)
}

func newKeywordsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "keywords",
		Short: "Print the effective keyword set",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, kw := range filter.NewKeywords(root.cfg.Keywords).List() {
				fmt.Fprintln(cmd.OutOrStdout(), kw)
			}
			return nil
		},
	}
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
