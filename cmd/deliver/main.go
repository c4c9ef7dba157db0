package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/deliver"
	"github.com/fwojciec/deliver/bluemonday"
	"github.com/fwojciec/deliver/delicious"
	"github.com/fwojciec/deliver/dispatch"
	"github.com/fwojciec/deliver/generic"
	"github.com/fwojciec/deliver/goquery"
	"github.com/fwojciec/deliver/htmltomarkdown"
	deliverhttp "github.com/fwojciec/deliver/http"
	"github.com/fwojciec/deliver/instapaper"
	"github.com/fwojciec/deliver/readability"
	"github.com/fwojciec/deliver/rod"
	deliverslog "github.com/fwojciec/deliver/slog"
	"github.com/fwojciec/deliver/sqlite"
	"github.com/fwojciec/deliver/trafilatura"
	"github.com/fwojciec/deliver/tumblr"
	"github.com/fwojciec/deliver/yammer"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run(); the --db flag overrides it.
	DBPath string

	// SQLite database used by the delivery history.
	DB *sqlite.DB

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	if m.DB != nil {
		if err := m.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		m.DB = nil
	}
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("deliver"),
		kong.Description("Extract content from a web page and post it to a publishing service"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'deliver --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	defer m.Close()

	deps.Logger = newLogger(stderr, cli.Verbose)
	deps.Timeout = cli.Timeout

	if cli.DB != "" {
		m.DBPath = cli.DB
	}

	cmd := strings.SplitN(kongCtx.Command(), " ", 2)[0]
	if cmd == "history" || cmd == "post" {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set DELIVER_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		deps.History = sqlite.NewDeliveryService(m.DB)
	}

	adaptors := m.adaptors(cli, deps.Logger)
	deps.Service = &dispatch.Service{
		Deliverers: dispatch.NewRegistry(),
		Adaptors:   adaptors,
		History:    deps.History,
		Logger:     deps.Logger,
	}

	if cmd == "commands" || cmd == "post" {
		if err := m.wirePipeline(cli, deps); err != nil {
			return err
		}
	}

	return kongCtx.Run(deps)
}

// wirePipeline sets up page loading, matchers, and deliverers.
func (m *Main) wirePipeline(cli *CLI, deps *Dependencies) error {
	var fetcher deliver.Fetcher
	var opener deliver.SurfaceOpener

	switch cli.Surface {
	case "rod":
		bm, err := rod.NewBrowserManager()
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		m.closers = append(m.closers, bm)

		rf, err := rod.NewFetcher(rod.WithManager(bm), rod.WithFetchTimeout(cli.Timeout))
		if err != nil {
			return fmt.Errorf("failed to create browser fetcher: %w", err)
		}
		m.closers = append(m.closers, rf)
		fetcher, opener = rf, bm
	default:
		hf := deliverhttp.NewFetcher(deliverhttp.WithTimeout(cli.Timeout))
		m.closers = append(m.closers, hf)
		fetcher = hf
		opener = deliverhttp.NewSurfaceOpener(deliverhttp.WithTimeout(cli.Timeout))
	}

	deps.Loader = goquery.NewLoader(deliverslog.NewLoggingFetcher(fetcher, deps.Logger))

	matchers := newMatchers(metadataExtractor(cli.Metadata), deps.Logger, cli.Verbose)
	newExtractor := tumblr.NewExtractorFunc(
		deliverslog.NewLoggingSurfaceOpener(opener, deps.Logger),
		tumblr.WithSanitizer(bluemonday.NewSanitizer()),
		tumblr.WithDelegate(deliverslog.NewExtractorDelegate(nil, deps.Logger)),
		tumblr.WithExtractTimeout(cli.Timeout),
	)
	deps.Service.Deliverers = dispatch.NewRegistry(goquery.DefaultDeliverers(matchers, newExtractor)...)
	return nil
}

// adaptors builds the destination registry in menu order.
func (m *Main) adaptors(cli *CLI, logger *slog.Logger) *dispatch.Adaptors {
	client := deliverhttp.NewClient(deliverhttp.WithClientTimeout(cli.Timeout))
	converter := htmltomarkdown.NewConverter()

	as := []deliver.PostAdaptor{
		tumblr.NewAdaptor(tumblr.Config{
			Email:    cli.Tumblr.Email,
			Password: cli.Tumblr.Password,
		}, tumblr.WithClient(client)),
		delicious.NewAdaptor(delicious.Config{
			User:     cli.Delicious.User,
			Password: cli.Delicious.Password,
		}, delicious.WithClient(client)),
		instapaper.NewAdaptor(instapaper.Config{
			User:     cli.Instapaper.User,
			Password: cli.Instapaper.Password,
		}, instapaper.WithClient(client), instapaper.WithConverter(converter)),
		yammer.NewAdaptor(yammer.Config{
			Token:   cli.Yammer.Token,
			GroupID: cli.Yammer.Group,
		}, yammer.WithClient(client), yammer.WithConverter(converter)),
		generic.NewAdaptor(generic.Config{
			Endpoint: cli.Generic.Endpoint,
			Token:    cli.Generic.Token,
		}, generic.WithClient(client)),
	}

	r := dispatch.NewAdaptors()
	for _, a := range as {
		r.Register(deliverslog.NewLoggingAdaptor(a, logger))
	}
	return r
}

// newMatchers returns the site matcher registry. Verbose runs log every
// context extraction.
func newMatchers(metadata deliver.MetadataExtractor, logger *slog.Logger, verbose bool) *goquery.Registry {
	if !verbose {
		return goquery.NewDefaultRegistry(metadata)
	}

	r := goquery.NewRegistry(deliverslog.NewLoggingMatcher(goquery.NewDefaultMatcher(metadata), logger))
	r.Register(deliverslog.NewLoggingMatcher(goquery.NewLDRMatcher(), logger))
	r.Register(deliverslog.NewLoggingMatcher(goquery.NewGoogleReaderMatcher(), logger))
	r.Register(deliverslog.NewLoggingMatcher(goquery.NewInstapaperMatcher(), logger))
	return r
}

func metadataExtractor(name string) deliver.MetadataExtractor {
	switch name {
	case "readability":
		return readability.NewExtractor()
	case "none":
		return nil
	default:
		return trafilatura.NewExtractor()
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "deliver.db"
	}
	dir := filepath.Join(home, ".deliver")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "history.db")
}
