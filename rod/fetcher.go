// Package rod loads pages in headless Chrome. It provides a document fetcher
// for script-rendered pages and the hidden browser surfaces used by reblog
// extraction.
package rod

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fwojciec/deliver"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page load.
const DefaultFetchTimeout = 30 * time.Second

// Ensure Fetcher implements deliver.Fetcher at compile time.
var _ deliver.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager *BrowserManager
	owned   bool
	timeout time.Duration
	closed  atomic.Bool
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithFetchTimeout sets the per-page load timeout. Zero disables it.
func WithFetchTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithManager shares an existing browser. Close then leaves the browser
// running; the caller closes the manager.
func WithManager(bm *BrowserManager) FetcherOption {
	return func(f *Fetcher) {
		f.manager = bm
	}
}

// NewFetcher creates a Fetcher. Without WithManager it launches a headless
// Chrome browser of its own, and Close must be called when the Fetcher is no
// longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...FetcherOption) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}
	if f.manager == nil {
		bm, err := NewBrowserManager()
		if err != nil {
			return nil, err
		}
		f.manager = bm
		f.owned = true
	}
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", deliver.Errorf(deliver.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", deliver.WrapError(deliver.ECANCELED, err)
	}
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	browser := f.manager.acquire()
	if browser == nil {
		return "", deliver.Errorf(deliver.EINVALID, "browser is closed")
	}
	defer f.manager.release()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", pageError(ctx, err)
	}
	defer func() { _ = page.Close() }()

	return load(ctx, page, url)
}

// Close releases the browser when the Fetcher launched it. Close is safe to
// call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	if !f.owned {
		return nil
	}
	return f.manager.Close()
}

// load navigates page to url bound to ctx, waits for the load event and
// returns the serialized DOM.
func load(ctx context.Context, page *rod.Page, url string) (string, error) {
	page = page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return "", pageError(ctx, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", pageError(ctx, err)
	}
	html, err := page.HTML()
	if err != nil {
		return "", pageError(ctx, err)
	}
	return html, nil
}

// pageError classifies a browser failure: cancellation when ctx is done,
// transport otherwise. The cause stays reachable through errors.Is.
func pageError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return deliver.WrapError(deliver.ECANCELED, err)
	}
	return deliver.WrapError(deliver.ETRANSPORT, err)
}
