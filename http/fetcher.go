// Package http provides net/http implementations of the deliver transport
// interfaces: a document fetcher, a hidden surface that parses raw HTML
// responses, and a form/multipart client used by the destination adaptors.
package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/deliver"
	"golang.org/x/net/html/charset"
)

const (
	// DefaultFetchTimeout bounds one document request.
	DefaultFetchTimeout = 10 * time.Second

	// MaxDocumentSize is the largest document body Fetch reads.
	MaxDocumentSize = 8 << 20
)

var _ deliver.Fetcher = (*Fetcher)(nil)

// Fetcher loads page source over plain HTTP. Scripts on the page do not run,
// so content a page builds client-side is missing; use rod.Fetcher for those.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout bounds each request, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header. Defaults to DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{timeout: DefaultFetchTimeout, userAgent: DefaultUserAgent}
	for _, opt := range opts {
		opt(f)
	}
	f.client = &http.Client{Timeout: f.timeout}
	return f
}

// Fetch returns the document at url as UTF-8, transcoding from the charset the
// response declares or that is sniffed from its first bytes. Any 2xx status
// is a success.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", deliver.Errorf(deliver.EINVALID, "invalid URL %q: %v", url, err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", transportError(ctx, fmt.Errorf("fetching %s: %w", url, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", deliver.Errorf(deliver.ETRANSPORT, "HTTP %d for %s", resp.StatusCode, url)
	}

	decoded, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if errors.Is(err, io.EOF) {
		// Nothing to sniff: the document is empty.
		return "", nil
	}
	if err != nil {
		return "", deliver.Errorf(deliver.EPARSE, "decoding %s: %v", url, err)
	}
	// One byte past the cap tells an oversized body from one exactly at it.
	body, err := io.ReadAll(io.LimitReader(decoded, MaxDocumentSize+1))
	if err != nil {
		return "", transportError(ctx, fmt.Errorf("reading %s: %w", url, err))
	}
	if len(body) > MaxDocumentSize {
		return "", deliver.Errorf(deliver.ETRANSPORT, "%s is larger than %d bytes", url, MaxDocumentSize)
	}
	return string(body), nil
}

// Close drops idle keep-alive connections.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}

// transportError reports failures caused by ctx as cancellations and
// everything else as transport errors.
func transportError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return deliver.WrapError(deliver.ECANCELED, err)
	}
	return deliver.WrapError(deliver.ETRANSPORT, err)
}
