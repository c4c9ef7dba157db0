package goquery

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/deliver"
)

// Ensure Loader implements deliver.DocumentLoader at compile time.
var _ deliver.DocumentLoader = (*Loader)(nil)

// DefaultFrameDepth is how deep nested frames are followed by default.
const DefaultFrameDepth = 1

// Loader fetches a document and, optionally, the documents of its frames.
type Loader struct {
	fetcher    deliver.Fetcher
	frameDepth int
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFrameDepth sets how many levels of iframes are loaded. Zero disables
// frame loading.
func WithFrameDepth(n int) LoaderOption {
	return func(l *Loader) {
		l.frameDepth = n
	}
}

// NewLoader creates a Loader backed by fetcher.
func NewLoader(fetcher deliver.Fetcher, opts ...LoaderOption) *Loader {
	l := &Loader{
		fetcher:    fetcher,
		frameDepth: DefaultFrameDepth,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches url and parses its title. Frames that fail to load are
// skipped; only a failure of the top-level document is an error.
func (l *Loader) Load(ctx context.Context, url string) (*deliver.Document, error) {
	return l.load(ctx, url, l.frameDepth)
}

func (l *Loader) load(ctx context.Context, url string, depth int) (*deliver.Document, error) {
	html, err := l.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	doc := ParseDocument(url, html)
	if depth <= 0 {
		return doc, nil
	}

	for _, src := range frameSources(doc) {
		if err := ctx.Err(); err != nil {
			return nil, deliver.WrapError(deliver.ECANCELED, err)
		}
		frame, err := l.load(ctx, src, depth-1)
		if err != nil {
			continue
		}
		doc.Frames = append(doc.Frames, frame)
	}
	return doc, nil
}

// ParseDocument builds a Document from already-fetched HTML. Frames are not
// loaded.
func ParseDocument(url, html string) *deliver.Document {
	doc := &deliver.Document{URL: url, HTML: html}
	if root, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		doc.Title = deliver.CleanText(root.Find("title").First().Text())
	}
	return doc
}

// frameSources returns the resolved http(s) sources of the document's
// iframes and frames in document order, without duplicates.
func frameSources(doc *deliver.Document) []string {
	p, ok := parsePage(doc, nil)
	if !ok {
		return nil
	}
	seen := make(map[string]bool)
	var srcs []string
	p.root.Find("iframe[src], frame[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		src = p.resolve(strings.TrimSpace(src))
		if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
			return
		}
		if seen[src] {
			return
		}
		seen[src] = true
		srcs = append(srcs, src)
	})
	return srcs
}
