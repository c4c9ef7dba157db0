package goquery

import (
	"strings"

	"github.com/fwojciec/deliver"
)

// Matcher names.
const (
	NameLDR          = "ldr"
	NameGoogleReader = "greader"
	NameInstapaper   = "instapaper"
	NameDefault      = "default"
)

// Ensure matchers implement deliver.Matcher at compile time.
var (
	_ deliver.Matcher = (*SiteMatcher)(nil)
	_ deliver.Matcher = (*DefaultMatcher)(nil)
)

// SiteMatcherConfig describes how a source site is recognized and how entry
// metadata is read from it.
type SiteMatcherConfig struct {
	Name      string
	MenuLabel string

	// URLPrefixes identify the site by document URL (scheme stripped).
	URLPrefixes []string

	// Markers identify the site by document structure. The site applies
	// when the URL or at least one marker matches.
	Markers []string

	// Entry is matched against the clicked node's ancestor chain. When
	// empty the whole document is the entry.
	Entry string

	Title  []field
	URL    []field
	Author []field

	// Source fields are tried inside the entry first, then on the document.
	Source []field
}

// SiteMatcher recognizes a known source site by URL or structural markers
// and extracts entry metadata with ordered selector lists.
type SiteMatcher struct {
	cfg SiteMatcherConfig
}

// NewSiteMatcher creates a SiteMatcher from cfg.
func NewSiteMatcher(cfg SiteMatcherConfig) *SiteMatcher {
	return &SiteMatcher{cfg: cfg}
}

// NewLDRMatcher returns the Livedoor Reader matcher.
func NewLDRMatcher() *SiteMatcher {
	return NewSiteMatcher(SiteMatcherConfig{
		Name:        NameLDR,
		MenuLabel:   "Livedoor Reader",
		URLPrefixes: []string{"reader.livedoor.com/reader", "reader.livedoor.com/public"},
		Markers:     []string{"#right_body", "#subs_container"},
		Entry:       `div[id^="item_"]`,
		Title:       []field{text(".item_title a"), text(".item_title")},
		URL:         []field{attr(".item_title a", "href"), attr("a.item_permalink", "href")},
		Author:      []field{text(".author")},
		Source: []field{
			text("#right_body .channel .title"),
			text(".feed_title"),
			text(".channel_title"),
		},
	})
}

// NewGoogleReaderMatcher returns the Google Reader matcher.
func NewGoogleReaderMatcher() *SiteMatcher {
	return NewSiteMatcher(SiteMatcherConfig{
		Name:        NameGoogleReader,
		MenuLabel:   "Google Reader",
		URLPrefixes: []string{"www.google.com/reader", "www.google.co.jp/reader"},
		Markers:     []string{"#entries", "#viewer-entries-container"},
		Entry:       "div.entry",
		Title:       []field{text(".entry-title a.entry-title-link"), text(".entry-title")},
		URL:         []field{attr("a.entry-title-link", "href"), attr(".entry-title a", "href")},
		Author:      []field{text(".entry-author-name")},
		Source: []field{
			text(".entry-source-title"),
			text("#chrome-stream-title a"),
			text("#chrome-stream-title"),
		},
	})
}

// NewInstapaperMatcher returns the matcher for Instapaper's reading pages.
// The extracted URL is the original article's.
func NewInstapaperMatcher() *SiteMatcher {
	return NewSiteMatcher(SiteMatcherConfig{
		Name:        NameInstapaper,
		MenuLabel:   "Instapaper",
		URLPrefixes: []string{"www.instapaper.com/read/", "www.instapaper.com/text"},
		Markers:     []string{"#titlebar a.original"},
		Title:       []field{text("#titlebar h1"), text("title")},
		URL: []field{
			attr("#titlebar a.original", "href"),
			attr(".original a", "href"),
			attr(`link[rel="canonical"]`, "href"),
		},
		Author: []field{text("#titlebar .author")},
		Source: []field{text("#titlebar .origin"), text("#titlebar .host")},
	})
}

// Name returns the matcher's identifier.
func (m *SiteMatcher) Name() string {
	return m.cfg.Name
}

// Match reports whether doc belongs to the site and, when the site has
// entries, whether the clicked node lies inside one.
func (m *SiteMatcher) Match(doc *deliver.Document, el *deliver.Element) bool {
	p, ok := parsePage(doc, el)
	if !ok {
		return false
	}
	return m.matchPage(p)
}

func (m *SiteMatcher) matchPage(p *page) bool {
	if !m.isSite(p) {
		return false
	}
	if m.cfg.Entry == "" {
		return true
	}
	return p.target.Closest(m.cfg.Entry).Length() > 0
}

func (m *SiteMatcher) isSite(p *page) bool {
	u := p.doc.URL
	u = strings.TrimPrefix(u, "https://")
	u = strings.TrimPrefix(u, "http://")
	for _, prefix := range m.cfg.URLPrefixes {
		if strings.HasPrefix(u, prefix) {
			return true
		}
	}
	return has(p.root.Selection, m.cfg.Markers...)
}

// Extract reads the entry metadata. Returns ENOMATCH if the matcher does not
// apply.
func (m *SiteMatcher) Extract(doc *deliver.Document, el *deliver.Element) (*deliver.Context, error) {
	p, ok := parsePage(doc, el)
	if !ok || !m.matchPage(p) {
		return nil, deliver.Errorf(deliver.ENOMATCH, "%s does not apply to %s", m.cfg.Name, docURL(doc))
	}

	entry := p.root.Selection
	if m.cfg.Entry != "" {
		entry = p.target.Closest(m.cfg.Entry)
	}

	source := first(entry, m.cfg.Source)
	if source == "" && m.cfg.Entry != "" {
		source = first(p.root.Selection, m.cfg.Source)
	}

	return &deliver.Context{
		Document:    p.doc,
		Element:     p.el,
		Site:        m.cfg.Name,
		Title:       first(entry, m.cfg.Title),
		SourceLabel: source,
		URL:         p.resolve(first(entry, m.cfg.URL)),
		Author:      first(entry, m.cfg.Author),
		MenuLabel:   m.cfg.MenuLabel,
	}, nil
}

// DefaultMatcher applies to every document. Metadata comes from the page's
// own markup, then from an optional metadata extractor.
type DefaultMatcher struct {
	metadata deliver.MetadataExtractor
}

// NewDefaultMatcher creates a DefaultMatcher. metadata may be nil.
func NewDefaultMatcher(metadata deliver.MetadataExtractor) *DefaultMatcher {
	return &DefaultMatcher{metadata: metadata}
}

// Name returns the matcher's identifier.
func (m *DefaultMatcher) Name() string {
	return NameDefault
}

// Match returns true for any document whose owning frame is known.
func (m *DefaultMatcher) Match(doc *deliver.Document, el *deliver.Element) bool {
	_, ok := deliver.OwnerDocument(doc, el)
	return ok
}

// Extract reads title, canonical URL, site name and author from the page.
func (m *DefaultMatcher) Extract(doc *deliver.Document, el *deliver.Element) (*deliver.Context, error) {
	p, ok := parsePage(doc, el)
	if !ok {
		return nil, deliver.Errorf(deliver.ENOMATCH, "no document for element in %s", docURL(doc))
	}

	c := &deliver.Context{
		Document:    p.doc,
		Element:     p.el,
		Site:        NameDefault,
		Title:       first(p.root.Selection, []field{text("head title"), text("title")}),
		SourceLabel: p.meta("og:site_name"),
		URL:         p.resolve(first(p.root.Selection, []field{attr(`link[rel="canonical"]`, "href")})),
		Author:      p.meta("author"),
	}
	if c.Title == "" {
		c.Title = p.meta("og:title")
	}
	if c.Title == "" {
		c.Title = deliver.CleanText(p.doc.Title)
	}

	if m.metadata != nil && (c.SourceLabel == "" || c.Title == "" || c.Author == "") {
		if md, err := m.metadata.ExtractMetadata(p.doc.HTML, p.doc.URL); err == nil && md != nil {
			if c.SourceLabel == "" {
				c.SourceLabel = deliver.CleanText(md.SiteName)
			}
			if c.Title == "" {
				c.Title = deliver.CleanText(md.Title)
			}
			if c.Author == "" {
				c.Author = deliver.CleanText(md.Author)
			}
		}
	}

	return c, nil
}

func docURL(doc *deliver.Document) string {
	if doc == nil {
		return ""
	}
	return doc.URL
}
