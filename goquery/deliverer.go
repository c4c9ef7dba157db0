package goquery

import (
	"context"

	"github.com/fwojciec/deliver"
)

// Ensure deliverers implement deliver.Deliverer at compile time.
var (
	_ deliver.Deliverer = (*LinkDeliverer)(nil)
	_ deliver.Deliverer = (*QuoteDeliverer)(nil)
)

// base carries the identity shared by every deliverer and binds contexts
// with its matcher.
type base struct {
	name        string
	kind        deliver.Kind
	destination string
	matcher     deliver.Matcher
}

func (b *base) Name() string        { return b.name }
func (b *base) Kind() deliver.Kind  { return b.kind }
func (b *base) Destination() string { return b.destination }

// Label returns "<Kind> - <site>".
func (b *base) Label(c *deliver.Context) string {
	if c == nil {
		return b.kind.Title()
	}
	return deliver.Label(b.kind, c.MenuLabel)
}

// newContext extracts the context with the matcher. match gates the
// deliverer-specific predicate.
func (b *base) newContext(doc *deliver.Document, el *deliver.Element, match func(*deliver.Document, *deliver.Element) bool) (*deliver.Context, error) {
	if !match(doc, el) {
		return nil, deliver.Errorf(deliver.ENOMATCH, "%s does not apply to %s", b.name, docURL(doc))
	}
	return b.matcher.Extract(doc, el)
}

// qualified names a deliverer after its matcher: "ldr-quote", or plain
// "quote" for the default matcher.
func qualified(m deliver.Matcher, kind deliver.Kind) string {
	if m == nil || m.Name() == NameDefault {
		return string(kind)
	}
	return m.Name() + "-" + string(kind)
}

// LinkDeliverer posts the page (or the clicked link on ordinary pages) as a
// link. The selection becomes the description.
type LinkDeliverer struct {
	base
	clickedLink bool
}

// NewLinkDeliverer creates a LinkDeliverer over matcher. With the default
// matcher a clicked link takes precedence over the page.
func NewLinkDeliverer(matcher deliver.Matcher) *LinkDeliverer {
	return &LinkDeliverer{
		base:        base{name: qualified(matcher, deliver.KindLink), kind: deliver.KindLink, matcher: matcher},
		clickedLink: matcher.Name() == NameDefault,
	}
}

// Match reports whether the matcher applies.
func (d *LinkDeliverer) Match(doc *deliver.Document, el *deliver.Element) bool {
	return d.matcher.Match(doc, el)
}

// NewContext binds the deliverer to doc and el.
func (d *LinkDeliverer) NewContext(doc *deliver.Document, el *deliver.Element) (*deliver.Context, error) {
	return d.newContext(doc, el, d.Match)
}

// Build creates the Link record.
func (d *LinkDeliverer) Build(_ context.Context, c *deliver.Context) (deliver.Content, error) {
	meta := c.Meta()
	if d.clickedLink && c.Element != nil && c.Element.LinkURL != "" {
		meta.URL = c.Element.LinkURL
		meta.Title = deliver.CleanText(c.Element.LinkTitle)
		if meta.Title == "" {
			meta.Title = meta.URL
		}
	}
	if meta.URL == "" {
		return nil, deliver.Errorf(deliver.EPARSE, "no URL to link to")
	}
	return &deliver.Link{Meta: meta, Description: c.Selection()}, nil
}

// QuoteDeliverer posts the selection as a quote attributed to the page.
type QuoteDeliverer struct {
	base
}

// NewQuoteDeliverer creates a QuoteDeliverer over matcher.
func NewQuoteDeliverer(matcher deliver.Matcher) *QuoteDeliverer {
	return &QuoteDeliverer{
		base: base{name: qualified(matcher, deliver.KindQuote), kind: deliver.KindQuote, matcher: matcher},
	}
}

// Match reports whether there is a selection and the matcher applies.
func (d *QuoteDeliverer) Match(doc *deliver.Document, el *deliver.Element) bool {
	if el == nil || deliver.CleanText(el.Selection) == "" {
		return false
	}
	return d.matcher.Match(doc, el)
}

// NewContext binds the deliverer to doc and el.
func (d *QuoteDeliverer) NewContext(doc *deliver.Document, el *deliver.Element) (*deliver.Context, error) {
	return d.newContext(doc, el, d.Match)
}

// Build creates the Quote record. The source is an anchor to the entry.
func (d *QuoteDeliverer) Build(_ context.Context, c *deliver.Context) (deliver.Content, error) {
	text := c.Selection()
	if text == "" {
		return nil, deliver.Errorf(deliver.EINVALID, "selection required for quote")
	}
	return &deliver.Quote{
		Meta:   c.Meta(),
		Text:   text,
		Source: c.AnchorToDocument(),
	}, nil
}
