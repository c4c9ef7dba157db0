package deliver

// Context is the extraction context bound to one user action: the source
// document, the selected element, and the site-specific metadata a matcher
// pulled out of them. A Context is short-lived and never shared.
type Context struct {
	Document *Document
	Element  *Element

	// Site names the matcher that produced the context ("ldr", "default").
	Site string

	// Entry metadata extracted by the matcher. Empty fields fall back to
	// document-level values in the accessor methods.
	Title       string
	SourceLabel string
	URL         string
	Author      string

	// MenuLabel is the site suffix used in command labels, e.g. "Google Reader".
	MenuLabel string
}

// DocumentTitle returns the extracted title, or the document title.
func (c *Context) DocumentTitle() string {
	if c.Title != "" {
		return c.Title
	}
	if c.Document != nil {
		return c.Document.Title
	}
	return ""
}

// DocumentURL returns the extracted canonical URL, or the document URL.
func (c *Context) DocumentURL() string {
	if c.URL != "" {
		return c.URL
	}
	if c.Document != nil {
		return c.Document.URL
	}
	return ""
}

// AnchorToDocument returns an HTML anchor tag pointing at the document.
func (c *Context) AnchorToDocument() string {
	return AnchorHTML(c.DocumentURL(), c.DocumentTitle())
}

// Selection returns the trimmed selection text of the element.
func (c *Context) Selection() string {
	if c.Element == nil {
		return ""
	}
	return CleanText(c.Element.Selection)
}

// Meta returns the common content fields derived from the context.
func (c *Context) Meta() Meta {
	return Meta{
		Title:       c.DocumentTitle(),
		SourceLabel: c.SourceLabel,
		URL:         c.DocumentURL(),
	}
}

// Matcher recognizes a source site and extracts an extraction context from it.
type Matcher interface {
	// Name returns the matcher's identifier (e.g., "ldr", "default").
	Name() string

	// Match reports whether the matcher applies to the element in doc.
	Match(doc *Document, el *Element) bool

	// Extract builds the extraction context.
	// Returns ENOMATCH if the matcher does not apply.
	Extract(doc *Document, el *Element) (*Context, error)
}
