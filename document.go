package deliver

import "context"

// Document represents a page the user is viewing.
type Document struct {
	// URL is the address the document was loaded from.
	URL string

	// Title is the document title as reported by the loader.
	Title string

	// HTML is the document source (rendered source when loaded in a browser).
	HTML string

	// Frames holds the nested documents (iframes) owned by this document.
	// Only populated when the loader is asked to resolve frames.
	Frames []*Document
}

// FindFrame searches the document and its frames recursively for the
// document loaded from frameURL.
func (d *Document) FindFrame(frameURL string) (*Document, bool) {
	if d == nil {
		return nil, false
	}
	if d.URL == frameURL {
		return d, true
	}
	for _, f := range d.Frames {
		if found, ok := f.FindFrame(frameURL); ok {
			return found, true
		}
	}
	return nil, false
}

// Element describes the element the user clicked, in the shape browsers
// report it.
type Element struct {
	// Selector is a CSS selector identifying the clicked node in its owning
	// document. Empty when the action targets the document as a whole.
	Selector string `json:"selector,omitempty"`

	// FrameURL is the URL of the frame document that owns the node.
	// Empty means the top-level document.
	FrameURL string `json:"frameUrl,omitempty"`

	LinkURL   string `json:"linkUrl,omitempty"`
	LinkTitle string `json:"linkTitle,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
	ImageAlt  string `json:"imageAlt,omitempty"`

	// Selection is the browser-reported text selection.
	Selection string `json:"selection,omitempty"`
}

// WithSelection returns a copy of the element carrying the given selection.
func (e *Element) WithSelection(selection string) *Element {
	var cp Element
	if e != nil {
		cp = *e
	}
	cp.Selection = selection
	return &cp
}

// OwnerDocument returns the document that owns the element: the frame named
// by el.FrameURL, or doc itself for top-level elements. Returns false when the
// named frame is not part of doc.
func OwnerDocument(doc *Document, el *Element) (*Document, bool) {
	if doc == nil {
		return nil, false
	}
	if el == nil || el.FrameURL == "" {
		return doc, true
	}
	return doc.FindFrame(el.FrameURL)
}

// DocumentLoader loads a document and, optionally, its frames.
type DocumentLoader interface {
	Load(ctx context.Context, url string) (*Document, error)
}
