package goquery

import "github.com/fwojciec/deliver"

// Registry holds site matchers in resolution order and a fallback matcher
// used when no site applies.
// Registry is read-only after setup and safe for concurrent Resolve calls.
type Registry struct {
	fallback deliver.Matcher
	matchers []deliver.Matcher
}

// NewRegistry creates a new Registry with the given fallback matcher.
func NewRegistry(fallback deliver.Matcher) *Registry {
	return &Registry{fallback: fallback}
}

// NewDefaultRegistry returns a registry of the built-in site matchers with a
// DefaultMatcher fallback. metadata may be nil.
func NewDefaultRegistry(metadata deliver.MetadataExtractor) *Registry {
	r := NewRegistry(NewDefaultMatcher(metadata))
	r.Register(NewLDRMatcher())
	r.Register(NewGoogleReaderMatcher())
	r.Register(NewInstapaperMatcher())
	return r
}

// Register appends a site matcher. Earlier registrations win.
func (r *Registry) Register(m deliver.Matcher) {
	r.matchers = append(r.matchers, m)
}

// Get returns the matcher with the given name, including the fallback.
// Returns nil if no matcher has that name.
func (r *Registry) Get(name string) deliver.Matcher {
	for _, m := range r.matchers {
		if m.Name() == name {
			return m
		}
	}
	if r.fallback != nil && r.fallback.Name() == name {
		return r.fallback
	}
	return nil
}

// Fallback returns the fallback matcher.
func (r *Registry) Fallback() deliver.Matcher {
	return r.fallback
}

// Resolve returns the first site matcher that applies to el in doc, or the
// fallback when none does.
func (r *Registry) Resolve(doc *deliver.Document, el *deliver.Element) deliver.Matcher {
	for _, m := range r.matchers {
		if m.Match(doc, el) {
			return m
		}
	}
	return r.fallback
}

// Extract builds the extraction context with the resolved matcher. A site
// matcher reporting ENOMATCH falls through to the fallback.
func (r *Registry) Extract(doc *deliver.Document, el *deliver.Element) (*deliver.Context, error) {
	m := r.Resolve(doc, el)
	if m == nil {
		return nil, deliver.Errorf(deliver.ENOMATCH, "no matcher for %s", docURL(doc))
	}
	c, err := m.Extract(doc, el)
	if deliver.ErrorCode(err) == deliver.ENOMATCH && m != r.fallback && r.fallback != nil {
		return r.fallback.Extract(doc, el)
	}
	return c, err
}

// List returns the names of the registered site matchers in order.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.matchers))
	for _, m := range r.matchers {
		names = append(names, m.Name())
	}
	return names
}
