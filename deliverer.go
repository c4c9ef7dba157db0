package deliver

import "context"

// Deliverer recognizes applicable pages and elements and builds a content
// record from them. One deliverer exists per source site and content kind.
type Deliverer interface {
	// Name returns the deliverer's identifier (e.g., "ldr-quote").
	Name() string

	// Kind returns the kind of content the deliverer builds.
	Kind() Kind

	// Destination returns the destination the content is meant for, or an
	// empty string when any destination applies.
	Destination() string

	// Match reports whether the deliverer applies. Match never mutates doc.
	Match(doc *Document, el *Element) bool

	// NewContext binds the deliverer to doc and el.
	// Returns ENOMATCH if the deliverer does not apply.
	NewContext(doc *Document, el *Element) (*Context, error)

	// Build creates the content record. Reblog deliverers block until the
	// token extraction reaches a terminal state or ctx is done.
	Build(ctx context.Context, c *Context) (Content, error)

	// Label returns the command label, e.g. "Quote - Google Reader".
	Label(c *Context) string
}
