package dispatch

import (
	"context"

	"github.com/fwojciec/deliver"
)

// Adaptors holds post adaptors by destination name.
// Adaptors is read-only after setup and safe for concurrent use.
type Adaptors struct {
	adaptors []deliver.PostAdaptor
}

// NewAdaptors creates an Adaptors registry holding as in order.
func NewAdaptors(as ...deliver.PostAdaptor) *Adaptors {
	r := &Adaptors{}
	for _, a := range as {
		r.Register(a)
	}
	return r
}

// Register adds an adaptor. A later adaptor with the same name replaces the
// earlier one in place.
func (r *Adaptors) Register(a deliver.PostAdaptor) {
	for i, existing := range r.adaptors {
		if existing.Name() == a.Name() {
			r.adaptors[i] = a
			return
		}
	}
	r.adaptors = append(r.adaptors, a)
}

// Lookup returns the adaptor for a destination.
func (r *Adaptors) Lookup(name string) (deliver.PostAdaptor, bool) {
	for _, a := range r.adaptors {
		if a.Name() == name {
			return a, true
		}
	}
	return nil, false
}

// List returns every registered adaptor in registration order.
func (r *Adaptors) List() []deliver.PostAdaptor {
	out := make([]deliver.PostAdaptor, len(r.adaptors))
	copy(out, r.adaptors)
	return out
}

// Available returns the adaptors with configuration, in registration order.
func (r *Adaptors) Available() []deliver.PostAdaptor {
	var out []deliver.PostAdaptor
	for _, a := range r.adaptors {
		if a.IsAvailable() {
			out = append(out, a)
		}
	}
	return out
}

// Submit posts c to a with the operation matching its kind. An unavailable
// adaptor fails with ECONFIG before any request is made. With opts.Expand a
// reblog is posted as the content it wraps when the fields allow it.
func Submit(ctx context.Context, a deliver.PostAdaptor, c deliver.Content, opts deliver.PostOptions) (*deliver.Response, error) {
	if a == nil {
		return nil, deliver.Errorf(deliver.EINVALID, "adaptor required")
	}
	if !a.IsAvailable() {
		return nil, deliver.Errorf(deliver.ECONFIG, "%s is not configured", a.Name())
	}
	if c == nil {
		return nil, deliver.Errorf(deliver.EINVALID, "content required")
	}

	if r, ok := c.(*deliver.Reblog); ok && opts.Expand {
		if expanded, err := deliver.ExpandReblog(r); err == nil {
			c = expanded
		}
	}

	switch c := c.(type) {
	case *deliver.Link:
		return a.PostLink(ctx, c, opts)
	case *deliver.Quote:
		return a.PostQuote(ctx, c, opts)
	case *deliver.Photo:
		return a.PostPhoto(ctx, c, opts)
	case *deliver.Video:
		return a.PostVideo(ctx, c, opts)
	case *deliver.Reblog:
		return a.PostEntry(ctx, c, opts)
	}
	return nil, deliver.Errorf(deliver.EINVALID, "unsupported content kind %s", c.Kind())
}
