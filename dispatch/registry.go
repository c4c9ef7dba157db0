// Package dispatch connects deliverers to post adaptors. It evaluates the
// registered deliverers against a page, exposes the applicable ones as
// commands, and runs one build-then-submit pipeline per invoked command.
package dispatch

import "github.com/fwojciec/deliver"

// Registry holds deliverers in dispatch order.
// Registry is read-only after setup and safe for concurrent Dispatch calls.
type Registry struct {
	deliverers []deliver.Deliverer
}

// NewRegistry creates a Registry holding ds in order.
func NewRegistry(ds ...deliver.Deliverer) *Registry {
	r := &Registry{}
	for _, d := range ds {
		r.Register(d)
	}
	return r
}

// Register appends a deliverer. Earlier registrations are listed first.
func (r *Registry) Register(d deliver.Deliverer) {
	r.deliverers = append(r.deliverers, d)
}

// Get returns the deliverer with the given name, or nil.
func (r *Registry) Get(name string) deliver.Deliverer {
	for _, d := range r.deliverers {
		if d.Name() == name {
			return d
		}
	}
	return nil
}

// List returns the registered deliverers in order.
func (r *Registry) List() []deliver.Deliverer {
	out := make([]deliver.Deliverer, len(r.deliverers))
	copy(out, r.deliverers)
	return out
}

// Dispatch evaluates every deliverer in registration order against doc and
// el and returns a command for each one that applies. A non-empty selection
// replaces the element's selection. The returned commands are not bound to a
// service; use Service.Commands to get invocable commands.
func (r *Registry) Dispatch(doc *deliver.Document, el *deliver.Element, selection string) []*Command {
	if selection != "" {
		el = el.WithSelection(selection)
	} else if el == nil {
		el = &deliver.Element{}
	}

	var cmds []*Command
	for _, d := range r.deliverers {
		if !d.Match(doc, el) {
			continue
		}
		c, err := d.NewContext(doc, el)
		if err != nil {
			continue
		}
		cmds = append(cmds, &Command{
			Label:     d.Label(c),
			Deliverer: d,
			Context:   c,
		})
	}
	return cmds
}
