package dispatch_test

import (
	"context"
	"testing"

	"github.com/fwojciec/deliver"
	"github.com/fwojciec/deliver/dispatch"
	"github.com/fwojciec/deliver/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newDeliverer returns a deliverer named name that applies when match
// returns true and builds a link to the document.
func newDeliverer(name string, kind deliver.Kind, match func(*deliver.Document, *deliver.Element) bool) *mock.Deliverer {
	return &mock.Deliverer{
		NameFn:        func() string { return name },
		KindFn:        func() deliver.Kind { return kind },
		DestinationFn: func() string { return "" },
		MatchFn:       match,
		NewContextFn: func(doc *deliver.Document, el *deliver.Element) (*deliver.Context, error) {
			if !match(doc, el) {
				return nil, deliver.Errorf(deliver.ENOMATCH, "%s does not apply", name)
			}
			return &deliver.Context{Document: doc, Element: el, MenuLabel: "Test"}, nil
		},
		BuildFn: func(ctx context.Context, c *deliver.Context) (deliver.Content, error) {
			return &deliver.Link{Meta: c.Meta()}, nil
		},
		LabelFn: func(c *deliver.Context) string {
			return deliver.Label(kind, c.MenuLabel)
		},
	}
}

func always(*deliver.Document, *deliver.Element) bool { return true }
func never(*deliver.Document, *deliver.Element) bool  { return false }

func TestRegistry_Dispatch(t *testing.T) {
	t.Parallel()

	t.Run("returns every applicable deliverer in order", func(t *testing.T) {
		t.Parallel()

		r := dispatch.NewRegistry(
			newDeliverer("photo", deliver.KindPhoto, never),
			newDeliverer("quote", deliver.KindQuote, always),
			newDeliverer("video", deliver.KindVideo, never),
			newDeliverer("link", deliver.KindLink, always),
		)
		doc := &deliver.Document{URL: "http://example.com/"}

		cmds := r.Dispatch(doc, &deliver.Element{}, "text")

		require.Len(t, cmds, 2)
		assert.Equal(t, "quote", cmds[0].Deliverer.Name())
		assert.Equal(t, "Quote - Test", cmds[0].Label)
		assert.Equal(t, "link", cmds[1].Deliverer.Name())
		assert.Equal(t, "Link - Test", cmds[1].Label)
	})

	t.Run("never returns a deliverer whose match is false", func(t *testing.T) {
		t.Parallel()

		hasSelection := func(_ *deliver.Document, el *deliver.Element) bool { return el.Selection != "" }
		r := dispatch.NewRegistry(
			newDeliverer("quote", deliver.KindQuote, hasSelection),
			newDeliverer("link", deliver.KindLink, always),
		)
		doc := &deliver.Document{URL: "http://example.com/"}

		for _, selection := range []string{"", "text"} {
			el := &deliver.Element{}
			for _, c := range r.Dispatch(doc, el, selection) {
				assert.True(t, c.Deliverer.Match(doc, c.Context.Element), c.Deliverer.Name())
			}
		}
		assert.Len(t, r.Dispatch(doc, &deliver.Element{}, ""), 1)
	})

	t.Run("skips deliverers whose context cannot be built", func(t *testing.T) {
		t.Parallel()

		broken := newDeliverer("broken", deliver.KindLink, always)
		broken.NewContextFn = func(doc *deliver.Document, el *deliver.Element) (*deliver.Context, error) {
			return nil, deliver.Errorf(deliver.ENOMATCH, "frame not loaded")
		}
		r := dispatch.NewRegistry(broken, newDeliverer("link", deliver.KindLink, always))

		cmds := r.Dispatch(&deliver.Document{}, &deliver.Element{}, "")

		require.Len(t, cmds, 1)
		assert.Equal(t, "link", cmds[0].Deliverer.Name())
	})

	t.Run("applies selection without mutating the element", func(t *testing.T) {
		t.Parallel()

		r := dispatch.NewRegistry(newDeliverer("quote", deliver.KindQuote, always))
		el := &deliver.Element{Selector: "p", Selection: "old"}

		cmds := r.Dispatch(&deliver.Document{}, el, "new")

		require.Len(t, cmds, 1)
		assert.Equal(t, "new", cmds[0].Context.Element.Selection)
		assert.Equal(t, "p", cmds[0].Context.Element.Selector)
		assert.Equal(t, "old", el.Selection)
	})

	t.Run("accepts a nil element", func(t *testing.T) {
		t.Parallel()

		r := dispatch.NewRegistry(newDeliverer("link", deliver.KindLink, always))

		cmds := r.Dispatch(&deliver.Document{}, nil, "")

		require.Len(t, cmds, 1)
		assert.NotNil(t, cmds[0].Context.Element)
	})
}

func TestRegistry_Get(t *testing.T) {
	t.Parallel()

	link := newDeliverer("link", deliver.KindLink, always)
	r := dispatch.NewRegistry(link)

	assert.Same(t, link, r.Get("link"))
	assert.Nil(t, r.Get("missing"))
	assert.Len(t, r.List(), 1)
}
