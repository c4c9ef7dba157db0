package main_test

import (
	"context"
	"errors"
	"testing"

	"github.com/fwojciec/deliver"
	main "github.com/fwojciec/deliver/cmd/deliver"
	"github.com/fwojciec/deliver/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("lists applicable commands in order", func(t *testing.T) {
		t.Parallel()

		e := newEnv([]deliver.Deliverer{
			newDeliverer("reblog", "Reblog - Tumblr", "tumblr"),
			newDeliverer("link", "Link", ""),
		})

		err := (&main.CommandsCmd{URL: pageURL}).Run(e.deps)

		require.NoError(t, err)
		assert.Equal(t, "1. Reblog - Tumblr  [reblog]  -> tumblr\n2. Link  [link]\n", e.stdout.String())
	})

	t.Run("passes the element and selection to deliverers", func(t *testing.T) {
		t.Parallel()

		var got *deliver.Element
		d := newDeliverer("quote", "Quote", "")
		d.MatchFn = func(_ *deliver.Document, el *deliver.Element) bool {
			got = el
			return el.Selection != ""
		}
		e := newEnv([]deliver.Deliverer{d})

		cmd := &main.CommandsCmd{URL: pageURL}
		cmd.Element.Link = "https://example.com/target"
		cmd.Element.Selection = "quoted text"
		err := cmd.Run(e.deps)

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "https://example.com/target", got.LinkURL)
		assert.Equal(t, "quoted text", got.Selection)
		assert.Contains(t, e.stdout.String(), "1. Quote")
	})

	t.Run("reports when nothing applies", func(t *testing.T) {
		t.Parallel()

		d := newDeliverer("link", "Link", "")
		d.MatchFn = func(*deliver.Document, *deliver.Element) bool { return false }
		e := newEnv([]deliver.Deliverer{d})

		err := (&main.CommandsCmd{URL: pageURL}).Run(e.deps)

		require.NoError(t, err)
		assert.Contains(t, e.stdout.String(), "No commands apply")
	})

	t.Run("returns load errors", func(t *testing.T) {
		t.Parallel()

		e := newEnv(nil)
		e.deps.Loader = &mock.DocumentLoader{
			LoadFn: func(context.Context, string) (*deliver.Document, error) {
				return nil, deliver.WrapError(deliver.ETRANSPORT, errors.New("connection refused"))
			},
		}

		err := (&main.CommandsCmd{URL: pageURL}).Run(e.deps)

		require.Error(t, err)
		assert.Equal(t, deliver.ETRANSPORT, deliver.ErrorCode(err))
		assert.Contains(t, e.stderr.String(), "connection refused")
	})
}

func TestElementFlags_Element(t *testing.T) {
	t.Parallel()

	t.Run("returns nil without element flags", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, main.ElementFlags{}.Element())
		assert.Nil(t, main.ElementFlags{Selection: "text"}.Element())
	})

	t.Run("maps flags to element fields", func(t *testing.T) {
		t.Parallel()

		el := main.ElementFlags{
			Selector:  "#item",
			Frame:     "https://example.com/frame",
			Link:      "https://example.com/a",
			LinkTitle: "A",
			Image:     "https://example.com/i.png",
			ImageAlt:  "I",
		}.Element()

		require.NotNil(t, el)
		assert.Equal(t, deliver.Element{
			Selector:  "#item",
			FrameURL:  "https://example.com/frame",
			LinkURL:   "https://example.com/a",
			LinkTitle: "A",
			ImageURL:  "https://example.com/i.png",
			ImageAlt:  "I",
		}, *el)
	})
}
