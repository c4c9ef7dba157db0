package goquery_test

import (
	"context"
	"testing"

	"github.com/fwojciec/deliver"
	"github.com/fwojciec/deliver/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, d deliver.Deliverer, doc *deliver.Document, el *deliver.Element) deliver.Content {
	t.Helper()

	require.True(t, d.Match(doc, el), "deliverer %s should match", d.Name())
	c, err := d.NewContext(doc, el)
	require.NoError(t, err)
	content, err := d.Build(context.Background(), c)
	require.NoError(t, err)
	return content
}

func TestLinkDeliverer(t *testing.T) {
	t.Parallel()

	t.Run("links the aggregator entry", func(t *testing.T) {
		t.Parallel()

		d := goquery.NewLinkDeliverer(goquery.NewLDRMatcher())
		el := &deliver.Element{Selector: "#body1", Selection: " worth reading "}

		got := build(t, d, ldrDoc(), el)

		assert.Equal(t, "ldr-link", d.Name())
		assert.Equal(t, &deliver.Link{
			Meta:        deliver.Meta{Title: "First & Best", SourceLabel: "Example Blog", URL: "http://example.com/entry/1"},
			Description: "worth reading",
		}, got)
	})

	t.Run("default matcher prefers the clicked link", func(t *testing.T) {
		t.Parallel()

		d := goquery.NewLinkDeliverer(goquery.NewDefaultMatcher(nil))
		el := &deliver.Element{Selector: "#link", LinkURL: "http://other.example.com/", LinkTitle: "Other"}

		got := build(t, d, articleDoc(), el)

		link, ok := got.(*deliver.Link)
		require.True(t, ok)
		assert.Equal(t, "http://other.example.com/", link.URL)
		assert.Equal(t, "Other", link.Title)
	})

	t.Run("default matcher links the page", func(t *testing.T) {
		t.Parallel()

		d := goquery.NewLinkDeliverer(goquery.NewDefaultMatcher(nil))

		got := build(t, d, articleDoc(), &deliver.Element{})

		link, ok := got.(*deliver.Link)
		require.True(t, ok)
		assert.Equal(t, "http://blog.example.com/canonical/post", link.URL)
		assert.Equal(t, "A Post", link.Title)
	})

	t.Run("labels with the site", func(t *testing.T) {
		t.Parallel()

		d := goquery.NewLinkDeliverer(goquery.NewGoogleReaderMatcher())
		c, err := d.NewContext(greaderDoc(), &deliver.Element{Selector: "#gbody"})
		require.NoError(t, err)

		assert.Equal(t, "Link - Google Reader", d.Label(c))
	})

	t.Run("new context outside the site is no match", func(t *testing.T) {
		t.Parallel()

		d := goquery.NewLinkDeliverer(goquery.NewLDRMatcher())

		_, err := d.NewContext(articleDoc(), &deliver.Element{})

		assert.Equal(t, deliver.ENOMATCH, deliver.ErrorCode(err))
	})
}

func TestQuoteDeliverer(t *testing.T) {
	t.Parallel()

	t.Run("requires a selection", func(t *testing.T) {
		t.Parallel()

		d := goquery.NewQuoteDeliverer(goquery.NewDefaultMatcher(nil))

		assert.False(t, d.Match(articleDoc(), &deliver.Element{Selector: "#para"}))
		assert.False(t, d.Match(articleDoc(), &deliver.Element{Selector: "#para", Selection: "  \n"}))
	})

	t.Run("quotes the selection with an anchor source", func(t *testing.T) {
		t.Parallel()

		d := goquery.NewQuoteDeliverer(goquery.NewGoogleReaderMatcher())
		el := &deliver.Element{Selector: "#gbody", Selection: "Story  goes\nhere"}

		got := build(t, d, greaderDoc(), el)

		assert.Equal(t, "greader-quote", d.Name())
		assert.Equal(t, &deliver.Quote{
			Meta:   deliver.Meta{Title: "Headline", SourceLabel: "News Feed", URL: "http://news.example.com/a"},
			Text:   "Story goes here",
			Source: `<a href="http://news.example.com/a">Headline</a>`,
		}, got)
	})

	t.Run("build is idempotent", func(t *testing.T) {
		t.Parallel()

		d := goquery.NewQuoteDeliverer(goquery.NewDefaultMatcher(nil))
		doc := articleDoc()
		el := &deliver.Element{Selector: "#para", Selection: "Some text"}

		first, err := deliver.EncodeContent(build(t, d, doc, el))
		require.NoError(t, err)
		second, err := deliver.EncodeContent(build(t, d, doc, el))
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}
