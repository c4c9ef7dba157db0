package readability_test

import (
	"testing"

	"github.com/fwojciec/deliver"
	"github.com/fwojciec/deliver/readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head>
<title>Stay Hungry - Example News</title>
<meta property="og:title" content="Stay Hungry">
<meta property="og:site_name" content="Example News">
<meta name="author" content="Jane Doe">
<meta name="description" content="A commencement speech.">
</head>
<body>
<nav><a href="/">Home</a><a href="/archive">Archive</a></nav>
<article>
<h1>Stay Hungry</h1>
<p>This is the full text of a commencement speech that was delivered to the graduating class.</p>
<p>It covers connecting the dots, love and loss, and death, in three stories told one after another.</p>
</article>
<footer>Copyright 2026 Example News</footer>
</body>
</html>`

func TestExtractor_ExtractMetadata(t *testing.T) {
	t.Parallel()

	t.Run("extracts title from meta tags", func(t *testing.T) {
		t.Parallel()

		result, err := readability.NewExtractor().ExtractMetadata(articleHTML, "https://example.com/stay-hungry")

		require.NoError(t, err)
		assert.Contains(t, result.Title, "Stay Hungry")
	})

	t.Run("extracts site name and byline", func(t *testing.T) {
		t.Parallel()

		result, err := readability.NewExtractor().ExtractMetadata(articleHTML, "https://example.com/stay-hungry")

		require.NoError(t, err)
		assert.Equal(t, "Example News", result.SiteName)
		assert.Contains(t, result.Author, "Jane Doe")
	})

	t.Run("accepts an empty page url", func(t *testing.T) {
		t.Parallel()

		result, err := readability.NewExtractor().ExtractMetadata(articleHTML, "")

		require.NoError(t, err)
		assert.Contains(t, result.Title, "Stay Hungry")
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := readability.NewExtractor().ExtractMetadata("", "")

		require.Error(t, err)
		assert.Equal(t, deliver.EINVALID, deliver.ErrorCode(err))
	})
}
