package bluemonday_test

import (
	"testing"

	"github.com/fwojciec/deliver/bluemonday"
	"github.com/stretchr/testify/assert"
)

func TestSanitizer_Sanitize(t *testing.T) {
	t.Parallel()

	t.Run("removes scripts and event handlers", func(t *testing.T) {
		t.Parallel()

		got := bluemonday.NewSanitizer().Sanitize(`<p onclick="steal()">Hi<script>alert(1)</script></p>`)

		assert.Equal(t, "<p>Hi</p>", got)
	})

	t.Run("keeps formatting and links", func(t *testing.T) {
		t.Parallel()

		got := bluemonday.NewSanitizer().Sanitize(`<blockquote><strong>Stay</strong> <a href="https://example.com/">hungry</a></blockquote>`)

		assert.Contains(t, got, "<blockquote><strong>Stay</strong>")
		assert.Contains(t, got, `href="https://example.com/"`)
		assert.Contains(t, got, `rel="nofollow"`)
	})

	t.Run("keeps video embeds", func(t *testing.T) {
		t.Parallel()

		got := bluemonday.NewSanitizer().Sanitize(`<iframe src="https://www.youtube.com/embed/abc" width="400" height="300" onload="x()"></iframe>`)

		assert.Contains(t, got, "<iframe")
		assert.Contains(t, got, `src="https://www.youtube.com/embed/abc"`)
		assert.NotContains(t, got, "onload")
	})

	t.Run("returns plain values unchanged", func(t *testing.T) {
		t.Parallel()

		in := "https://example.com/?a=1&b=2"

		assert.Equal(t, in, bluemonday.NewSanitizer().Sanitize(in))
		assert.Equal(t, "regular", bluemonday.NewSanitizer().Sanitize("regular"))
	})

	t.Run("strict policy strips all markup", func(t *testing.T) {
		t.Parallel()

		got := bluemonday.NewStrictSanitizer().Sanitize(`<p>Hello <b>world</b></p>`)

		assert.Equal(t, "Hello world", got)
	})
}
