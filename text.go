package deliver

import (
	"strings"

	"golang.org/x/net/html"
)

// CleanText decodes HTML entities and normalizes whitespace: runs of
// whitespace collapse to a single space and the result is trimmed.
func CleanText(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(s)), " ")
}

// AnchorHTML returns an HTML anchor tag for url. The title falls back to the
// URL itself. Returns an empty string for an empty URL.
func AnchorHTML(url, title string) string {
	if url == "" {
		return ""
	}
	if title == "" {
		title = url
	}
	return `<a href="` + html.EscapeString(url) + `">` + html.EscapeString(title) + `</a>`
}

// Blockquote wraps text in a blockquote tag. Returns an empty string for
// empty text.
func Blockquote(text string) string {
	if text == "" {
		return ""
	}
	return "<blockquote>" + html.EscapeString(text) + "</blockquote>"
}

// Label returns the command label for a content kind on a site, e.g.
// "Quote - Google Reader". The site suffix is omitted when empty.
func Label(kind Kind, site string) string {
	if site == "" {
		return kind.Title()
	}
	return kind.Title() + " - " + site
}
