// Package bluemonday sanitizes markup scraped from third-party pages.
package bluemonday

import (
	"strings"

	"github.com/fwojciec/deliver"
	"github.com/microcosm-cc/bluemonday"
)

// Ensure Sanitizer implements deliver.Sanitizer at compile time.
var _ deliver.Sanitizer = (*Sanitizer)(nil)

// Sanitizer applies a bluemonday policy to HTML field values.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer creates a Sanitizer based on the UGC policy. Embeds are kept
// so that video fields survive.
func NewSanitizer() *Sanitizer {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	p.AllowElements("iframe", "embed", "object", "param")
	p.AllowAttrs("src", "width", "height", "frameborder", "allowfullscreen").OnElements("iframe", "embed")
	p.AllowAttrs("type").OnElements("embed")
	p.AllowAttrs("data", "type", "width", "height").OnElements("object")
	p.AllowAttrs("name", "value").OnElements("param")
	return &Sanitizer{policy: p}
}

// NewStrictSanitizer creates a Sanitizer that strips all markup.
func NewStrictSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize returns html with disallowed markup removed. Values without markup
// are returned unchanged so that URLs and plain text keep their entities
// unescaped.
func (s *Sanitizer) Sanitize(html string) string {
	if !strings.Contains(html, "<") {
		return html
	}
	return strings.TrimSpace(s.policy.Sanitize(html))
}
