// Package readability derives page metadata with go-readability.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/deliver"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements deliver.MetadataExtractor at compile time.
var _ deliver.MetadataExtractor = (*Extractor)(nil)

// Extractor wraps go-readability to read title, site name and byline.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractMetadata processes raw HTML and returns the page metadata.
func (e *Extractor) ExtractMetadata(rawHTML string, pageURL string) (*deliver.MetadataResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, deliver.Errorf(deliver.EINVALID, "empty HTML input")
	}

	var u *url.URL
	if parsed, err := url.Parse(pageURL); err == nil && parsed.IsAbs() {
		u = parsed
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), u)
	if err != nil {
		return nil, deliver.WrapError(deliver.EPARSE, err)
	}

	return &deliver.MetadataResult{
		Title:       article.Title,
		SiteName:    article.SiteName,
		Author:      article.Byline,
		Description: article.Excerpt,
	}, nil
}
