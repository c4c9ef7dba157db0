// Package trafilatura derives page metadata with go-trafilatura.
package trafilatura

import (
	"net/url"
	"strings"

	"github.com/fwojciec/deliver"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure Extractor implements deliver.MetadataExtractor at compile time.
var _ deliver.MetadataExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to read title, site name and author.
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

	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
	}
	if u, err := url.Parse(pageURL); err == nil && u.IsAbs() {
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, deliver.WrapError(deliver.EPARSE, err)
	}

	return &deliver.MetadataResult{
		Title:       result.Metadata.Title,
		SiteName:    result.Metadata.Sitename,
		Author:      result.Metadata.Author,
		Description: result.Metadata.Description,
	}, nil
}
