package mock

import "github.com/fwojciec/deliver"

var _ deliver.MetadataExtractor = (*MetadataExtractor)(nil)

// MetadataExtractor is a mock implementation of deliver.MetadataExtractor.
type MetadataExtractor struct {
	ExtractMetadataFn func(html string, pageURL string) (*deliver.MetadataResult, error)
}

func (e *MetadataExtractor) ExtractMetadata(html string, pageURL string) (*deliver.MetadataResult, error) {
	return e.ExtractMetadataFn(html, pageURL)
}
