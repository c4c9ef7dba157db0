package deliver

// MetadataResult holds page metadata derived from a whole document.
type MetadataResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// SiteName is the publishing site's name (og:site_name or equivalent).
	SiteName string

	Author      string
	Description string
}

// MetadataExtractor derives page metadata from raw HTML. The default matcher
// uses it when a page carries no explicit site markup.
type MetadataExtractor interface {
	// ExtractMetadata processes raw HTML. pageURL is used to resolve
	// relative references and may be empty.
	ExtractMetadata(html string, pageURL string) (*MetadataResult, error)
}
