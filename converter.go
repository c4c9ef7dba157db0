package deliver

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment into Markdown. Destinations that
	// accept plain text bodies use it to render quotes and captions.
	Convert(html string) (string, error)
}

// Sanitizer strips unsafe markup from HTML scraped off third-party pages.
type Sanitizer interface {
	Sanitize(html string) string
}
