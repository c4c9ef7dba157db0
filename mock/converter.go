package mock

import "github.com/fwojciec/deliver"

var (
	_ deliver.Converter = (*Converter)(nil)
	_ deliver.Sanitizer = (*Sanitizer)(nil)
)

// Converter is a mock implementation of deliver.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}

// Sanitizer is a mock implementation of deliver.Sanitizer.
type Sanitizer struct {
	SanitizeFn func(html string) string
}

func (s *Sanitizer) Sanitize(html string) string {
	return s.SanitizeFn(html)
}
