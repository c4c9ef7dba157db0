package deliver

import "context"

// Fetcher loads the source of a page so that deliverers can inspect it.
// rod.Fetcher renders scripts first; http.Fetcher returns the raw response.
type Fetcher interface {
	// Fetch returns the document at url. Cancellation of ctx ends the load
	// with ECANCELED.
	Fetch(ctx context.Context, url string) (html string, err error)

	Close() error
}
