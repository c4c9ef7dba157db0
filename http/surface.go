package http

import (
	"context"
	"sync/atomic"

	"github.com/fwojciec/deliver"
)

// Ensure SurfaceOpener implements deliver.SurfaceOpener at compile time.
var _ deliver.SurfaceOpener = (*SurfaceOpener)(nil)

// SurfaceOpener opens surfaces that load pages with a raw GET request.
// Scripted content is not executed; forms present in the response body are
// visible to the extractor as-is.
type SurfaceOpener struct {
	opts []Option
}

// NewSurfaceOpener creates a SurfaceOpener. Options apply to the fetcher
// backing each surface.
func NewSurfaceOpener(opts ...Option) *SurfaceOpener {
	return &SurfaceOpener{opts: opts}
}

// OpenSurface returns a surface with its own connection pool.
func (o *SurfaceOpener) OpenSurface(ctx context.Context) (deliver.Surface, error) {
	if err := ctx.Err(); err != nil {
		return nil, deliver.WrapError(deliver.ECANCELED, err)
	}
	return &surface{fetcher: NewFetcher(o.opts...)}, nil
}

type surface struct {
	fetcher *Fetcher
	closed  atomic.Bool
}

func (s *surface) Load(ctx context.Context, url string) (string, error) {
	if s.closed.Load() {
		return "", deliver.Errorf(deliver.ECANCELED, "surface closed")
	}
	return s.fetcher.Fetch(ctx, url)
}

func (s *surface) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.fetcher.Close()
}
