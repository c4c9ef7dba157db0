package mock

import (
	"context"

	"github.com/fwojciec/deliver"
)

var (
	_ deliver.Surface           = (*Surface)(nil)
	_ deliver.SurfaceOpener     = (*SurfaceOpener)(nil)
	_ deliver.ReblogExtractor   = (*ReblogExtractor)(nil)
	_ deliver.ExtractorDelegate = (*ExtractorDelegate)(nil)
)

// Surface is a mock implementation of deliver.Surface.
type Surface struct {
	LoadFn  func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (s *Surface) Load(ctx context.Context, url string) (string, error) {
	return s.LoadFn(ctx, url)
}

func (s *Surface) Close() error {
	return s.CloseFn()
}

// SurfaceOpener is a mock implementation of deliver.SurfaceOpener.
type SurfaceOpener struct {
	OpenSurfaceFn func(ctx context.Context) (deliver.Surface, error)
}

func (o *SurfaceOpener) OpenSurface(ctx context.Context) (deliver.Surface, error) {
	return o.OpenSurfaceFn(ctx)
}

// ReblogExtractor is a mock implementation of deliver.ReblogExtractor.
type ReblogExtractor struct {
	StartFn  func(ctx context.Context, postID, reblogKey string) error
	DoneFn   func() <-chan struct{}
	ResultFn func() (*deliver.ReblogToken, map[string]string, error)
	StateFn  func() deliver.ExtractState
	CancelFn func()
}

func (e *ReblogExtractor) Start(ctx context.Context, postID, reblogKey string) error {
	return e.StartFn(ctx, postID, reblogKey)
}

func (e *ReblogExtractor) Done() <-chan struct{} {
	return e.DoneFn()
}

func (e *ReblogExtractor) Result() (*deliver.ReblogToken, map[string]string, error) {
	return e.ResultFn()
}

func (e *ReblogExtractor) State() deliver.ExtractState {
	return e.StateFn()
}

func (e *ReblogExtractor) Cancel() {
	e.CancelFn()
}

// ExtractorDelegate is a mock implementation of deliver.ExtractorDelegate.
type ExtractorDelegate struct {
	DidFinishExtractFn            func(contents map[string]string)
	DidFailExtractWithErrorFn     func(err error)
	DidFailExtractWithExceptionFn func(err error)
}

func (d *ExtractorDelegate) DidFinishExtract(contents map[string]string) {
	d.DidFinishExtractFn(contents)
}

func (d *ExtractorDelegate) DidFailExtractWithError(err error) {
	d.DidFailExtractWithErrorFn(err)
}

func (d *ExtractorDelegate) DidFailExtractWithException(err error) {
	d.DidFailExtractWithExceptionFn(err)
}
