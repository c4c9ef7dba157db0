package mock

import (
	"context"

	"github.com/fwojciec/deliver"
)

var _ deliver.PostAdaptor = (*PostAdaptor)(nil)

// PostAdaptor is a mock implementation of deliver.PostAdaptor.
type PostAdaptor struct {
	NameFn              func() string
	TitleForMenuItemFn  func() string
	EnableForMenuItemFn func() bool
	IsAvailableFn       func() bool
	PostLinkFn          func(ctx context.Context, c *deliver.Link, opts deliver.PostOptions) (*deliver.Response, error)
	PostQuoteFn         func(ctx context.Context, c *deliver.Quote, opts deliver.PostOptions) (*deliver.Response, error)
	PostPhotoFn         func(ctx context.Context, c *deliver.Photo, opts deliver.PostOptions) (*deliver.Response, error)
	PostVideoFn         func(ctx context.Context, c *deliver.Video, opts deliver.PostOptions) (*deliver.Response, error)
	PostEntryFn         func(ctx context.Context, c *deliver.Reblog, opts deliver.PostOptions) (*deliver.Response, error)
}

func (a *PostAdaptor) Name() string {
	return a.NameFn()
}

func (a *PostAdaptor) TitleForMenuItem() string {
	return a.TitleForMenuItemFn()
}

func (a *PostAdaptor) EnableForMenuItem() bool {
	return a.EnableForMenuItemFn()
}

func (a *PostAdaptor) IsAvailable() bool {
	return a.IsAvailableFn()
}

func (a *PostAdaptor) PostLink(ctx context.Context, c *deliver.Link, opts deliver.PostOptions) (*deliver.Response, error) {
	return a.PostLinkFn(ctx, c, opts)
}

func (a *PostAdaptor) PostQuote(ctx context.Context, c *deliver.Quote, opts deliver.PostOptions) (*deliver.Response, error) {
	return a.PostQuoteFn(ctx, c, opts)
}

func (a *PostAdaptor) PostPhoto(ctx context.Context, c *deliver.Photo, opts deliver.PostOptions) (*deliver.Response, error) {
	return a.PostPhotoFn(ctx, c, opts)
}

func (a *PostAdaptor) PostVideo(ctx context.Context, c *deliver.Video, opts deliver.PostOptions) (*deliver.Response, error) {
	return a.PostVideoFn(ctx, c, opts)
}

func (a *PostAdaptor) PostEntry(ctx context.Context, c *deliver.Reblog, opts deliver.PostOptions) (*deliver.Response, error) {
	return a.PostEntryFn(ctx, c, opts)
}
