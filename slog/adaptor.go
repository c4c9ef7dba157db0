package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/deliver"
)

// Ensure LoggingAdaptor implements deliver.PostAdaptor.
var _ deliver.PostAdaptor = (*LoggingAdaptor)(nil)

// LoggingAdaptor wraps a PostAdaptor and logs every submission.
type LoggingAdaptor struct {
	next   deliver.PostAdaptor
	logger *slog.Logger
}

// NewLoggingAdaptor creates a new LoggingAdaptor.
func NewLoggingAdaptor(next deliver.PostAdaptor, logger *slog.Logger) *LoggingAdaptor {
	return &LoggingAdaptor{next: next, logger: logger}
}

func (a *LoggingAdaptor) Name() string             { return a.next.Name() }
func (a *LoggingAdaptor) TitleForMenuItem() string { return a.next.TitleForMenuItem() }
func (a *LoggingAdaptor) EnableForMenuItem() bool  { return a.next.EnableForMenuItem() }
func (a *LoggingAdaptor) IsAvailable() bool        { return a.next.IsAvailable() }

func (a *LoggingAdaptor) PostLink(ctx context.Context, c *deliver.Link, opts deliver.PostOptions) (resp *deliver.Response, err error) {
	defer a.log(deliver.KindLink, c.URL, time.Now(), &resp, &err)
	return a.next.PostLink(ctx, c, opts)
}

func (a *LoggingAdaptor) PostQuote(ctx context.Context, c *deliver.Quote, opts deliver.PostOptions) (resp *deliver.Response, err error) {
	defer a.log(deliver.KindQuote, c.URL, time.Now(), &resp, &err)
	return a.next.PostQuote(ctx, c, opts)
}

func (a *LoggingAdaptor) PostPhoto(ctx context.Context, c *deliver.Photo, opts deliver.PostOptions) (resp *deliver.Response, err error) {
	defer a.log(deliver.KindPhoto, c.URL, time.Now(), &resp, &err)
	return a.next.PostPhoto(ctx, c, opts)
}

func (a *LoggingAdaptor) PostVideo(ctx context.Context, c *deliver.Video, opts deliver.PostOptions) (resp *deliver.Response, err error) {
	defer a.log(deliver.KindVideo, c.URL, time.Now(), &resp, &err)
	return a.next.PostVideo(ctx, c, opts)
}

func (a *LoggingAdaptor) PostEntry(ctx context.Context, c *deliver.Reblog, opts deliver.PostOptions) (resp *deliver.Response, err error) {
	defer a.log(deliver.KindReblog, c.URL, time.Now(), &resp, &err)
	return a.next.PostEntry(ctx, c, opts)
}

// log is deferred with pointers to the named results so it sees their final
// values.
func (a *LoggingAdaptor) log(kind deliver.Kind, url string, begin time.Time, resp **deliver.Response, err *error) {
	status := 0
	if *resp != nil {
		status = (*resp).StatusCode
	}
	a.logger.Info("submit",
		"destination", a.next.Name(),
		"kind", kind,
		"url", url,
		"status", status,
		"duration", time.Since(begin),
		"err", *err,
	)
}
