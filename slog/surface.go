package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/deliver"
)

// Ensure LoggingSurfaceOpener implements deliver.SurfaceOpener.
var _ deliver.SurfaceOpener = (*LoggingSurfaceOpener)(nil)

// LoggingSurfaceOpener wraps a SurfaceOpener so that every surface it opens
// logs its page loads.
type LoggingSurfaceOpener struct {
	next   deliver.SurfaceOpener
	logger *slog.Logger
}

// NewLoggingSurfaceOpener creates a new LoggingSurfaceOpener.
func NewLoggingSurfaceOpener(next deliver.SurfaceOpener, logger *slog.Logger) *LoggingSurfaceOpener {
	return &LoggingSurfaceOpener{next: next, logger: logger}
}

// OpenSurface delegates to the wrapped opener and wraps the surface.
func (o *LoggingSurfaceOpener) OpenSurface(ctx context.Context) (deliver.Surface, error) {
	s, err := o.next.OpenSurface(ctx)
	if err != nil {
		o.logger.Warn("open surface", "err", err)
		return nil, err
	}
	return &loggingSurface{next: s, logger: o.logger}, nil
}

type loggingSurface struct {
	next   deliver.Surface
	logger *slog.Logger
}

func (s *loggingSurface) Load(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("surface load",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Load(ctx, url)
}

func (s *loggingSurface) Close() error {
	return s.next.Close()
}
