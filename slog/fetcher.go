// Package slog provides log/slog decorators for the deliver interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/deliver"
)

// Ensure LoggingFetcher implements deliver.Fetcher.
var _ deliver.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher logs page loads. Successful loads log at debug level;
// failures log at warn level with their error code.
type LoggingFetcher struct {
	next   deliver.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next deliver.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		if err != nil {
			f.logger.Warn("page load failed",
				"url", url,
				"code", deliver.ErrorCode(err),
				"duration", time.Since(begin),
				"err", err,
			)
			return
		}
		f.logger.Debug("page loaded",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
