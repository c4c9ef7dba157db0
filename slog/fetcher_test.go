package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/deliver"
	"github.com/fwojciec/deliver/mock"
	deliverslog "github.com/fwojciec/deliver/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLoggingFetcher(t *testing.T) {
	t.Parallel()

	t.Run("logs loaded pages at debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		fetcher := deliverslog.NewLoggingFetcher(&mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				return "<html>content</html>", nil
			},
		}, debugLogger(&buf))

		html, err := fetcher.Fetch(context.Background(), "https://example.com/post")

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", html)
		assert.Contains(t, buf.String(), "level=DEBUG")
		assert.Contains(t, buf.String(), `msg="page loaded"`)
		assert.Contains(t, buf.String(), "url=https://example.com/post")
		assert.Contains(t, buf.String(), "bytes=20")
	})

	t.Run("successful loads are quiet at the default level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		fetcher := deliverslog.NewLoggingFetcher(&mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) { return "<html></html>", nil },
		}, slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))

		_, err := fetcher.Fetch(context.Background(), "https://example.com/post")

		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})

	t.Run("logs failures with their code", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		fetcher := deliverslog.NewLoggingFetcher(&mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				return "", deliver.WrapError(deliver.ETRANSPORT, errors.New("connection refused"))
			},
		}, debugLogger(&buf))

		_, err := fetcher.Fetch(context.Background(), "https://example.com/post")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), `msg="page load failed"`)
		assert.Contains(t, buf.String(), "code=transport")
		assert.Contains(t, buf.String(), `err="deliver error: code=transport message=connection refused"`)
	})

	t.Run("close delegates", func(t *testing.T) {
		t.Parallel()

		closed := false
		fetcher := deliverslog.NewLoggingFetcher(&mock.Fetcher{
			CloseFn: func() error {
				closed = true
				return nil
			},
		}, debugLogger(&bytes.Buffer{}))

		require.NoError(t, fetcher.Close())
		assert.True(t, closed)
	})
}
