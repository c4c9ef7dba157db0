//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/deliver"
	"github.com/fwojciec/deliver/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postPage fills in its reblog form from script, like dashboard pages do.
const postPage = `<!DOCTYPE html>
<html>
<head><title>Post 42</title></head>
<body>
<form action="/reblog/42/abc"><input id="post_one" name="post[one]" value=""></form>
<script>
document.getElementById('post_one').value = 'filled by script';
document.title = 'Rendered post';
</script>
</body>
</html>`

func newFetcher(t *testing.T, opts ...rod.FetcherOption) *rod.Fetcher {
	t.Helper()
	fetcher, err := rod.NewFetcher(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = fetcher.Close() })
	return fetcher
}

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns the DOM after scripts run", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(postPage))
		}))
		t.Cleanup(srv.Close)

		html, err := newFetcher(t).Fetch(context.Background(), srv.URL+"/post/42")

		require.NoError(t, err)
		assert.Contains(t, html, "<title>Rendered post</title>")
		assert.Contains(t, html, `action="/reblog/42/abc"`)
	})

	t.Run("canceled context is reported as canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newFetcher(t).Fetch(ctx, "http://127.0.0.1:1/")

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, deliver.ECANCELED, deliver.ErrorCode(err))
	})

	t.Run("slow page hits the load timeout", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(time.Second):
			case <-r.Context().Done():
			}
		}))
		t.Cleanup(srv.Close)

		fetcher := newFetcher(t, rod.WithFetchTimeout(100*time.Millisecond))
		_, err := fetcher.Fetch(context.Background(), srv.URL)

		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("closed fetcher refuses to load", func(t *testing.T) {
		t.Parallel()

		fetcher := newFetcher(t)
		require.NoError(t, fetcher.Close())
		require.NoError(t, fetcher.Close())

		_, err := fetcher.Fetch(context.Background(), "http://example.com/post/1")

		assert.Equal(t, deliver.EINVALID, deliver.ErrorCode(err))
		assert.Contains(t, deliver.ErrorMessage(err), "closed")
	})
}

func TestFetcher_SharedManager(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager()
	require.NoError(t, err)
	t.Cleanup(func() { _ = manager.Close() })

	fetcher, err := rod.NewFetcher(rod.WithManager(manager))
	require.NoError(t, err)
	require.NoError(t, fetcher.Close())

	// The manager outlives fetchers that borrow it.
	assert.NotNil(t, manager.Browser())
	assert.NotZero(t, manager.LauncherPID())
}
