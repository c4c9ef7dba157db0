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
	"github.com/fwojciec/deliver/tumblr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedReblogPage writes the reblog form from script, so only a surface
// that runs the page's scripts sees the tokens.
const scriptedReblogPage = `<!DOCTYPE html>
<html><body>
<div id="root"></div>
<script>
document.getElementById('root').innerHTML =
  '<form id="edit_post">' +
  '<input type="hidden" name="post-id" value="12345">' +
  '<input type="hidden" name="reblog-key" value="abcXYZ">' +
  '</form>';
</script>
</body></html>`

func TestBrowserManager_OpenSurface(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(scriptedReblogPage))
	}))
	defer srv.Close()

	manager, err := rod.NewBrowserManager()
	require.NoError(t, err)
	defer manager.Close()

	t.Run("loads scripted pages", func(t *testing.T) {
		surface, err := manager.OpenSurface(context.Background())
		require.NoError(t, err)
		defer surface.Close()

		html, err := surface.Load(context.Background(), srv.URL)

		require.NoError(t, err)
		assert.Contains(t, html, `name="reblog-key"`)
	})

	t.Run("load after close is canceled", func(t *testing.T) {
		surface, err := manager.OpenSurface(context.Background())
		require.NoError(t, err)
		require.NoError(t, surface.Close())
		require.NoError(t, surface.Close())

		_, err = surface.Load(context.Background(), srv.URL)

		assert.Equal(t, deliver.ECANCELED, deliver.ErrorCode(err))
	})

	t.Run("drives reblog extraction", func(t *testing.T) {
		e := tumblr.NewExtractor(manager, tumblr.WithExtractorBaseURL(srv.URL))

		require.NoError(t, e.Start(context.Background(), "12345", "abcXYZ"))
		select {
		case <-e.Done():
		case <-time.After(30 * time.Second):
			t.Fatal("extraction did not finish")
		}

		token, fields, err := e.Result()
		require.NoError(t, err)
		assert.Equal(t, "12345", token.PostID)
		assert.Equal(t, "abcXYZ", token.ReblogKey)
		assert.Len(t, fields, 2)
	})
}

func TestBrowserManager_OpenSurface_AfterClose(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager()
	require.NoError(t, err)
	require.NoError(t, manager.Close())

	_, err = manager.OpenSurface(context.Background())

	assert.Equal(t, deliver.EINVALID, deliver.ErrorCode(err))
}
