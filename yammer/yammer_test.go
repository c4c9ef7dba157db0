package yammer_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/fwojciec/deliver"
	deliverhttp "github.com/fwojciec/deliver/http"
	"github.com/fwojciec/deliver/mock"
	"github.com/fwojciec/deliver/yammer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const created = `{"messages":[{"id":424242,"body":{"plain":"x"}}],"meta":{}}`

type captured struct {
	auth string
	path string
	form url.Values
}

func newServer(t *testing.T, status int, body string) (*httptest.Server, *captured) {
	t.Helper()
	c := &captured{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.auth = r.Header.Get("Authorization")
		c.path = r.URL.Path
		require.NoError(t, r.ParseForm())
		c.form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, c
}

// echoConverter marks its input so tests can see the body went through it.
func echoConverter() *mock.Converter {
	return &mock.Converter{
		ConvertFn: func(html string) (string, error) {
			return "md:" + html + "\n", nil
		},
	}
}

func newAdaptor(serverURL string) *yammer.Adaptor {
	return yammer.NewAdaptor(
		yammer.Config{Token: "tok", GroupID: "7"},
		yammer.WithBaseURL(serverURL),
		yammer.WithClient(deliverhttp.NewClient(deliverhttp.WithLimiter(nil))),
		yammer.WithConverter(echoConverter()),
	)
}

func TestAdaptor_PostQuote(t *testing.T) {
	t.Parallel()

	server, got := newServer(t, http.StatusCreated, created)
	a := newAdaptor(server.URL)

	resp, err := a.PostQuote(context.Background(), &deliver.Quote{
		Meta:   deliver.Meta{Title: "Essay", URL: "http://example.com/essay"},
		Text:   "Stay hungry",
		Source: `<a href="http://example.com/essay">Essay</a>`,
	}, deliver.PostOptions{})

	require.NoError(t, err)
	assert.Equal(t, "/api/v1/messages.json", got.path)
	assert.Equal(t, "Bearer tok", got.auth)
	assert.Equal(t, `md:<blockquote>Stay hungry</blockquote><p><a href="http://example.com/essay">Essay</a></p>`, got.form.Get("body"))
	assert.Equal(t, "http://example.com/essay", got.form.Get("og_url"))
	assert.Equal(t, "Essay", got.form.Get("og_title"))
	assert.Equal(t, "7", got.form.Get("group_id"))
	assert.Equal(t, "424242", resp.PostID)
	assert.Equal(t, yammer.Name, resp.Destination)
}

func TestAdaptor_PostLink(t *testing.T) {
	t.Parallel()

	server, got := newServer(t, http.StatusCreated, created)
	a := newAdaptor(server.URL)

	_, err := a.PostLink(context.Background(), &deliver.Link{
		Meta: deliver.Meta{Title: "Example", URL: "http://example.com/"},
	}, deliver.PostOptions{Extra: map[string]string{"group_id": "99"}})

	require.NoError(t, err)
	assert.Equal(t, `md:<a href="http://example.com/">Example</a>`, got.form.Get("body"))
	assert.Equal(t, "99", got.form.Get("group_id"))
}

func TestAdaptor_PostPhoto(t *testing.T) {
	t.Parallel()

	t.Run("references the through page", func(t *testing.T) {
		t.Parallel()

		server, got := newServer(t, http.StatusCreated, created)
		a := newAdaptor(server.URL)

		_, err := a.PostPhoto(context.Background(), &deliver.Photo{
			Meta:       deliver.Meta{URL: "http://example.com/page"},
			ImageURL:   "http://example.com/a.jpg",
			ThroughURL: "http://example.com/through",
		}, deliver.PostOptions{})

		require.NoError(t, err)
		assert.Equal(t, `md:<p><img src="http://example.com/a.jpg"></p>`, got.form.Get("body"))
		assert.Equal(t, "http://example.com/through", got.form.Get("og_url"))
	})

	t.Run("requires an image url", func(t *testing.T) {
		t.Parallel()

		a := newAdaptor("http://127.0.0.1:0")

		_, err := a.PostPhoto(context.Background(), &deliver.Photo{Data: []byte("x")}, deliver.PostOptions{})

		assert.Equal(t, deliver.EINVALID, deliver.ErrorCode(err))
	})
}

func TestAdaptor_Response(t *testing.T) {
	t.Parallel()

	t.Run("created without messages is rejected", func(t *testing.T) {
		t.Parallel()

		server, _ := newServer(t, http.StatusCreated, `{"messages":[]}`)
		a := newAdaptor(server.URL)

		_, err := a.PostLink(context.Background(), &deliver.Link{Meta: deliver.Meta{URL: "http://example.com/"}}, deliver.PostOptions{})

		assert.Equal(t, deliver.EREJECTED, deliver.ErrorCode(err))
	})

	t.Run("unauthorized is rejected with body", func(t *testing.T) {
		t.Parallel()

		server, _ := newServer(t, http.StatusUnauthorized, `{"error":"token expired"}`)
		a := newAdaptor(server.URL)

		_, err := a.PostLink(context.Background(), &deliver.Link{Meta: deliver.Meta{URL: "http://example.com/"}}, deliver.PostOptions{})

		assert.Equal(t, deliver.EREJECTED, deliver.ErrorCode(err))
		assert.Contains(t, deliver.ErrorMessage(err), "token expired")
	})

	t.Run("missing token is a configuration error", func(t *testing.T) {
		t.Parallel()

		a := yammer.NewAdaptor(yammer.Config{})

		_, err := a.PostLink(context.Background(), &deliver.Link{Meta: deliver.Meta{URL: "http://example.com/"}}, deliver.PostOptions{})

		assert.Equal(t, deliver.ECONFIG, deliver.ErrorCode(err))
	})
}
