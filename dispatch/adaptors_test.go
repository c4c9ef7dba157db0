package dispatch_test

import (
	"context"
	"sync"
	"testing"

	"github.com/fwojciec/deliver"
	"github.com/fwojciec/deliver/dispatch"
	"github.com/fwojciec/deliver/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a post adaptor that records which operation received which
// content.
type recorder struct {
	mu    sync.Mutex
	calls []string
	got   []deliver.Content
}

func (r *recorder) record(op string, c deliver.Content) (*deliver.Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, op)
	r.got = append(r.got, c)
	return &deliver.Response{Destination: "test", StatusCode: 201, PostID: "1"}, nil
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func newAdaptor(name string, available bool, rec *recorder) *mock.PostAdaptor {
	return &mock.PostAdaptor{
		NameFn:              func() string { return name },
		TitleForMenuItemFn:  func() string { return name },
		EnableForMenuItemFn: func() bool { return true },
		IsAvailableFn:       func() bool { return available },
		PostLinkFn: func(ctx context.Context, c *deliver.Link, opts deliver.PostOptions) (*deliver.Response, error) {
			return rec.record("link", c)
		},
		PostQuoteFn: func(ctx context.Context, c *deliver.Quote, opts deliver.PostOptions) (*deliver.Response, error) {
			return rec.record("quote", c)
		},
		PostPhotoFn: func(ctx context.Context, c *deliver.Photo, opts deliver.PostOptions) (*deliver.Response, error) {
			return rec.record("photo", c)
		},
		PostVideoFn: func(ctx context.Context, c *deliver.Video, opts deliver.PostOptions) (*deliver.Response, error) {
			return rec.record("video", c)
		},
		PostEntryFn: func(ctx context.Context, c *deliver.Reblog, opts deliver.PostOptions) (*deliver.Response, error) {
			return rec.record("entry", c)
		},
	}
}

func TestAdaptors(t *testing.T) {
	t.Parallel()

	t.Run("available lists configured adaptors in order", func(t *testing.T) {
		t.Parallel()

		r := dispatch.NewAdaptors(
			newAdaptor("tumblr", true, &recorder{}),
			newAdaptor("delicious", false, &recorder{}),
			newAdaptor("yammer", true, &recorder{}),
		)

		var names []string
		for _, a := range r.Available() {
			names = append(names, a.Name())
		}

		assert.Equal(t, []string{"tumblr", "yammer"}, names)
		assert.Len(t, r.List(), 3)
	})

	t.Run("register replaces an adaptor with the same name", func(t *testing.T) {
		t.Parallel()

		r := dispatch.NewAdaptors(newAdaptor("tumblr", false, &recorder{}))
		r.Register(newAdaptor("tumblr", true, &recorder{}))

		a, ok := r.Lookup("tumblr")

		require.True(t, ok)
		assert.True(t, a.IsAvailable())
		assert.Len(t, r.List(), 1)
	})

	t.Run("lookup misses unknown destinations", func(t *testing.T) {
		t.Parallel()

		_, ok := dispatch.NewAdaptors().Lookup("nope")

		assert.False(t, ok)
	})
}

func TestSubmit(t *testing.T) {
	t.Parallel()

	t.Run("maps each kind to its operation", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		a := newAdaptor("test", true, rec)
		contents := []deliver.Content{
			&deliver.Link{},
			&deliver.Quote{},
			&deliver.Photo{},
			&deliver.Video{},
			&deliver.Reblog{PostID: "1", ReblogKey: "k"},
		}

		for _, c := range contents {
			_, err := dispatch.Submit(context.Background(), a, c, deliver.PostOptions{})
			require.NoError(t, err)
		}

		assert.Equal(t, []string{"link", "quote", "photo", "video", "entry"}, rec.snapshot())
	})

	t.Run("unavailable adaptor fails before any call", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		a := newAdaptor("test", false, rec)

		_, err := dispatch.Submit(context.Background(), a, &deliver.Link{}, deliver.PostOptions{})

		assert.Equal(t, deliver.ECONFIG, deliver.ErrorCode(err))
		assert.Empty(t, rec.snapshot())
	})

	t.Run("expand posts the wrapped content", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		a := newAdaptor("test", true, rec)
		r := &deliver.Reblog{
			PostID: "1", ReblogKey: "k",
			Fields: map[string]string{"post[type]": "quote", "post[one]": "Stay hungry", "post[two]": "Jobs"},
		}

		_, err := dispatch.Submit(context.Background(), a, r, deliver.PostOptions{Expand: true})

		require.NoError(t, err)
		require.Equal(t, []string{"quote"}, rec.snapshot())
		q := rec.got[0].(*deliver.Quote)
		assert.Equal(t, "Stay hungry", q.Text)
		assert.Equal(t, "Jobs", q.Source)
	})

	t.Run("expand keeps the reblog when fields do not expand", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		a := newAdaptor("test", true, rec)

		_, err := dispatch.Submit(context.Background(), a, &deliver.Reblog{PostID: "1", ReblogKey: "k"}, deliver.PostOptions{Expand: true})

		require.NoError(t, err)
		assert.Equal(t, []string{"entry"}, rec.snapshot())
	})

	t.Run("nil content is invalid", func(t *testing.T) {
		t.Parallel()

		_, err := dispatch.Submit(context.Background(), newAdaptor("test", true, &recorder{}), nil, deliver.PostOptions{})

		assert.Equal(t, deliver.EINVALID, deliver.ErrorCode(err))
	})
}
