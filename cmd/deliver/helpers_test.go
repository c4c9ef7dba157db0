package main_test

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/fwojciec/deliver"
	main "github.com/fwojciec/deliver/cmd/deliver"
	"github.com/fwojciec/deliver/dispatch"
	"github.com/fwojciec/deliver/mock"
)

const pageURL = "https://example.com/post"

// env bundles Dependencies with the buffers they write to.
type env struct {
	deps   *main.Dependencies
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newEnv(deliverers []deliver.Deliverer, adaptors ...deliver.PostAdaptor) *env {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	loader := &mock.DocumentLoader{
		LoadFn: func(_ context.Context, url string) (*deliver.Document, error) {
			return &deliver.Document{URL: url, Title: "Post", HTML: "<html></html>"}, nil
		},
	}
	return &env{
		deps: &main.Dependencies{
			Ctx:     context.Background(),
			Stdout:  stdout,
			Stderr:  stderr,
			Timeout: 5 * time.Second,
			Loader:  loader,
			Service: &dispatch.Service{
				Deliverers: dispatch.NewRegistry(deliverers...),
				Adaptors:   dispatch.NewAdaptors(adaptors...),
			},
		},
		stdout: stdout,
		stderr: stderr,
	}
}

// newDeliverer returns a link deliverer that always applies.
func newDeliverer(name, label, destination string) *mock.Deliverer {
	return &mock.Deliverer{
		NameFn:        func() string { return name },
		KindFn:        func() deliver.Kind { return deliver.KindLink },
		DestinationFn: func() string { return destination },
		MatchFn:       func(*deliver.Document, *deliver.Element) bool { return true },
		NewContextFn: func(doc *deliver.Document, el *deliver.Element) (*deliver.Context, error) {
			return &deliver.Context{Document: doc, Element: el, Title: doc.Title, URL: doc.URL}, nil
		},
		BuildFn: func(_ context.Context, c *deliver.Context) (deliver.Content, error) {
			return &deliver.Link{Meta: c.Meta()}, nil
		},
		LabelFn: func(*deliver.Context) string { return label },
	}
}

// recorder captures the links posted to an adaptor.
type recorder struct {
	mu    sync.Mutex
	links []*deliver.Link
	opts  []deliver.PostOptions
}

func (r *recorder) posted() []*deliver.Link {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*deliver.Link(nil), r.links...)
}

func newAdaptor(name string, available bool, rec *recorder, err error) *mock.PostAdaptor {
	return &mock.PostAdaptor{
		NameFn:              func() string { return name },
		TitleForMenuItemFn:  func() string { return "Title " + name },
		EnableForMenuItemFn: func() bool { return true },
		IsAvailableFn:       func() bool { return available },
		PostLinkFn: func(_ context.Context, c *deliver.Link, opts deliver.PostOptions) (*deliver.Response, error) {
			if err != nil {
				return nil, err
			}
			if rec != nil {
				rec.mu.Lock()
				rec.links = append(rec.links, c)
				rec.opts = append(rec.opts, opts)
				rec.mu.Unlock()
			}
			return &deliver.Response{Destination: name, StatusCode: 201, PostID: "42"}, nil
		},
	}
}
