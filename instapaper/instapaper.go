// Package instapaper implements the instapaper read-later destination.
package instapaper

import (
	"context"
	"net/url"
	"strings"

	"github.com/fwojciec/deliver"
	deliverhttp "github.com/fwojciec/deliver/http"
)

// Name is the destination identifier.
const Name = "instapaper"

// DefaultBaseURL is the instapaper root.
const DefaultBaseURL = "https://www.instapaper.com"

// Ensure Adaptor implements deliver.PostAdaptor at compile time.
var _ deliver.PostAdaptor = (*Adaptor)(nil)

// Config holds the account credentials. Instapaper accounts may have no
// password.
type Config struct {
	User     string
	Password string
}

// Adaptor saves pages through the simple add API.
type Adaptor struct {
	cfg       Config
	baseURL   string
	client    *deliverhttp.Client
	converter deliver.Converter
}

// Option configures an Adaptor.
type Option func(*Adaptor)

// WithBaseURL overrides the instapaper root.
func WithBaseURL(u string) Option {
	return func(a *Adaptor) {
		a.baseURL = strings.TrimRight(u, "/")
	}
}

// WithClient sets the HTTP client used for submissions.
func WithClient(c *deliverhttp.Client) Option {
	return func(a *Adaptor) {
		a.client = c
	}
}

// WithConverter renders HTML selections (captions, quote sources) as
// Markdown before they are sent.
func WithConverter(c deliver.Converter) Option {
	return func(a *Adaptor) {
		a.converter = c
	}
}

// NewAdaptor creates an Adaptor for the account in cfg.
func NewAdaptor(cfg Config, opts ...Option) *Adaptor {
	a := &Adaptor{cfg: cfg, baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(a)
	}
	if a.client == nil {
		a.client = deliverhttp.NewClient()
	}
	return a
}

func (a *Adaptor) Name() string             { return Name }
func (a *Adaptor) TitleForMenuItem() string { return "Instapaper" }
func (a *Adaptor) EnableForMenuItem() bool  { return true }

// IsAvailable reports whether a user name is configured.
func (a *Adaptor) IsAvailable() bool {
	return a.cfg.User != ""
}

func (a *Adaptor) PostLink(ctx context.Context, c *deliver.Link, opts deliver.PostOptions) (*deliver.Response, error) {
	return a.add(ctx, c.URL, c.Title, c.Description)
}

func (a *Adaptor) PostQuote(ctx context.Context, c *deliver.Quote, opts deliver.PostOptions) (*deliver.Response, error) {
	return a.add(ctx, c.URL, c.Title, c.Text)
}

func (a *Adaptor) PostPhoto(ctx context.Context, c *deliver.Photo, opts deliver.PostOptions) (*deliver.Response, error) {
	u := c.ThroughURL
	if u == "" {
		u = c.URL
	}
	return a.add(ctx, u, c.Title, a.render(c.Caption))
}

func (a *Adaptor) PostVideo(ctx context.Context, c *deliver.Video, opts deliver.PostOptions) (*deliver.Response, error) {
	return a.add(ctx, c.URL, c.Title, a.render(c.Caption))
}

// PostEntry saves the page of the post a reblog wraps.
func (a *Adaptor) PostEntry(ctx context.Context, c *deliver.Reblog, opts deliver.PostOptions) (*deliver.Response, error) {
	switch ec := deliver.ReblogAsContent(c).(type) {
	case *deliver.Quote:
		return a.PostQuote(ctx, ec, opts)
	case *deliver.Photo:
		return a.PostPhoto(ctx, ec, opts)
	case *deliver.Video:
		return a.PostVideo(ctx, ec, opts)
	case *deliver.Link:
		return a.PostLink(ctx, ec, opts)
	default:
		return nil, deliver.Errorf(deliver.EINTERNAL, "unexpected expanded kind %s", ec.Kind())
	}
}

// render converts an HTML fragment to Markdown when a converter is set.
// Plain text, or a failed conversion, is returned unchanged.
func (a *Adaptor) render(s string) string {
	if a.converter == nil || !strings.Contains(s, "<") {
		return s
	}
	md, err := a.converter.Convert(s)
	if err != nil {
		return s
	}
	return strings.TrimSpace(md)
}

func (a *Adaptor) add(ctx context.Context, pageURL, title, selection string) (*deliver.Response, error) {
	if !a.IsAvailable() {
		return nil, deliver.Errorf(deliver.ECONFIG, "instapaper user required")
	}
	if pageURL == "" {
		return nil, deliver.Errorf(deliver.EINVALID, "instapaper requires a url")
	}

	v := url.Values{}
	v.Set("username", a.cfg.User)
	deliverhttp.SetNonEmpty(v, "password", a.cfg.Password)
	v.Set("url", pageURL)
	deliverhttp.SetNonEmpty(v, "title", title)
	deliverhttp.SetNonEmpty(v, "selection", selection)

	res, err := a.client.PostForm(ctx, a.baseURL+"/api/add", v)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != 201 {
		return nil, deliverhttp.Rejected(Name, res)
	}
	return &deliver.Response{
		Destination: Name,
		StatusCode:  res.StatusCode,
		Body:        strings.TrimSpace(string(res.Body)),
	}, nil
}
