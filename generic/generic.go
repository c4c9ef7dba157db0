// Package generic implements a fallback destination that posts every content
// record as a flat form to a configured endpoint.
package generic

import (
	"context"
	"net/url"
	"strings"

	"github.com/fwojciec/deliver"
	deliverhttp "github.com/fwojciec/deliver/http"
)

// Name is the destination identifier.
const Name = "generic"

// Ensure Adaptor implements deliver.PostAdaptor at compile time.
var _ deliver.PostAdaptor = (*Adaptor)(nil)

// Config names the receiving endpoint and an optional bearer token.
type Config struct {
	Endpoint string
	Token    string
}

// Adaptor posts content to any HTTP endpoint accepting form posts.
type Adaptor struct {
	cfg    Config
	client *deliverhttp.Client
}

// Option configures an Adaptor.
type Option func(*Adaptor)

// WithBaseURL overrides the configured endpoint.
func WithBaseURL(u string) Option {
	return func(a *Adaptor) {
		a.cfg.Endpoint = u
	}
}

// WithClient sets the HTTP client used for submissions.
func WithClient(c *deliverhttp.Client) Option {
	return func(a *Adaptor) {
		a.client = c
	}
}

// NewAdaptor creates an Adaptor posting to cfg.Endpoint.
func NewAdaptor(cfg Config, opts ...Option) *Adaptor {
	a := &Adaptor{cfg: cfg}
	for _, opt := range opts {
		opt(a)
	}
	if a.client == nil {
		a.client = deliverhttp.NewClient()
	}
	return a
}

func (a *Adaptor) Name() string             { return Name }
func (a *Adaptor) TitleForMenuItem() string { return "Web hook" }
func (a *Adaptor) EnableForMenuItem() bool  { return true }

// IsAvailable reports whether an absolute http(s) endpoint is configured.
func (a *Adaptor) IsAvailable() bool {
	u, err := url.Parse(a.cfg.Endpoint)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// form returns the fields shared by every kind. Extra parameters are passed
// through unchanged.
func form(kind deliver.Kind, meta deliver.Meta, opts deliver.PostOptions) url.Values {
	v := url.Values{}
	for k, val := range opts.Extra {
		v.Set(k, val)
	}
	v.Set("type", string(kind))
	deliverhttp.SetNonEmpty(v, "title", meta.Title)
	deliverhttp.SetNonEmpty(v, "url", meta.URL)
	deliverhttp.SetNonEmpty(v, "source_label", meta.SourceLabel)
	deliverhttp.SetFlag(v, "private", opts.Private)
	deliverhttp.SetFlag(v, "queue", opts.Queue)
	return v
}

func (a *Adaptor) PostLink(ctx context.Context, c *deliver.Link, opts deliver.PostOptions) (*deliver.Response, error) {
	v := form(deliver.KindLink, c.Meta, opts)
	deliverhttp.SetNonEmpty(v, "description", c.Description)
	return a.send(ctx, v, nil)
}

func (a *Adaptor) PostQuote(ctx context.Context, c *deliver.Quote, opts deliver.PostOptions) (*deliver.Response, error) {
	v := form(deliver.KindQuote, c.Meta, opts)
	v.Set("quote", c.Text)
	deliverhttp.SetNonEmpty(v, "source", c.Source)
	return a.send(ctx, v, nil)
}

// PostPhoto posts the image URL, or uploads raw bytes as multipart data.
func (a *Adaptor) PostPhoto(ctx context.Context, c *deliver.Photo, opts deliver.PostOptions) (*deliver.Response, error) {
	v := form(deliver.KindPhoto, c.Meta, opts)
	deliverhttp.SetNonEmpty(v, "caption", c.Caption)
	deliverhttp.SetNonEmpty(v, "through_url", c.ThroughURL)
	if len(c.Data) > 0 {
		return a.send(ctx, v, &deliverhttp.File{Field: "data", ContentType: c.ContentType, Data: c.Data})
	}
	v.Set("image_url", c.ImageURL)
	return a.send(ctx, v, nil)
}

func (a *Adaptor) PostVideo(ctx context.Context, c *deliver.Video, opts deliver.PostOptions) (*deliver.Response, error) {
	v := form(deliver.KindVideo, c.Meta, opts)
	v.Set("embed", c.Embed)
	deliverhttp.SetNonEmpty(v, "caption", c.Caption)
	return a.send(ctx, v, nil)
}

// PostEntry posts the content a reblog wraps.
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

func (a *Adaptor) send(ctx context.Context, v url.Values, file *deliverhttp.File) (*deliver.Response, error) {
	if !a.IsAvailable() {
		return nil, deliver.Errorf(deliver.ECONFIG, "generic endpoint required")
	}
	var auth []deliverhttp.Auth
	if a.cfg.Token != "" {
		auth = append(auth, deliverhttp.BearerToken(a.cfg.Token))
	}

	var res *deliverhttp.Result
	var err error
	if file != nil {
		res, err = a.client.PostMultipart(ctx, a.cfg.Endpoint, v, file, auth...)
	} else {
		res, err = a.client.PostForm(ctx, a.cfg.Endpoint, v, auth...)
	}
	if err != nil {
		return nil, err
	}
	if !res.OK() {
		return nil, deliverhttp.Rejected(Name, res)
	}
	return &deliver.Response{
		Destination: Name,
		StatusCode:  res.StatusCode,
		Body:        strings.TrimSpace(string(res.Body)),
	}, nil
}
