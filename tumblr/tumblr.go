// Package tumblr implements the tumblr destination: the write and reblog API
// adaptor and the reblog token extractor.
package tumblr

import (
	"context"
	"net/url"
	"strings"

	"github.com/fwojciec/deliver"
	deliverhttp "github.com/fwojciec/deliver/http"
)

// Name is the destination identifier.
const Name = "tumblr"

// DefaultBaseURL is the tumblr web root.
const DefaultBaseURL = "https://www.tumblr.com"

// DefaultGenerator names the posting client in write requests.
const DefaultGenerator = "deliver"

// Ensure Adaptor implements deliver.PostAdaptor at compile time.
var _ deliver.PostAdaptor = (*Adaptor)(nil)

// Config holds the account credentials.
type Config struct {
	Email     string
	Password  string
	Generator string
}

// Adaptor posts to tumblr through the write and reblog APIs.
type Adaptor struct {
	cfg     Config
	baseURL string
	client  *deliverhttp.Client
}

// Option configures an Adaptor.
type Option func(*Adaptor)

// WithBaseURL overrides the tumblr web root.
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

// NewAdaptor creates an Adaptor for the account in cfg.
func NewAdaptor(cfg Config, opts ...Option) *Adaptor {
	if cfg.Generator == "" {
		cfg.Generator = DefaultGenerator
	}
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
func (a *Adaptor) TitleForMenuItem() string { return "Tumblr" }
func (a *Adaptor) EnableForMenuItem() bool  { return true }

// IsAvailable reports whether both email and password are configured.
func (a *Adaptor) IsAvailable() bool {
	return a.cfg.Email != "" && a.cfg.Password != ""
}

// params returns the parameters every request carries.
func (a *Adaptor) params(opts deliver.PostOptions) url.Values {
	v := url.Values{}
	v.Set("email", a.cfg.Email)
	v.Set("password", a.cfg.Password)
	deliverhttp.SetFlag(v, "private", opts.Private)
	if opts.Queue {
		v.Set("state", "queue")
	}
	return v
}

// writeParams returns the write API parameters for a post of type typ.
func (a *Adaptor) writeParams(typ string, opts deliver.PostOptions) url.Values {
	v := a.params(opts)
	v.Set("type", typ)
	deliverhttp.SetNonEmpty(v, "generator", a.cfg.Generator)
	deliverhttp.SetNonEmpty(v, "format", opts.ExtraValue("format"))
	deliverhttp.SetNonEmpty(v, "tags", opts.ExtraValue("tags"))
	return v
}

// PostLink creates a link post.
func (a *Adaptor) PostLink(ctx context.Context, c *deliver.Link, opts deliver.PostOptions) (*deliver.Response, error) {
	v := a.writeParams("link", opts)
	v.Set("url", c.URL)
	deliverhttp.SetNonEmpty(v, "name", c.Title)
	deliverhttp.SetNonEmpty(v, "description", c.Description)
	return a.write(ctx, v, nil)
}

// PostQuote creates a quote post.
func (a *Adaptor) PostQuote(ctx context.Context, c *deliver.Quote, opts deliver.PostOptions) (*deliver.Response, error) {
	v := a.writeParams("quote", opts)
	v.Set("quote", c.Text)
	deliverhttp.SetNonEmpty(v, "source", c.Source)
	return a.write(ctx, v, nil)
}

// PostPhoto creates a photo post. Raw image bytes are uploaded as multipart
// data; otherwise the image URL is the source.
func (a *Adaptor) PostPhoto(ctx context.Context, c *deliver.Photo, opts deliver.PostOptions) (*deliver.Response, error) {
	v := a.writeParams("photo", opts)
	deliverhttp.SetNonEmpty(v, "caption", c.Caption)
	deliverhttp.SetNonEmpty(v, "click-through-url", c.ThroughURL)
	if len(c.Data) > 0 {
		return a.write(ctx, v, &deliverhttp.File{Field: "data", ContentType: c.ContentType, Data: c.Data})
	}
	v.Set("source", c.ImageURL)
	return a.write(ctx, v, nil)
}

// PostVideo creates a video post.
func (a *Adaptor) PostVideo(ctx context.Context, c *deliver.Video, opts deliver.PostOptions) (*deliver.Response, error) {
	v := a.writeParams("video", opts)
	v.Set("embed", c.Embed)
	deliverhttp.SetNonEmpty(v, "caption", c.Caption)
	return a.write(ctx, v, nil)
}

// PostEntry reblogs a post through the reblog API. The extracted form fields
// are passed through alongside the tokens. The comment defaults to the
// extracted caption.
func (a *Adaptor) PostEntry(ctx context.Context, c *deliver.Reblog, opts deliver.PostOptions) (*deliver.Response, error) {
	if c.PostID == "" || c.ReblogKey == "" {
		return nil, deliver.Errorf(deliver.EINVALID, "reblog requires post id and reblog key")
	}
	v := a.params(opts)
	for k, val := range c.Fields {
		if k == deliver.FieldPostID || k == deliver.FieldReblogKey {
			continue
		}
		v.Set(k, val)
	}
	v.Set("post-id", c.PostID)
	v.Set("reblog-key", c.ReblogKey)
	comment := opts.ExtraValue("comment")
	if comment == "" {
		comment = c.Fields["post[two]"]
	}
	deliverhttp.SetNonEmpty(v, "comment", comment)
	deliverhttp.SetNonEmpty(v, "as", opts.ExtraValue("as"))

	return a.send(ctx, "/api/reblog", v, nil)
}

func (a *Adaptor) write(ctx context.Context, v url.Values, file *deliverhttp.File) (*deliver.Response, error) {
	return a.send(ctx, "/api/write", v, file)
}

func (a *Adaptor) send(ctx context.Context, path string, v url.Values, file *deliverhttp.File) (*deliver.Response, error) {
	if !a.IsAvailable() {
		return nil, deliver.Errorf(deliver.ECONFIG, "tumblr email and password required")
	}
	endpoint := a.baseURL + path

	var res *deliverhttp.Result
	var err error
	if file != nil {
		res, err = a.client.PostMultipart(ctx, endpoint, v, file)
	} else {
		res, err = a.client.PostForm(ctx, endpoint, v)
	}
	if err != nil {
		return nil, err
	}
	return a.response(res)
}

// response interprets a write or reblog response: 201 Created with the new
// post id as the body.
func (a *Adaptor) response(res *deliverhttp.Result) (*deliver.Response, error) {
	if res.StatusCode != 201 {
		return nil, deliverhttp.Rejected(Name, res)
	}
	body := strings.TrimSpace(string(res.Body))
	return &deliver.Response{
		Destination: Name,
		StatusCode:  res.StatusCode,
		Body:        body,
		PostID:      body,
	}, nil
}

// Endpoint returns the reblog page of a post under baseURL. The key segment
// is omitted when reblogKey is empty.
func Endpoint(baseURL, postID, reblogKey string) string {
	u := strings.TrimRight(baseURL, "/") + "/reblog/" + url.PathEscape(postID)
	if reblogKey != "" {
		u += "/" + url.PathEscape(reblogKey)
	}
	return u
}

// EndpointWithPostID returns the reblog page of a post on tumblr.
func EndpointWithPostID(postID, reblogKey string) string {
	return Endpoint(DefaultBaseURL, postID, reblogKey)
}
