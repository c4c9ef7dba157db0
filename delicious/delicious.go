// Package delicious implements the delicious bookmarking destination.
package delicious

import (
	"context"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/deliver"
	deliverhttp "github.com/fwojciec/deliver/http"
)

// Name is the destination identifier.
const Name = "delicious"

// DefaultBaseURL is the delicious API root.
const DefaultBaseURL = "https://api.del.icio.us"

// Ensure Adaptor implements deliver.PostAdaptor at compile time.
var _ deliver.PostAdaptor = (*Adaptor)(nil)

// Config holds the account credentials.
type Config struct {
	User     string
	Password string
}

// Adaptor bookmarks content through the posts/add API. Every content kind
// becomes a bookmark of its page; the quoted text or caption goes into the
// extended notes.
type Adaptor struct {
	cfg     Config
	baseURL string
	client  *deliverhttp.Client
}

// Option configures an Adaptor.
type Option func(*Adaptor)

// WithBaseURL overrides the API root.
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
func (a *Adaptor) TitleForMenuItem() string { return "Delicious" }
func (a *Adaptor) EnableForMenuItem() bool  { return true }

// IsAvailable reports whether both user and password are configured.
func (a *Adaptor) IsAvailable() bool {
	return a.cfg.User != "" && a.cfg.Password != ""
}

func (a *Adaptor) PostLink(ctx context.Context, c *deliver.Link, opts deliver.PostOptions) (*deliver.Response, error) {
	return a.add(ctx, c.URL, c.Title, c.Description, opts)
}

func (a *Adaptor) PostQuote(ctx context.Context, c *deliver.Quote, opts deliver.PostOptions) (*deliver.Response, error) {
	return a.add(ctx, c.URL, c.Title, c.Text, opts)
}

// PostPhoto bookmarks the page the photo links through to, falling back to
// the image itself.
func (a *Adaptor) PostPhoto(ctx context.Context, c *deliver.Photo, opts deliver.PostOptions) (*deliver.Response, error) {
	u := c.ThroughURL
	if u == "" {
		u = c.URL
	}
	if u == "" {
		u = c.ImageURL
	}
	return a.add(ctx, u, c.Title, c.Caption, opts)
}

func (a *Adaptor) PostVideo(ctx context.Context, c *deliver.Video, opts deliver.PostOptions) (*deliver.Response, error) {
	return a.add(ctx, c.URL, c.Title, c.Caption, opts)
}

// PostEntry bookmarks the content a reblog wraps.
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

func (a *Adaptor) add(ctx context.Context, pageURL, title, extended string, opts deliver.PostOptions) (*deliver.Response, error) {
	if !a.IsAvailable() {
		return nil, deliver.Errorf(deliver.ECONFIG, "delicious user and password required")
	}
	if pageURL == "" {
		return nil, deliver.Errorf(deliver.EINVALID, "delicious bookmark requires a url")
	}
	if title == "" {
		title = pageURL
	}

	v := url.Values{}
	v.Set("url", pageURL)
	v.Set("description", title)
	deliverhttp.SetNonEmpty(v, "extended", extended)
	deliverhttp.SetNonEmpty(v, "tags", opts.ExtraValue("tags"))
	if opts.Private {
		v.Set("shared", "no")
	}
	v.Set("replace", "no")

	res, err := a.client.PostForm(ctx, a.baseURL+"/v1/posts/add", v,
		deliverhttp.BasicAuth(a.cfg.User, a.cfg.Password))
	if err != nil {
		return nil, err
	}
	return response(res)
}

// response interprets a posts/add reply: 2xx with <result code="done"/>.
func response(res *deliverhttp.Result) (*deliver.Response, error) {
	if !res.OK() {
		return nil, deliverhttp.Rejected(Name, res)
	}
	code, err := resultCode(res.Body)
	if err != nil {
		return nil, err
	}
	if code != "done" {
		return nil, deliver.Errorf(deliver.EREJECTED, "delicious rejected post: %s", code)
	}
	return &deliver.Response{
		Destination: Name,
		StatusCode:  res.StatusCode,
		Body:        strings.TrimSpace(string(res.Body)),
	}, nil
}

// resultCode returns the code attribute of the result element, or its text
// when the attribute is absent.
func resultCode(body []byte) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return "", deliver.Errorf(deliver.EREJECTED, "delicious returned invalid XML: %s",
			strings.TrimSpace(string(body)))
	}
	result := doc.FindElement("//result")
	if result == nil {
		return "", deliver.Errorf(deliver.EREJECTED, "delicious response has no result: %s",
			strings.TrimSpace(string(body)))
	}
	if code := result.SelectAttrValue("code", ""); code != "" {
		return code, nil
	}
	return strings.TrimSpace(result.Text()), nil
}
