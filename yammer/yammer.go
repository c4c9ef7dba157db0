// Package yammer implements the yammer enterprise microblog destination.
// Every content kind becomes a message whose body is rendered as Markdown
// and which carries an open graph reference to the source page.
package yammer

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/fwojciec/deliver"
	deliverhttp "github.com/fwojciec/deliver/http"
	"golang.org/x/net/html"
)

// Name is the destination identifier.
const Name = "yammer"

// DefaultBaseURL is the yammer API root.
const DefaultBaseURL = "https://www.yammer.com"

// Ensure Adaptor implements deliver.PostAdaptor at compile time.
var _ deliver.PostAdaptor = (*Adaptor)(nil)

// Config holds the OAuth token and the default group.
type Config struct {
	Token   string
	GroupID string
}

// Adaptor posts messages through the messages API.
type Adaptor struct {
	cfg       Config
	baseURL   string
	client    *deliverhttp.Client
	converter deliver.Converter
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

// WithConverter sets the HTML to Markdown converter for message bodies.
// Without one, bodies are sent as HTML.
func WithConverter(c deliver.Converter) Option {
	return func(a *Adaptor) {
		a.converter = c
	}
}

// NewAdaptor creates an Adaptor for the token in cfg.
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
func (a *Adaptor) TitleForMenuItem() string { return "Yammer" }
func (a *Adaptor) EnableForMenuItem() bool  { return true }

// IsAvailable reports whether a token is configured.
func (a *Adaptor) IsAvailable() bool {
	return a.cfg.Token != ""
}

func (a *Adaptor) PostLink(ctx context.Context, c *deliver.Link, opts deliver.PostOptions) (*deliver.Response, error) {
	body := deliver.AnchorHTML(c.URL, c.Title)
	if c.Description != "" {
		body = deliver.Blockquote(c.Description) + body
	}
	return a.post(ctx, c.Meta, body, opts)
}

func (a *Adaptor) PostQuote(ctx context.Context, c *deliver.Quote, opts deliver.PostOptions) (*deliver.Response, error) {
	body := deliver.Blockquote(c.Text)
	if c.Source != "" {
		body += "<p>" + c.Source + "</p>"
	}
	return a.post(ctx, c.Meta, body, opts)
}

func (a *Adaptor) PostPhoto(ctx context.Context, c *deliver.Photo, opts deliver.PostOptions) (*deliver.Response, error) {
	if c.ImageURL == "" {
		return nil, deliver.Errorf(deliver.EINVALID, "yammer photo requires an image url")
	}
	body := `<p><img src="` + html.EscapeString(c.ImageURL) + `"></p>` + c.Caption
	meta := c.Meta
	if c.ThroughURL != "" {
		meta.URL = c.ThroughURL
	}
	return a.post(ctx, meta, body, opts)
}

func (a *Adaptor) PostVideo(ctx context.Context, c *deliver.Video, opts deliver.PostOptions) (*deliver.Response, error) {
	body := c.Caption
	if body == "" {
		body = deliver.AnchorHTML(c.URL, c.Title)
	}
	return a.post(ctx, c.Meta, body, opts)
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

func (a *Adaptor) post(ctx context.Context, meta deliver.Meta, markup string, opts deliver.PostOptions) (*deliver.Response, error) {
	if !a.IsAvailable() {
		return nil, deliver.Errorf(deliver.ECONFIG, "yammer token required")
	}
	body, err := a.render(markup)
	if err != nil {
		return nil, err
	}
	if body == "" {
		return nil, deliver.Errorf(deliver.EINVALID, "yammer message body is empty")
	}

	v := url.Values{}
	v.Set("body", body)
	deliverhttp.SetNonEmpty(v, "og_url", meta.URL)
	deliverhttp.SetNonEmpty(v, "og_title", meta.Title)
	group := opts.ExtraValue("group_id")
	if group == "" {
		group = a.cfg.GroupID
	}
	deliverhttp.SetNonEmpty(v, "group_id", group)

	res, err := a.client.PostForm(ctx, a.baseURL+"/api/v1/messages.json", v,
		deliverhttp.BearerToken(a.cfg.Token))
	if err != nil {
		return nil, err
	}
	return response(res)
}

func (a *Adaptor) render(markup string) (string, error) {
	if a.converter == nil || strings.TrimSpace(markup) == "" {
		return strings.TrimSpace(markup), nil
	}
	md, err := a.converter.Convert(markup)
	if err != nil {
		return "", deliver.Errorf(deliver.EINTERNAL, "rendering yammer message: %v", err)
	}
	return strings.TrimSpace(md), nil
}

type messagesResponse struct {
	Messages []struct {
		ID json.Number `json:"id"`
	} `json:"messages"`
}

// response interprets a messages reply: 201 with the created messages.
func response(res *deliverhttp.Result) (*deliver.Response, error) {
	if res.StatusCode != 201 {
		return nil, deliverhttp.Rejected(Name, res)
	}
	var msgs messagesResponse
	dec := json.NewDecoder(bytes.NewReader(res.Body))
	dec.UseNumber()
	if err := dec.Decode(&msgs); err != nil || len(msgs.Messages) == 0 {
		return nil, deliver.Errorf(deliver.EREJECTED, "yammer response has no messages: %s",
			strings.TrimSpace(string(res.Body)))
	}
	return &deliver.Response{
		Destination: Name,
		StatusCode:  res.StatusCode,
		Body:        strings.TrimSpace(string(res.Body)),
		PostID:      msgs.Messages[0].ID.String(),
	}, nil
}
