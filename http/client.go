package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/fwojciec/deliver"
)

// DefaultUserAgent identifies requests made by this package.
const DefaultUserAgent = "deliver/1.0"

// DefaultSubmitRate is the default number of submissions per second and host.
const DefaultSubmitRate = 2.0

// Auth decorates an outgoing request with credentials.
type Auth func(req *http.Request)

// BasicAuth returns an Auth that sets HTTP basic credentials.
func BasicAuth(user, password string) Auth {
	return func(req *http.Request) {
		req.SetBasicAuth(user, password)
	}
}

// BearerToken returns an Auth that sets an OAuth2 bearer token.
func BearerToken(token string) Auth {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// File is a binary part of a multipart request.
type File struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

// Result is a fully buffered response.
type Result struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the response has a 2xx status.
func (r *Result) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client submits form and multipart POST requests. Responses are buffered
// in full; status interpretation is left to the caller.
// Client is safe for concurrent use.
type Client struct {
	client    *http.Client
	limiter   *HostLimiter
	timeout   time.Duration
	userAgent string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithClientTimeout sets the timeout for a whole exchange.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithClientTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets the underlying client. Its Timeout is left untouched.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.client = hc
	}
}

// WithLimiter sets the per-host limiter. A nil limiter disables limiting.
func WithLimiter(l *HostLimiter) ClientOption {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithClientUserAgent sets the User-Agent header.
func WithClientUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a Client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		limiter:   NewHostLimiter(DefaultSubmitRate, 1),
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: c.timeout}
	}
	return c
}

// PostForm sends form as an application/x-www-form-urlencoded body.
func (c *Client) PostForm(ctx context.Context, endpoint string, form url.Values, auth ...Auth) (*Result, error) {
	body := strings.NewReader(form.Encode())
	return c.do(ctx, endpoint, "application/x-www-form-urlencoded", body, auth)
}

// PostMultipart sends form and file as a multipart/form-data body. Form
// fields are written in key order.
func (c *Client) PostMultipart(ctx context.Context, endpoint string, form url.Values, file *File, auth ...Auth) (*Result, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range form[k] {
			if err := w.WriteField(k, v); err != nil {
				return nil, fmt.Errorf("writing field %s: %w", k, err)
			}
		}
	}

	if file != nil {
		h := make(textproto.MIMEHeader)
		name := file.Name
		if name == "" {
			name = "upload"
		}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, name))
		ct := file.ContentType
		if ct == "" {
			ct = http.DetectContentType(file.Data)
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("creating file part: %w", err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, fmt.Errorf("writing file part: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart body: %w", err)
	}

	return c.do(ctx, endpoint, w.FormDataContentType(), &buf, auth)
}

func (c *Client) do(ctx context.Context, endpoint, contentType string, body io.Reader, auth []Auth) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, deliver.Errorf(deliver.EINVALID, "invalid endpoint %q: %v", endpoint, err)
	}
	req.Header.Set("Content-Type", contentType)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for _, a := range auth {
		a(req)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, req.URL.Host); err != nil {
			return nil, transportError(ctx, fmt.Errorf("waiting for %s: %w", req.URL.Host, err))
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, transportError(ctx, fmt.Errorf("posting to %s: %w", endpoint, err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(ctx, fmt.Errorf("reading response from %s: %w", endpoint, err))
	}

	return &Result{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// SetNonEmpty sets key to value only when value is not empty.
func SetNonEmpty(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

// SetFlag sets key to "1" when flag is true.
func SetFlag(v url.Values, key string, flag bool) {
	if flag {
		v.Set(key, "1")
	}
}

// Rejected returns an EREJECTED error carrying the raw response body.
func Rejected(destination string, r *Result) error {
	return deliver.Errorf(deliver.EREJECTED, "%s rejected post (HTTP %d): %s",
		destination, r.StatusCode, strings.TrimSpace(string(r.Body)))
}
