package deliver

import "context"

// PostOptions are per-call submission options. Adaptors never keep them.
type PostOptions struct {
	Private bool
	Queue   bool

	// Expand posts a reblog as the content it wraps instead of reposting.
	Expand bool

	// Extra carries destination-specific parameters (tags, group_id,
	// comment, format).
	Extra map[string]string
}

// ExtraValue returns the named extra parameter.
func (o PostOptions) ExtraValue(key string) string {
	if o.Extra == nil {
		return ""
	}
	return o.Extra[key]
}

// Response summarizes a successful submission.
type Response struct {
	Destination string `json:"destination"`
	StatusCode  int    `json:"statusCode"`
	Body        string `json:"body,omitempty"`

	// PostID is the identifier of the created post, when the destination
	// reports one.
	PostID string `json:"postId,omitempty"`
}

// PostAdaptor translates content records into requests for one destination
// service.
type PostAdaptor interface {
	// Name returns the destination identifier (e.g., "tumblr").
	Name() string

	// TitleForMenuItem and EnableForMenuItem are display metadata only.
	TitleForMenuItem() string
	EnableForMenuItem() bool

	// IsAvailable reports whether the destination has credentials configured.
	IsAvailable() bool

	PostLink(ctx context.Context, c *Link, opts PostOptions) (*Response, error)
	PostQuote(ctx context.Context, c *Quote, opts PostOptions) (*Response, error)
	PostPhoto(ctx context.Context, c *Photo, opts PostOptions) (*Response, error)
	PostVideo(ctx context.Context, c *Video, opts PostOptions) (*Response, error)

	// PostEntry submits a reblog-style record where the destination defines
	// the full parameter set.
	PostEntry(ctx context.Context, c *Reblog, opts PostOptions) (*Response, error)
}
