package deliver

import "encoding/json"

// Kind identifies the variant of a content record.
type Kind string

// Supported content kinds.
const (
	KindLink   Kind = "link"
	KindQuote  Kind = "quote"
	KindPhoto  Kind = "photo"
	KindVideo  Kind = "video"
	KindReblog Kind = "reblog"
)

// Title returns the capitalized kind name used in command labels.
func (k Kind) Title() string {
	switch k {
	case KindLink:
		return "Link"
	case KindQuote:
		return "Quote"
	case KindPhoto:
		return "Photo"
	case KindVideo:
		return "Video"
	case KindReblog:
		return "Reblog"
	}
	return string(k)
}

// Meta holds the fields common to every content record.
type Meta struct {
	Title       string `json:"title,omitempty"`
	SourceLabel string `json:"sourceLabel,omitempty"` // originating site, e.g. "Google Reader"
	URL         string `json:"url,omitempty"`
}

// Content is a canonical, kind-tagged representation of publishable content.
// The set of implementations is closed: Link, Quote, Photo, Video and Reblog.
type Content interface {
	Kind() Kind
	Metadata() Meta

	content()
}

// Link is a bookmark-like record pointing at a page. The link target and its
// title are the promoted Meta.URL and Meta.Title.
type Link struct {
	Meta
	Description string `json:"description,omitempty"`
}

// Quote is a text excerpt with an HTML source attribution.
type Quote struct {
	Meta
	Text   string `json:"text"`
	Source string `json:"source,omitempty"`
}

// Photo is an image referenced by URL or carried as raw bytes.
type Photo struct {
	Meta
	ImageURL    string `json:"imageUrl,omitempty"`
	Caption     string `json:"caption,omitempty"`
	ThroughURL  string `json:"throughUrl,omitempty"`
	Data        []byte `json:"data,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

// Video is an embed tag or a video page URL.
type Video struct {
	Meta
	Embed   string `json:"embed"`
	Caption string `json:"caption,omitempty"`
}

// Reblog is a repost of an existing post on the same platform. PostID and
// ReblogKey are the tokens scraped by the reblog extractor; Fields holds every
// extracted field, keyed by FieldPostID, FieldReblogKey and the raw form names.
type Reblog struct {
	Meta
	PostID    string            `json:"postId"`
	ReblogKey string            `json:"reblogKey"`
	Endpoint  string            `json:"endpoint,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

func (*Link) Kind() Kind   { return KindLink }
func (*Quote) Kind() Kind  { return KindQuote }
func (*Photo) Kind() Kind  { return KindPhoto }
func (*Video) Kind() Kind  { return KindVideo }
func (*Reblog) Kind() Kind { return KindReblog }

func (c *Link) Metadata() Meta   { return c.Meta }
func (c *Quote) Metadata() Meta  { return c.Meta }
func (c *Photo) Metadata() Meta  { return c.Meta }
func (c *Video) Metadata() Meta  { return c.Meta }
func (c *Reblog) Metadata() Meta { return c.Meta }

func (*Link) content()   {}
func (*Quote) content()  {}
func (*Photo) content()  {}
func (*Video) content()  {}
func (*Reblog) content() {}

// Token returns the reblog token carried by the record.
func (c *Reblog) Token() ReblogToken {
	return ReblogToken{PostID: c.PostID, ReblogKey: c.ReblogKey, Endpoint: c.Endpoint}
}

// EncodeContent serializes a content record as a JSON envelope of the form
// {"kind":"quote","quote":{...}}. The encoding is deterministic: map keys
// are sorted, so equal records always produce identical bytes.
func EncodeContent(c Content) ([]byte, error) {
	if c == nil {
		return nil, Errorf(EINVALID, "content required")
	}
	return json.Marshal(map[string]any{
		"kind":           c.Kind(),
		string(c.Kind()): c,
	})
}

// DecodeContent parses an envelope produced by EncodeContent.
func DecodeContent(data []byte) (Content, error) {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, Errorf(EINVALID, "invalid content envelope: %v", err)
	}
	var kind Kind
	if err := json.Unmarshal(env["kind"], &kind); err != nil {
		return nil, Errorf(EINVALID, "invalid content kind: %v", err)
	}

	var c Content
	switch kind {
	case KindLink:
		c = &Link{}
	case KindQuote:
		c = &Quote{}
	case KindPhoto:
		c = &Photo{}
	case KindVideo:
		c = &Video{}
	case KindReblog:
		c = &Reblog{}
	default:
		return nil, Errorf(EINVALID, "unknown content kind %q", kind)
	}

	body, ok := env[string(kind)]
	if !ok {
		return nil, Errorf(EINVALID, "content envelope missing %q body", kind)
	}
	if err := json.Unmarshal(body, c); err != nil {
		return nil, Errorf(EINVALID, "invalid %s content: %v", kind, err)
	}
	return c, nil
}
