package goquery

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/fwojciec/deliver"
)

// Ensure VideoDeliverer implements deliver.Deliverer at compile time.
var _ deliver.Deliverer = (*VideoDeliverer)(nil)

// VideoDeliverer posts the video of a video-host page. Each host supplies its
// own embed resolution.
type VideoDeliverer struct {
	base
	embed func(p *page) string
}

var vimeoPath = regexp.MustCompile(`^/\d+/?$`)

// NewYouTubeDeliverer returns the deliverer for YouTube watch pages. The
// embed is the canonical watch URL.
func NewYouTubeDeliverer(matcher deliver.Matcher) *VideoDeliverer {
	return &VideoDeliverer{
		base: base{name: "youtube-video", kind: deliver.KindVideo, matcher: matcher},
		embed: func(p *page) string {
			if !hostIs(p.doc.URL, "youtube.com") || p.base == nil || p.base.Path != "/watch" {
				return ""
			}
			id := p.base.Query().Get("v")
			if id == "" {
				return ""
			}
			return "http://www.youtube.com/watch?v=" + url.QueryEscape(id)
		},
	}
}

// NewVimeoDeliverer returns the deliverer for Vimeo clip pages.
func NewVimeoDeliverer(matcher deliver.Matcher) *VideoDeliverer {
	return &VideoDeliverer{
		base: base{name: "vimeo-video", kind: deliver.KindVideo, matcher: matcher},
		embed: func(p *page) string {
			if !hostIs(p.doc.URL, "vimeo.com") || p.base == nil || !vimeoPath.MatchString(p.base.Path) {
				return ""
			}
			return "http://vimeo.com" + strings.TrimSuffix(p.base.Path, "/")
		},
	}
}

// NewSlideShareDeliverer returns the deliverer for SlideShare presentations.
// The embed is the page's embed code, or an embed tag for its og:video.
func NewSlideShareDeliverer(matcher deliver.Matcher) *VideoDeliverer {
	return &VideoDeliverer{
		base: base{name: "slideshare-video", kind: deliver.KindVideo, matcher: matcher},
		embed: func(p *page) string {
			if !hostIs(p.doc.URL, "slideshare.net") {
				return ""
			}
			code := first(p.root.Selection, []field{attr("#embed_code", "value"), attr("input#embed_code", "value")})
			if code == "" {
				code = strings.TrimSpace(p.root.Find("textarea#embed_code").First().Text())
			}
			if code != "" {
				return code
			}
			if src := p.meta("og:video"); src != "" {
				return `<embed src="` + p.resolve(src) + `" type="application/x-shockwave-flash"></embed>`
			}
			return ""
		},
	}
}

// Match reports whether the host resolves an embed for doc.
func (d *VideoDeliverer) Match(doc *deliver.Document, el *deliver.Element) bool {
	p, ok := parsePage(doc, el)
	if !ok {
		return false
	}
	return d.embed(p) != ""
}

// NewContext binds the deliverer to doc and el.
func (d *VideoDeliverer) NewContext(doc *deliver.Document, el *deliver.Element) (*deliver.Context, error) {
	return d.newContext(doc, el, d.Match)
}

// Build creates the Video record. The caption is an anchor to the page
// followed by the quoted selection.
func (d *VideoDeliverer) Build(_ context.Context, c *deliver.Context) (deliver.Content, error) {
	p, ok := parsePage(c.Document, c.Element)
	if !ok {
		return nil, deliver.Errorf(deliver.EPARSE, "cannot parse %s", c.DocumentURL())
	}
	embed := d.embed(p)
	if embed == "" {
		return nil, deliver.Errorf(deliver.EPARSE, "no video on %s", c.DocumentURL())
	}
	return &deliver.Video{
		Meta:    c.Meta(),
		Embed:   embed,
		Caption: photoCaption(c),
	}, nil
}
