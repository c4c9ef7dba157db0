package goquery

import (
	"context"
	"net/url"
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/deliver"
)

// Ensure reblog deliverers implement deliver.Deliverer at compile time.
var (
	_ deliver.Deliverer = (*ReblogDeliverer)(nil)
	_ deliver.Deliverer = (*AggregatorReblogDeliverer)(nil)
)

// DestinationTumblr is the destination reblog deliverers build for.
const DestinationTumblr = "tumblr"

var (
	reblogLinkPath = regexp.MustCompile(`/reblog/(\d+)(?:/([A-Za-z0-9]+))?`)
	tumblrPostURL  = regexp.MustCompile(`^https?://([^/]+\.tumblr\.com)/post/(\d+)`)
)

// postContainers are the ancestors that delimit a single post on a tumblr
// page.
const postContainers = `li.post, article[data-post-id], div.post`

// reblogTarget is the post a reblog command acts on.
type reblogTarget struct {
	postID    string
	reblogKey string
	permalink string
}

// findReblogTarget reads the post id and reblog key of the clicked post, or
// of the page's tumblr controls iframe.
func findReblogTarget(p *page) (reblogTarget, bool) {
	if post := p.target.Closest(postContainers); post.Length() > 0 {
		var t reblogTarget
		post.Find(`a[href*="/reblog/"]`).EachWithBreak(func(_ int, a *goquery.Selection) bool {
			href, _ := a.Attr("href")
			m := reblogLinkPath.FindStringSubmatch(href)
			if m == nil {
				return true
			}
			t.postID, t.reblogKey = m[1], m[2]
			return false
		})
		if t.postID == "" {
			t.postID, _ = post.Attr("data-post-id")
			t.reblogKey, _ = post.Attr("data-reblog-key")
		}
		if t.postID != "" {
			if href, ok := post.Find(`a[href*="/post/` + t.postID + `"]`).First().Attr("href"); ok {
				t.permalink = p.resolve(href)
			}
			return t, true
		}
	}

	src, ok := p.root.Find("iframe#tumblr_controls[src]").First().Attr("src")
	if !ok {
		return reblogTarget{}, false
	}
	u, err := url.Parse(p.resolve(src))
	if err != nil {
		return reblogTarget{}, false
	}
	q := u.Query()
	t := reblogTarget{postID: q.Get("pid"), reblogKey: q.Get("rk")}
	return t, t.postID != ""
}

// buildReblog runs one extraction to a terminal state and builds the Reblog
// record from its result. Cancellation of ctx cancels the extraction.
func buildReblog(ctx context.Context, ext deliver.ReblogExtractor, c *deliver.Context, t reblogTarget) (deliver.Content, error) {
	if err := ext.Start(ctx, t.postID, t.reblogKey); err != nil {
		return nil, err
	}
	select {
	case <-ext.Done():
	case <-ctx.Done():
		ext.Cancel()
		<-ext.Done()
	}

	tok, fields, err := ext.Result()
	if err != nil {
		return nil, err
	}

	meta := c.Meta()
	if t.permalink != "" {
		meta.URL = t.permalink
	}
	return &deliver.Reblog{
		Meta:      meta,
		PostID:    tok.PostID,
		ReblogKey: tok.ReblogKey,
		Endpoint:  tok.Endpoint,
		Fields:    fields,
	}, nil
}

// ReblogDeliverer reblogs a post shown on a tumblr page: a blog post page
// with tumblr controls or a dashboard post with a reblog link.
type ReblogDeliverer struct {
	base
	newExtractor deliver.ReblogExtractorFunc
}

// NewReblogDeliverer creates a ReblogDeliverer. newExtractor supplies one
// extractor per build.
func NewReblogDeliverer(matcher deliver.Matcher, newExtractor deliver.ReblogExtractorFunc) *ReblogDeliverer {
	return &ReblogDeliverer{
		base:         base{name: "tumblr-reblog", kind: deliver.KindReblog, destination: DestinationTumblr, matcher: matcher},
		newExtractor: newExtractor,
	}
}

// Match reports whether the clicked post or the page exposes a post id.
func (d *ReblogDeliverer) Match(doc *deliver.Document, el *deliver.Element) bool {
	p, ok := parsePage(doc, el)
	if !ok {
		return false
	}
	_, ok = findReblogTarget(p)
	return ok
}

// NewContext binds the deliverer to doc and el.
func (d *ReblogDeliverer) NewContext(doc *deliver.Document, el *deliver.Element) (*deliver.Context, error) {
	return d.newContext(doc, el, d.Match)
}

// Build extracts the reblog tokens and creates the Reblog record. It blocks
// until the extraction is terminal.
func (d *ReblogDeliverer) Build(ctx context.Context, c *deliver.Context) (deliver.Content, error) {
	p, ok := parsePage(c.Document, c.Element)
	if !ok {
		return nil, deliver.Errorf(deliver.EPARSE, "cannot parse %s", c.DocumentURL())
	}
	t, ok := findReblogTarget(p)
	if !ok {
		return nil, deliver.Errorf(deliver.EPARSE, "no post to reblog on %s", c.DocumentURL())
	}
	return buildReblog(ctx, d.newExtractor(), c, t)
}

// AggregatorReblogDeliverer reblogs a tumblr post shown as a feed entry in an
// aggregator. The entry URL carries the post id; the reblog key is read from
// the reblog page.
type AggregatorReblogDeliverer struct {
	base
	newExtractor deliver.ReblogExtractorFunc
}

// NewAggregatorReblogDeliverer creates an AggregatorReblogDeliverer over an
// aggregator matcher.
func NewAggregatorReblogDeliverer(matcher deliver.Matcher, newExtractor deliver.ReblogExtractorFunc) *AggregatorReblogDeliverer {
	return &AggregatorReblogDeliverer{
		base:         base{name: qualified(matcher, deliver.KindReblog), kind: deliver.KindReblog, destination: DestinationTumblr, matcher: matcher},
		newExtractor: newExtractor,
	}
}

// entryTarget returns the post id of a tumblr entry URL; media hosts are not
// posts.
func entryTarget(entryURL string) (reblogTarget, bool) {
	m := tumblrPostURL.FindStringSubmatch(entryURL)
	if m == nil || m[1] == "data.tumblr.com" {
		return reblogTarget{}, false
	}
	return reblogTarget{postID: m[2], permalink: entryURL}, true
}

// Match reports whether the clicked entry links to a tumblr post.
func (d *AggregatorReblogDeliverer) Match(doc *deliver.Document, el *deliver.Element) bool {
	if !d.matcher.Match(doc, el) {
		return false
	}
	c, err := d.matcher.Extract(doc, el)
	if err != nil {
		return false
	}
	_, ok := entryTarget(c.URL)
	return ok
}

// NewContext binds the deliverer to doc and el.
func (d *AggregatorReblogDeliverer) NewContext(doc *deliver.Document, el *deliver.Element) (*deliver.Context, error) {
	return d.newContext(doc, el, d.Match)
}

// Build extracts the reblog tokens and creates the Reblog record.
func (d *AggregatorReblogDeliverer) Build(ctx context.Context, c *deliver.Context) (deliver.Content, error) {
	t, ok := entryTarget(c.URL)
	if !ok {
		return nil, deliver.Errorf(deliver.EPARSE, "entry %q is not a tumblr post", c.URL)
	}
	return buildReblog(ctx, d.newExtractor(), c, t)
}
