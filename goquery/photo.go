package goquery

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/fwojciec/deliver"
)

// Ensure photo deliverers implement deliver.Deliverer at compile time.
var (
	_ deliver.Deliverer = (*PhotoDeliverer)(nil)
	_ deliver.Deliverer = (*FlickrPhotoDeliverer)(nil)
	_ deliver.Deliverer = (*LocalPhotoDeliverer)(nil)
)

// photoCaption is an anchor to the page followed by the quoted selection.
func photoCaption(c *deliver.Context) string {
	return c.AnchorToDocument() + deliver.Blockquote(c.Selection())
}

func isRemoteImage(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// PhotoDeliverer posts the clicked image. The click-through URL is the
// clicked link, or the page when the image is not linked.
type PhotoDeliverer struct {
	base
}

// NewPhotoDeliverer creates a PhotoDeliverer over matcher.
func NewPhotoDeliverer(matcher deliver.Matcher) *PhotoDeliverer {
	return &PhotoDeliverer{
		base: base{name: qualified(matcher, deliver.KindPhoto), kind: deliver.KindPhoto, matcher: matcher},
	}
}

// Match reports whether a remote image was clicked.
func (d *PhotoDeliverer) Match(doc *deliver.Document, el *deliver.Element) bool {
	if el == nil || !isRemoteImage(el.ImageURL) {
		return false
	}
	return d.matcher.Match(doc, el)
}

// NewContext binds the deliverer to doc and el.
func (d *PhotoDeliverer) NewContext(doc *deliver.Document, el *deliver.Element) (*deliver.Context, error) {
	return d.newContext(doc, el, d.Match)
}

// Build creates the Photo record.
func (d *PhotoDeliverer) Build(_ context.Context, c *deliver.Context) (deliver.Content, error) {
	if c.Element == nil || c.Element.ImageURL == "" {
		return nil, deliver.Errorf(deliver.EINVALID, "no image selected")
	}
	through := c.Element.LinkURL
	if through == "" {
		through = c.DocumentURL()
	}
	return &deliver.Photo{
		Meta:       c.Meta(),
		ImageURL:   c.Element.ImageURL,
		Caption:    photoCaption(c),
		ThroughURL: through,
	}, nil
}

var flickrPhotoPath = regexp.MustCompile(`^/photos/[^/]+/\d+`)

// FlickrPhotoDeliverer posts the main photo of a Flickr photo page.
type FlickrPhotoDeliverer struct {
	base
}

// NewFlickrPhotoDeliverer creates a FlickrPhotoDeliverer over matcher.
func NewFlickrPhotoDeliverer(matcher deliver.Matcher) *FlickrPhotoDeliverer {
	return &FlickrPhotoDeliverer{
		base: base{name: "flickr-photo", kind: deliver.KindPhoto, matcher: matcher},
	}
}

// Match reports whether doc is a Flickr photo page with a main image.
func (d *FlickrPhotoDeliverer) Match(doc *deliver.Document, el *deliver.Element) bool {
	p, ok := parsePage(doc, el)
	if !ok || !hostIs(p.doc.URL, "flickr.com") {
		return false
	}
	if p.base == nil || !flickrPhotoPath.MatchString(p.base.Path) {
		return false
	}
	return flickrImage(p) != ""
}

func flickrImage(p *page) string {
	src := p.meta("og:image")
	if src == "" {
		src = first(p.root.Selection, []field{
			attr("img.main-photo", "src"),
			attr(`link[rel="image_src"]`, "href"),
		})
	}
	return p.resolve(src)
}

// NewContext binds the deliverer to doc and el.
func (d *FlickrPhotoDeliverer) NewContext(doc *deliver.Document, el *deliver.Element) (*deliver.Context, error) {
	return d.newContext(doc, el, d.Match)
}

// Build creates the Photo record of the page's main image.
func (d *FlickrPhotoDeliverer) Build(_ context.Context, c *deliver.Context) (deliver.Content, error) {
	p, ok := parsePage(c.Document, nil)
	if !ok {
		return nil, deliver.Errorf(deliver.EPARSE, "cannot parse %s", c.DocumentURL())
	}
	src := flickrImage(p)
	if src == "" {
		return nil, deliver.Errorf(deliver.EPARSE, "no photo on %s", c.DocumentURL())
	}
	meta := c.Meta()
	if t := p.meta("og:title"); t != "" {
		meta.Title = t
	}
	if meta.SourceLabel == "" {
		meta.SourceLabel = "Flickr"
	}
	titled := *c
	titled.Title = meta.Title
	return &deliver.Photo{
		Meta:       meta,
		ImageURL:   src,
		Caption:    photoCaption(&titled),
		ThroughURL: c.DocumentURL(),
	}, nil
}

// LocalPhotoDeliverer posts a clicked file:// image as raw bytes.
type LocalPhotoDeliverer struct {
	base
	readFile func(name string) ([]byte, error)
}

// NewLocalPhotoDeliverer creates a LocalPhotoDeliverer over matcher.
func NewLocalPhotoDeliverer(matcher deliver.Matcher) *LocalPhotoDeliverer {
	return &LocalPhotoDeliverer{
		base:     base{name: "local-photo", kind: deliver.KindPhoto, matcher: matcher},
		readFile: os.ReadFile,
	}
}

// Match reports whether a local image was clicked.
func (d *LocalPhotoDeliverer) Match(doc *deliver.Document, el *deliver.Element) bool {
	if el == nil || !strings.HasPrefix(el.ImageURL, "file://") {
		return false
	}
	return d.matcher.Match(doc, el)
}

// NewContext binds the deliverer to doc and el.
func (d *LocalPhotoDeliverer) NewContext(doc *deliver.Document, el *deliver.Element) (*deliver.Context, error) {
	return d.newContext(doc, el, d.Match)
}

// Build reads the image file and creates a Photo record carrying its bytes.
func (d *LocalPhotoDeliverer) Build(ctx context.Context, c *deliver.Context) (deliver.Content, error) {
	if c.Element == nil {
		return nil, deliver.Errorf(deliver.EINVALID, "no image selected")
	}
	u, err := url.Parse(c.Element.ImageURL)
	if err != nil || u.Scheme != "file" {
		return nil, deliver.Errorf(deliver.EINVALID, "invalid file URL %q", c.Element.ImageURL)
	}
	if err := ctx.Err(); err != nil {
		return nil, deliver.WrapError(deliver.ECANCELED, err)
	}

	data, err := d.readFile(u.Path)
	if os.IsNotExist(err) {
		return nil, deliver.Errorf(deliver.ENOTFOUND, "image %s not found", u.Path)
	} else if err != nil {
		return nil, deliver.Errorf(deliver.EINVALID, "reading image %s: %v", u.Path, err)
	}

	meta := c.Meta()
	if meta.Title == "" {
		meta.Title = path.Base(u.Path)
	}
	caption := deliver.CleanText(c.Element.ImageAlt)
	if c.Document != nil && strings.HasPrefix(c.Document.URL, "http") {
		caption = photoCaption(c)
	}

	return &deliver.Photo{
		Meta:        meta,
		Caption:     caption,
		Data:        data,
		ContentType: http.DetectContentType(data),
	}, nil
}
