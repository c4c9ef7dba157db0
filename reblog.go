package deliver

import (
	"context"
	"strings"
)

// Canonical keys of the extracted reblog fields.
const (
	FieldPostID    = "postID"
	FieldReblogKey = "reblogKey"
)

// ReblogToken identifies a post and authorizes its repost.
type ReblogToken struct {
	PostID    string
	ReblogKey string
	Endpoint  string
}

// ExtractState is the state of a reblog extraction.
type ExtractState int

// Extraction states. Extracted and ExtractFailed are terminal.
const (
	ExtractIdle ExtractState = iota
	ExtractLoading
	ExtractExtracting
	Extracted
	ExtractFailed
)

func (s ExtractState) String() string {
	switch s {
	case ExtractIdle:
		return "idle"
	case ExtractLoading:
		return "loading"
	case ExtractExtracting:
		return "extracting"
	case Extracted:
		return "extracted"
	case ExtractFailed:
		return "failed"
	}
	return "unknown"
}

// Terminal reports whether the state is final.
func (s ExtractState) Terminal() bool {
	return s == Extracted || s == ExtractFailed
}

// Surface is a hidden page-loading surface owned by exactly one extraction.
type Surface interface {
	// Load loads url and returns the document source once loading completes.
	Load(ctx context.Context, url string) (html string, err error)

	// Close releases the surface. Safe to call more than once.
	Close() error
}

// SurfaceOpener creates hidden surfaces.
type SurfaceOpener interface {
	OpenSurface(ctx context.Context) (Surface, error)
}

// ReblogExtractor fetches the repost tokens of a post. An extractor runs
// exactly one extraction.
type ReblogExtractor interface {
	// Start begins loading the reblog page for postID. reblogKey may be empty
	// when the page is expected to expose it. Returns EINVALID if the
	// extractor was already started.
	Start(ctx context.Context, postID, reblogKey string) error

	// Done is closed once the extractor reaches a terminal state.
	Done() <-chan struct{}

	// Result returns the extracted token and fields once Done is closed.
	Result() (*ReblogToken, map[string]string, error)

	State() ExtractState

	// Cancel tears the extraction down. A non-terminal extraction ends in
	// ExtractFailed with ECANCELED.
	Cancel()
}

// ExtractorDelegate observes terminal extraction outcomes. Exactly one method
// is called per extraction.
type ExtractorDelegate interface {
	DidFinishExtract(contents map[string]string)

	// DidFailExtractWithError reports load-level failures (transport,
	// cancellation).
	DidFailExtractWithError(err error)

	// DidFailExtractWithException reports documents that loaded but did not
	// have the expected shape.
	DidFailExtractWithException(err error)
}

// Reblog form fields carrying the original post content.
const (
	reblogFieldType     = "post[type]"
	reblogFieldOne      = "post[one]"
	reblogFieldTwo      = "post[two]"
	reblogFieldThree    = "post[three]"
	reblogFieldPhotoSrc = "photo_src"
)

// ExpandReblog maps the extracted form fields of a reblog back to the content
// they describe. Returns EPARSE when the fields do not name a supported post
// type.
func ExpandReblog(r *Reblog) (Content, error) {
	if r == nil {
		return nil, Errorf(EINVALID, "reblog required")
	}
	f := r.Fields
	meta := r.Meta

	switch strings.TrimSpace(f[reblogFieldType]) {
	case "regular":
		text := f[reblogFieldTwo]
		if text == "" {
			return &Link{Meta: meta, Description: f[reblogFieldOne]}, nil
		}
		return &Quote{Meta: meta, Text: text, Source: f[reblogFieldOne]}, nil
	case "photo":
		src := f[reblogFieldPhotoSrc]
		if src == "" {
			return nil, Errorf(EPARSE, "photo reblog %s has no image source", r.PostID)
		}
		return &Photo{
			Meta:       meta,
			ImageURL:   src,
			Caption:    f[reblogFieldTwo],
			ThroughURL: f[reblogFieldThree],
		}, nil
	case "quote":
		return &Quote{Meta: meta, Text: f[reblogFieldOne], Source: f[reblogFieldTwo]}, nil
	case "link":
		link := &Link{Meta: meta, Description: f[reblogFieldThree]}
		if name := f[reblogFieldOne]; name != "" {
			link.Title = name
		}
		if u := f[reblogFieldTwo]; u != "" {
			link.URL = u
		}
		return link, nil
	case "video":
		return &Video{Meta: meta, Embed: f[reblogFieldOne], Caption: f[reblogFieldTwo]}, nil
	case "":
		return nil, Errorf(EPARSE, "reblog %s has no post type", r.PostID)
	default:
		return nil, Errorf(EPARSE, "unsupported reblog post type %q", f[reblogFieldType])
	}
}

// ReblogAsContent expands a reblog for destinations that cannot repost.
// Reblogs that cannot be expanded become a link to the original post.
func ReblogAsContent(r *Reblog) Content {
	if c, err := ExpandReblog(r); err == nil {
		return c
	}
	return &Link{Meta: r.Meta}
}

// ReblogExtractorFunc creates a fresh extractor for one user action.
type ReblogExtractorFunc func() ReblogExtractor
