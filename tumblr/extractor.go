package tumblr

import (
	"context"
	"errors"
	"maps"
	"sync"
	"time"

	"github.com/fwojciec/deliver"
)

// DefaultExtractTimeout bounds one extraction from load to scan.
const DefaultExtractTimeout = 30 * time.Second

// Ensure Extractor implements deliver.ReblogExtractor at compile time.
var _ deliver.ReblogExtractor = (*Extractor)(nil)

// Extractor loads a post's reblog page on a hidden surface and scrapes the
// repost tokens out of its form. An Extractor runs one extraction; create a
// new one per user action.
//
// Extractor is safe for concurrent use.
type Extractor struct {
	opener    deliver.SurfaceOpener
	delegate  deliver.ExtractorDelegate
	sanitizer deliver.Sanitizer
	baseURL   string
	timeout   time.Duration

	mu       sync.Mutex
	state    deliver.ExtractState
	token    *deliver.ReblogToken
	fields   map[string]string
	err      error
	cancel   context.CancelFunc
	canceled bool
	done     chan struct{}
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithDelegate sets the delegate notified of the terminal outcome.
func WithDelegate(d deliver.ExtractorDelegate) ExtractorOption {
	return func(e *Extractor) {
		e.delegate = d
	}
}

// WithSanitizer sets the sanitizer applied to scraped post fields.
func WithSanitizer(s deliver.Sanitizer) ExtractorOption {
	return func(e *Extractor) {
		e.sanitizer = s
	}
}

// WithExtractorBaseURL overrides the tumblr web root the reblog page is
// loaded from.
func WithExtractorBaseURL(u string) ExtractorOption {
	return func(e *Extractor) {
		e.baseURL = u
	}
}

// WithExtractTimeout sets the extraction timeout. Zero disables it.
func WithExtractTimeout(d time.Duration) ExtractorOption {
	return func(e *Extractor) {
		e.timeout = d
	}
}

// NewExtractor creates an idle Extractor that opens surfaces from opener.
func NewExtractor(opener deliver.SurfaceOpener, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		opener:  opener,
		baseURL: DefaultBaseURL,
		timeout: DefaultExtractTimeout,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewExtractorFunc returns a factory creating one Extractor per call.
func NewExtractorFunc(opener deliver.SurfaceOpener, opts ...ExtractorOption) deliver.ReblogExtractorFunc {
	return func() deliver.ReblogExtractor {
		return NewExtractor(opener, opts...)
	}
}

// Start moves the extractor from Idle to Loading and begins loading the
// reblog page in the background.
func (e *Extractor) Start(ctx context.Context, postID, reblogKey string) error {
	if postID == "" {
		return deliver.Errorf(deliver.EINVALID, "post id required")
	}

	e.mu.Lock()
	if e.state != deliver.ExtractIdle {
		state := e.state
		e.mu.Unlock()
		return deliver.Errorf(deliver.EINVALID, "extractor already %s", state)
	}
	e.state = deliver.ExtractLoading

	var cancel context.CancelFunc
	if e.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	e.cancel = cancel
	e.mu.Unlock()

	go e.run(ctx, Endpoint(e.baseURL, postID, reblogKey))
	return nil
}

func (e *Extractor) run(ctx context.Context, endpoint string) {
	defer e.cancelContext()

	surface, err := e.opener.OpenSurface(ctx)
	if err != nil {
		e.fail(loadError(ctx, err))
		return
	}
	html, err := surface.Load(ctx, endpoint)
	_ = surface.Close()
	if err != nil {
		e.fail(loadError(ctx, err))
		return
	}

	if !e.transition(deliver.ExtractLoading, deliver.ExtractExtracting) {
		return
	}

	fields, err := ScanReblogForm(html, e.sanitizer)
	if err != nil {
		e.fail(err)
		return
	}
	if ctx.Err() != nil {
		e.fail(loadError(ctx, ctx.Err()))
		return
	}

	e.finish(&deliver.ReblogToken{
		PostID:    fields[deliver.FieldPostID],
		ReblogKey: fields[deliver.FieldReblogKey],
		Endpoint:  endpoint,
	}, fields)
}

// loadError classifies a surface failure: cancellation when ctx is done,
// the surface's own code when it has one, transport otherwise.
func loadError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		if deliver.ErrorCode(err) == deliver.ECANCELED {
			return err
		}
		return deliver.WrapError(deliver.ECANCELED, err)
	}
	var coded *deliver.Error
	if errors.As(err, &coded) {
		return err
	}
	return deliver.WrapError(deliver.ETRANSPORT, err)
}

// transition moves from one non-terminal state to another. Returns false if
// the extractor has left from in the meantime.
func (e *Extractor) transition(from, to deliver.ExtractState) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != from {
		return false
	}
	e.state = to
	return true
}

func (e *Extractor) finish(token *deliver.ReblogToken, fields map[string]string) {
	e.mu.Lock()
	if e.state.Terminal() {
		e.mu.Unlock()
		return
	}
	if e.canceled {
		e.mu.Unlock()
		e.fail(deliver.Errorf(deliver.ECANCELED, "extraction canceled"))
		return
	}
	e.state = deliver.Extracted
	e.token = token
	e.fields = fields
	delegate := e.delegate
	e.mu.Unlock()

	if delegate != nil {
		delegate.DidFinishExtract(maps.Clone(fields))
	}
	close(e.done)
}

func (e *Extractor) fail(err error) {
	e.mu.Lock()
	if e.state.Terminal() {
		e.mu.Unlock()
		return
	}
	if e.canceled && deliver.ErrorCode(err) != deliver.ECANCELED {
		err = deliver.WrapError(deliver.ECANCELED, err)
	}
	e.state = deliver.ExtractFailed
	e.err = err
	delegate := e.delegate
	e.mu.Unlock()

	if delegate != nil {
		if deliver.IsException(err) {
			delegate.DidFailExtractWithException(err)
		} else {
			delegate.DidFailExtractWithError(err)
		}
	}
	close(e.done)
}

func (e *Extractor) cancelContext() {
	e.mu.Lock()
	cancel := e.cancel
	e.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Done is closed once the extractor reaches a terminal state.
func (e *Extractor) Done() <-chan struct{} {
	return e.done
}

// Result returns the token and extracted fields, or the failure. Before the
// extractor is terminal it returns an EINVALID error.
func (e *Extractor) Result() (*deliver.ReblogToken, map[string]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.state {
	case deliver.Extracted:
		tok := *e.token
		return &tok, maps.Clone(e.fields), nil
	case deliver.ExtractFailed:
		return nil, nil, e.err
	}
	return nil, nil, deliver.Errorf(deliver.EINVALID, "extraction is %s", e.state)
}

// State returns the current state.
func (e *Extractor) State() deliver.ExtractState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Cancel tears down a non-terminal extraction. An idle extractor fails
// immediately; a running one fails once its surface is released.
func (e *Extractor) Cancel() {
	e.mu.Lock()
	if e.state.Terminal() || e.canceled {
		e.mu.Unlock()
		return
	}
	e.canceled = true
	idle := e.state == deliver.ExtractIdle
	cancel := e.cancel
	e.mu.Unlock()

	if idle {
		e.fail(deliver.Errorf(deliver.ECANCELED, "extraction canceled before start"))
		return
	}
	if cancel != nil {
		cancel()
	}
}
