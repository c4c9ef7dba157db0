package dispatch

import (
	"context"

	"github.com/fwojciec/deliver"
)

// Pending is the in-flight result of an invoked command. It completes
// exactly once with either a response or an error.
type Pending struct {
	cancel context.CancelFunc
	done   chan struct{}
	resp   *deliver.Response
	err    error
}

func newPending(cancel context.CancelFunc) *Pending {
	return &Pending{cancel: cancel, done: make(chan struct{})}
}

// failed returns a Pending that has already completed with err.
func failed(err error) *Pending {
	p := newPending(func() {})
	p.complete(nil, err)
	return p
}

func (p *Pending) complete(resp *deliver.Response, err error) {
	p.resp, p.err = resp, err
	close(p.done)
}

// Done is closed once the pipeline has finished and the callback returned.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the pipeline finishes or ctx is done. Returning early on
// ctx does not cancel the pipeline.
func (p *Pending) Wait(ctx context.Context) (*deliver.Response, error) {
	select {
	case <-p.done:
		return p.resp, p.err
	case <-ctx.Done():
		return nil, deliver.WrapError(deliver.ECANCELED, ctx.Err())
	}
}

// Cancel cancels the pipeline. A pipeline that has not finished ends with
// ECANCELED.
func (p *Pending) Cancel() {
	p.cancel()
}
