package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/deliver"
	"github.com/google/uuid"
)

// Service runs delivery pipelines: build the content record, submit it to a
// destination, record the outcome and report it to the caller.
type Service struct {
	Deliverers *Registry
	Adaptors   *Adaptors

	// History records outcomes when set.
	History deliver.DeliveryService

	// Logger defaults to a discarding logger.
	Logger *slog.Logger
}

// Command is an applicable deliverer bound to its extraction context.
type Command struct {
	Label     string
	Deliverer deliver.Deliverer
	Context   *deliver.Context

	svc *Service
}

// Commands returns the invocable commands that apply to el in doc, in
// dispatch order.
func (s *Service) Commands(doc *deliver.Document, el *deliver.Element, selection string) []*Command {
	if s.Deliverers == nil {
		return nil
	}
	cmds := s.Deliverers.Dispatch(doc, el, selection)
	for _, c := range cmds {
		c.svc = s
	}
	return cmds
}

// Destination returns the destination the command prefers, or an empty
// string when any destination applies.
func (c *Command) Destination() string {
	return c.Deliverer.Destination()
}

// Invoke starts the pipeline for destination in the background. cb receives
// exactly one outcome before the returned Pending completes. Canceling ctx
// or the Pending ends an unfinished pipeline with ECANCELED.
func (c *Command) Invoke(ctx context.Context, destination string, opts deliver.PostOptions, cb deliver.Callback) *Pending {
	if c.svc == nil {
		err := deliver.Errorf(deliver.EINVALID, "command %s is not bound to a service", c.Label)
		deliver.Notify(cb, nil, err)
		return failed(err)
	}

	ctx, cancel := context.WithCancel(ctx)
	p := newPending(cancel)
	actionID := uuid.NewString()

	go func() {
		defer cancel()
		resp, err := c.svc.run(ctx, actionID, c, destination, opts)
		deliver.Notify(cb, resp, err)
		p.complete(resp, err)
	}()
	return p
}

// run builds and submits strictly in sequence. A reblog's extraction reaches
// a terminal state inside Build before Submit is called.
func (s *Service) run(ctx context.Context, actionID string, c *Command, destination string, opts deliver.PostOptions) (resp *deliver.Response, err error) {
	logger := s.logger().With(
		"action", actionID,
		"deliverer", c.Deliverer.Name(),
		"destination", destination,
	)
	logger.Debug("pipeline started")

	var content deliver.Content
	defer func(begin time.Time) {
		err = canceled(ctx, err)
		s.record(ctx, logger, actionID, c, destination, content, resp, err)
		logger.Info("pipeline finished",
			"label", c.Label,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())

	if s.Adaptors == nil {
		return nil, deliver.Errorf(deliver.ENOTFOUND, "unknown destination %q", destination)
	}
	adaptor, ok := s.Adaptors.Lookup(destination)
	if !ok {
		return nil, deliver.Errorf(deliver.ENOTFOUND, "unknown destination %q", destination)
	}
	if !adaptor.IsAvailable() {
		return nil, deliver.Errorf(deliver.ECONFIG, "%s is not configured", destination)
	}

	content, err = c.Deliverer.Build(ctx, c.Context)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Submit(ctx, adaptor, content, opts)
}

// canceled reports a failure of a canceled pipeline as ECANCELED.
func canceled(ctx context.Context, err error) error {
	if err == nil || ctx.Err() == nil || deliver.ErrorCode(err) == deliver.ECANCELED {
		return err
	}
	return deliver.WrapError(deliver.ECANCELED, err)
}

func (s *Service) record(ctx context.Context, logger *slog.Logger, actionID string, c *Command, destination string, content deliver.Content, resp *deliver.Response, err error) {
	if s.History == nil {
		return
	}

	d := &deliver.Delivery{
		ActionID:    actionID,
		Destination: destination,
		Kind:        c.Deliverer.Kind(),
		URL:         c.Context.DocumentURL(),
		Title:       c.Context.DocumentTitle(),
	}
	if content != nil {
		meta := content.Metadata()
		if meta.URL != "" {
			d.URL = meta.URL
		}
		if meta.Title != "" {
			d.Title = meta.Title
		}
		if env, eerr := deliver.EncodeContent(content); eerr == nil {
			d.Content = env
		} else {
			logger.Warn("encoding delivered content failed", "err", eerr)
		}
	}
	switch {
	case err == nil:
		d.Status = deliver.DeliveryPosted
		d.StatusCode = resp.StatusCode
		d.PostID = resp.PostID
	case deliver.ErrorCode(err) == deliver.ECANCELED:
		d.Status = deliver.DeliveryCancelled
		d.Message = deliver.ErrorMessage(err)
	default:
		d.Status = deliver.DeliveryFailed
		d.Message = deliver.ErrorMessage(err)
	}

	// Recorded even when the pipeline was canceled.
	if herr := s.History.CreateDelivery(context.WithoutCancel(ctx), d); herr != nil {
		logger.Warn("recording delivery failed", "err", herr)
	}
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.New(slog.DiscardHandler)
}
