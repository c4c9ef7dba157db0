package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fwojciec/deliver"
	"golang.org/x/sync/errgroup"
)

// Run executes the post command. Each destination runs as an independent
// pipeline; a failure on one does not cancel the others.
func (c *PostCmd) Run(deps *Dependencies) error {
	cmds, err := loadCommands(deps, c.URL, c.Element)
	if err != nil {
		return err
	}

	cmd, err := selectCommand(cmds, c.Command)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", deliver.ErrorMessage(err))
		return err
	}

	destinations := c.To
	if len(destinations) == 0 {
		if dest := cmd.Destination(); dest != "" {
			destinations = []string{dest}
		}
	}
	if len(destinations) == 0 {
		err := deliver.Errorf(deliver.EINVALID, "no destination for %q. Use --to to choose one", cmd.Label)
		fmt.Fprintf(deps.Stderr, "error: %s\n", deliver.ErrorMessage(err))
		return err
	}

	opts := deliver.PostOptions{
		Private: c.Private,
		Queue:   c.Queue,
		Expand:  c.Expand,
		Extra:   c.Extra,
	}

	out := &printer{w: deps.Stdout}
	var g errgroup.Group
	for _, dest := range destinations {
		g.Go(func() error {
			ctx := deps.Ctx
			if deps.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, deps.Timeout)
				defer cancel()
			}

			p := cmd.Invoke(ctx, dest, opts, out.callback(dest, cmd.Label))
			_, err := p.Wait(deps.Ctx)
			return err
		})
	}

	return g.Wait()
}

// printer serializes pipeline outcomes written from concurrent pipelines.
type printer struct {
	mu sync.Mutex
	w  io.Writer
}

func (p *printer) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format, args...)
}

func (p *printer) callback(dest, label string) deliver.Callback {
	return deliver.CallbackFuncs{
		Success: func(resp *deliver.Response) {
			if resp.PostID != "" {
				p.printf("%s: posted %s (status %d, post %s)\n", dest, label, resp.StatusCode, resp.PostID)
				return
			}
			p.printf("%s: posted %s (status %d)\n", dest, label, resp.StatusCode)
		},
		Error: func(err error) {
			p.printf("%s: %s failed: %s\n", dest, label, deliver.ErrorMessage(err))
		},
		Exception: func(err error) {
			p.printf("%s: %s failed unexpectedly (%s): %s\n", dest, label, deliver.ErrorCode(err), deliver.ErrorMessage(err))
		},
	}
}
