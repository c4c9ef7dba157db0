package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/fwojciec/deliver"
	"github.com/fwojciec/deliver/dispatch"
)

// Run executes the commands command.
func (c *CommandsCmd) Run(deps *Dependencies) error {
	cmds, err := loadCommands(deps, c.URL, c.Element)
	if err != nil {
		return err
	}

	if len(cmds) == 0 {
		fmt.Fprintf(deps.Stdout, "No commands apply to %s.\n", c.URL)
		return nil
	}

	for i, cmd := range cmds {
		line := fmt.Sprintf("%d. %s  [%s]", i+1, cmd.Label, cmd.Deliverer.Name())
		if dest := cmd.Destination(); dest != "" {
			line += "  -> " + dest
		}
		fmt.Fprintln(deps.Stdout, line)
	}

	return nil
}

// loadCommands loads the page and returns the commands applicable to the
// described element.
func loadCommands(deps *Dependencies, pageURL string, flags ElementFlags) ([]*dispatch.Command, error) {
	ctx := deps.Ctx
	if deps.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, deps.Timeout)
		defer cancel()
	}

	doc, err := deps.Loader.Load(ctx, pageURL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", deliver.ErrorMessage(err))
		return nil, err
	}

	return deps.Service.Commands(doc, flags.Element(), flags.Selection), nil
}

// selectCommand picks a command by 1-based number, label or deliverer name.
// An empty choice selects the first command.
func selectCommand(cmds []*dispatch.Command, choice string) (*dispatch.Command, error) {
	if len(cmds) == 0 {
		return nil, deliver.Errorf(deliver.ENOMATCH, "no commands apply")
	}
	if choice == "" {
		return cmds[0], nil
	}

	if n, err := strconv.Atoi(choice); err == nil {
		if n < 1 || n > len(cmds) {
			return nil, deliver.Errorf(deliver.ENOTFOUND, "command %d out of range (1-%d)", n, len(cmds))
		}
		return cmds[n-1], nil
	}

	for _, cmd := range cmds {
		if strings.EqualFold(cmd.Label, choice) || cmd.Deliverer.Name() == choice {
			return cmd, nil
		}
	}
	return nil, deliver.Errorf(deliver.ENOTFOUND, "command %q not found", choice)
}
