package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fwojciec/deliver"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	filter := deliver.DeliveryFilter{Limit: c.Limit}
	if c.Destination != "" {
		filter.Destination = &c.Destination
	}
	if c.Action != "" {
		filter.ActionID = &c.Action
	}

	deliveries, err := deps.History.FindDeliveries(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", deliver.ErrorMessage(err))
		return err
	}

	if len(deliveries) == 0 {
		fmt.Fprintln(deps.Stdout, "No deliveries recorded. Use 'deliver post' to send one.")
		return nil
	}

	for _, d := range deliveries {
		title := d.Title
		if title == "" {
			title = d.URL
		}
		fmt.Fprintf(deps.Stdout, "%s  %-10s %-9s %-6s %s\n",
			d.CreatedAt.Local().Format(time.DateTime), d.Destination, d.Status, d.Kind, title)
		if d.Message != "" {
			fmt.Fprintf(deps.Stdout, "    %s\n", d.Message)
		}
		if c.Content && len(d.Content) > 0 {
			printContent(deps.Stdout, d.Content)
		}
	}

	return nil
}

// printContent writes the fields of a recorded content envelope, one per
// line.
func printContent(w io.Writer, envelope []byte) {
	content, err := deliver.DecodeContent(envelope)
	if err != nil {
		fmt.Fprintf(w, "    content: %s\n", deliver.ErrorMessage(err))
		return
	}

	field := func(name, value string) {
		if value != "" {
			fmt.Fprintf(w, "    %s: %s\n", name, value)
		}
	}
	switch c := content.(type) {
	case *deliver.Link:
		field("description", c.Description)
	case *deliver.Quote:
		field("quote", c.Text)
		field("source", c.Source)
	case *deliver.Photo:
		field("image", c.ImageURL)
		if len(c.Data) > 0 {
			field("image", fmt.Sprintf("%d bytes of %s", len(c.Data), c.ContentType))
		}
		field("caption", c.Caption)
		field("through", c.ThroughURL)
	case *deliver.Video:
		field("embed", c.Embed)
		field("caption", c.Caption)
	case *deliver.Reblog:
		token := c.Token()
		field("reblog", fmt.Sprintf("post %s key %s", token.PostID, token.ReblogKey))
		field("endpoint", token.Endpoint)
	}
}
