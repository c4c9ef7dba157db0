package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/deliver"
	"github.com/fwojciec/deliver/dispatch"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Timeout time.Duration

	Loader  deliver.DocumentLoader
	Service *dispatch.Service
	History deliver.DeliveryService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Timeout  time.Duration `short:"t" default:"10s" help:"Timeout for page loads, reblog extraction and each submission"`
	Verbose  bool          `short:"v" help:"Log debug output, including context extraction"`
	DB       string        `env:"DELIVER_DB" help:"Path of the delivery history database"`
	Surface  string        `enum:"http,rod" default:"http" help:"How pages are loaded: raw HTTP or headless Chrome (http, rod)"`
	Metadata string        `enum:"trafilatura,readability,none" default:"trafilatura" help:"Page metadata extractor (trafilatura, readability, none)"`

	Tumblr     TumblrConfig     `embed:"" prefix:"tumblr-"`
	Delicious  DeliciousConfig  `embed:"" prefix:"delicious-"`
	Instapaper InstapaperConfig `embed:"" prefix:"instapaper-"`
	Yammer     YammerConfig     `embed:"" prefix:"yammer-"`
	Generic    GenericConfig    `embed:"" prefix:"generic-"`

	Commands     CommandsCmd     `cmd:"" help:"List the commands that apply to a page or element"`
	Post         PostCmd         `cmd:"" help:"Build content from a page and post it to one or more destinations"`
	Destinations DestinationsCmd `cmd:"" help:"List destinations and whether they are configured"`
	History      HistoryCmd      `cmd:"" help:"Show recorded deliveries"`
}

// TumblrConfig holds tumblr credentials.
type TumblrConfig struct {
	Email    string `env:"DELIVER_TUMBLR_EMAIL" help:"Tumblr account email"`
	Password string `env:"DELIVER_TUMBLR_PASSWORD" help:"Tumblr account password"`
}

// DeliciousConfig holds delicious credentials.
type DeliciousConfig struct {
	User     string `env:"DELIVER_DELICIOUS_USER" help:"Delicious user name"`
	Password string `env:"DELIVER_DELICIOUS_PASSWORD" help:"Delicious password"`
}

// InstapaperConfig holds instapaper credentials.
type InstapaperConfig struct {
	User     string `env:"DELIVER_INSTAPAPER_USER" help:"Instapaper user name or email"`
	Password string `env:"DELIVER_INSTAPAPER_PASSWORD" help:"Instapaper password, if the account has one"`
}

// YammerConfig holds yammer credentials.
type YammerConfig struct {
	Token string `env:"DELIVER_YAMMER_TOKEN" help:"Yammer OAuth token"`
	Group string `env:"DELIVER_YAMMER_GROUP" help:"Yammer group ID to post to"`
}

// GenericConfig configures the web hook destination.
type GenericConfig struct {
	Endpoint string `env:"DELIVER_GENERIC_ENDPOINT" help:"Web hook URL"`
	Token    string `env:"DELIVER_GENERIC_TOKEN" help:"Bearer token sent to the web hook"`
}

// ElementFlags describe the element the action was invoked on. With no
// flags the action applies to the page itself.
type ElementFlags struct {
	Selector  string `help:"CSS selector of the element"`
	Frame     string `help:"URL of the frame that owns the element"`
	Link      string `help:"Target of the link under the pointer"`
	LinkTitle string `help:"Text of the link under the pointer"`
	Image     string `help:"Source of the image under the pointer"`
	ImageAlt  string `help:"Alt text of the image under the pointer"`
	Selection string `short:"s" help:"Selected text"`
}

// Element returns the described element, or nil for the page itself.
func (f ElementFlags) Element() *deliver.Element {
	el := &deliver.Element{
		Selector:  f.Selector,
		FrameURL:  f.Frame,
		LinkURL:   f.Link,
		LinkTitle: f.LinkTitle,
		ImageURL:  f.Image,
		ImageAlt:  f.ImageAlt,
	}
	if *el == (deliver.Element{}) {
		return nil
	}
	return el
}

// CommandsCmd is the "commands" subcommand.
type CommandsCmd struct {
	URL     string       `arg:"" help:"Page URL"`
	Element ElementFlags `embed:""`
}

// PostCmd is the "post" subcommand.
type PostCmd struct {
	URL     string            `arg:"" help:"Page URL"`
	Command string            `short:"c" help:"Command to run: its number from 'deliver commands', its label, or its deliverer name (defaults to the first)"`
	To      []string          `help:"Destination (repeatable); defaults to the command's preferred destination"`
	Private bool              `help:"Post privately"`
	Queue   bool              `help:"Queue the post instead of publishing it"`
	Expand  bool              `help:"Post a reblog as the content it wraps"`
	Extra   map[string]string `help:"Destination-specific parameter (KEY=VALUE, repeatable), e.g. tags, comment, group_id"`
	Element ElementFlags      `embed:""`
}

// DestinationsCmd is the "destinations" subcommand.
type DestinationsCmd struct{}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Destination string `short:"d" help:"Only show deliveries to this destination"`
	Action      string `help:"Only show deliveries of this action ID"`
	Limit       int    `short:"n" default:"20" help:"Maximum number of deliveries to show"`
	Content     bool   `short:"c" help:"Show the submitted content of each delivery"`
}
