package mock

import (
	"context"

	"github.com/fwojciec/deliver"
)

var (
	_ deliver.Matcher        = (*Matcher)(nil)
	_ deliver.Deliverer      = (*Deliverer)(nil)
	_ deliver.DocumentLoader = (*DocumentLoader)(nil)
)

// Matcher is a mock implementation of deliver.Matcher.
type Matcher struct {
	NameFn    func() string
	MatchFn   func(doc *deliver.Document, el *deliver.Element) bool
	ExtractFn func(doc *deliver.Document, el *deliver.Element) (*deliver.Context, error)
}

func (m *Matcher) Name() string {
	return m.NameFn()
}

func (m *Matcher) Match(doc *deliver.Document, el *deliver.Element) bool {
	return m.MatchFn(doc, el)
}

func (m *Matcher) Extract(doc *deliver.Document, el *deliver.Element) (*deliver.Context, error) {
	return m.ExtractFn(doc, el)
}

// Deliverer is a mock implementation of deliver.Deliverer.
type Deliverer struct {
	NameFn        func() string
	KindFn        func() deliver.Kind
	DestinationFn func() string
	MatchFn       func(doc *deliver.Document, el *deliver.Element) bool
	NewContextFn  func(doc *deliver.Document, el *deliver.Element) (*deliver.Context, error)
	BuildFn       func(ctx context.Context, c *deliver.Context) (deliver.Content, error)
	LabelFn       func(c *deliver.Context) string
}

func (d *Deliverer) Name() string {
	return d.NameFn()
}

func (d *Deliverer) Kind() deliver.Kind {
	return d.KindFn()
}

func (d *Deliverer) Destination() string {
	return d.DestinationFn()
}

func (d *Deliverer) Match(doc *deliver.Document, el *deliver.Element) bool {
	return d.MatchFn(doc, el)
}

func (d *Deliverer) NewContext(doc *deliver.Document, el *deliver.Element) (*deliver.Context, error) {
	return d.NewContextFn(doc, el)
}

func (d *Deliverer) Build(ctx context.Context, c *deliver.Context) (deliver.Content, error) {
	return d.BuildFn(ctx, c)
}

func (d *Deliverer) Label(c *deliver.Context) string {
	return d.LabelFn(c)
}

// DocumentLoader is a mock implementation of deliver.DocumentLoader.
type DocumentLoader struct {
	LoadFn func(ctx context.Context, url string) (*deliver.Document, error)
}

func (l *DocumentLoader) Load(ctx context.Context, url string) (*deliver.Document, error) {
	return l.LoadFn(ctx, url)
}
