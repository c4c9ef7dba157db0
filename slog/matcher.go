package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/deliver"
)

// Ensure LoggingMatcher implements deliver.Matcher.
var _ deliver.Matcher = (*LoggingMatcher)(nil)

// LoggingMatcher wraps a Matcher with debug logging of context extraction.
type LoggingMatcher struct {
	next   deliver.Matcher
	logger *slog.Logger
}

// NewLoggingMatcher creates a new LoggingMatcher.
func NewLoggingMatcher(next deliver.Matcher, logger *slog.Logger) *LoggingMatcher {
	return &LoggingMatcher{next: next, logger: logger}
}

// Name delegates to the wrapped matcher.
func (m *LoggingMatcher) Name() string {
	return m.next.Name()
}

// Match delegates to the wrapped matcher.
func (m *LoggingMatcher) Match(doc *deliver.Document, el *deliver.Element) bool {
	return m.next.Match(doc, el)
}

// Extract delegates to the wrapped matcher and logs the extracted context.
func (m *LoggingMatcher) Extract(doc *deliver.Document, el *deliver.Element) (c *deliver.Context, err error) {
	defer func(begin time.Time) {
		args := []any{
			"matcher", m.next.Name(),
			"duration", time.Since(begin),
		}
		if c != nil {
			args = append(args, "title", c.DocumentTitle(), "url", c.DocumentURL(), "source", c.SourceLabel)
		}
		if err != nil {
			args = append(args, "err", err)
		}
		m.logger.Debug("context extraction", args...)
	}(time.Now())
	return m.next.Extract(doc, el)
}
