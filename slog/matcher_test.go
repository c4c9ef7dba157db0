package slog_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fwojciec/deliver"
	"github.com/fwojciec/deliver/mock"
	deliverslog "github.com/fwojciec/deliver/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingMatcher(t *testing.T) {
	t.Parallel()

	t.Run("logs extracted context at debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.Matcher{
			NameFn:  func() string { return "greader" },
			MatchFn: func(doc *deliver.Document, el *deliver.Element) bool { return true },
			ExtractFn: func(doc *deliver.Document, el *deliver.Element) (*deliver.Context, error) {
				return &deliver.Context{Title: "Entry", URL: "http://example.com/entry", SourceLabel: "Feed"}, nil
			},
		}

		m := deliverslog.NewLoggingMatcher(inner, logger)
		c, err := m.Extract(&deliver.Document{}, &deliver.Element{})

		require.NoError(t, err)
		assert.Equal(t, "Entry", c.Title)
		assert.Equal(t, "greader", m.Name())
		assert.True(t, m.Match(&deliver.Document{}, &deliver.Element{}))
		output := buf.String()
		assert.Contains(t, output, `msg="context extraction"`)
		assert.Contains(t, output, "matcher=greader")
		assert.Contains(t, output, "title=Entry")
		assert.Contains(t, output, "source=Feed")
	})

	t.Run("silent above debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Matcher{
			NameFn: func() string { return "ldr" },
			ExtractFn: func(doc *deliver.Document, el *deliver.Element) (*deliver.Context, error) {
				return nil, deliver.Errorf(deliver.ENOMATCH, "no entry")
			},
		}

		_, err := deliverslog.NewLoggingMatcher(inner, logger).Extract(&deliver.Document{}, &deliver.Element{})

		assert.Equal(t, deliver.ENOMATCH, deliver.ErrorCode(err))
		assert.Empty(t, buf.String())
	})
}
