package slog

import (
	"log/slog"

	"github.com/fwojciec/deliver"
)

// Ensure ExtractorDelegate implements deliver.ExtractorDelegate.
var _ deliver.ExtractorDelegate = (*ExtractorDelegate)(nil)

// ExtractorDelegate logs terminal extraction outcomes and forwards them to
// next, which may be nil.
type ExtractorDelegate struct {
	next   deliver.ExtractorDelegate
	logger *slog.Logger
}

// NewExtractorDelegate creates a new ExtractorDelegate.
func NewExtractorDelegate(next deliver.ExtractorDelegate, logger *slog.Logger) *ExtractorDelegate {
	return &ExtractorDelegate{next: next, logger: logger}
}

func (d *ExtractorDelegate) DidFinishExtract(contents map[string]string) {
	d.logger.Info("reblog extracted",
		"post", contents[deliver.FieldPostID],
		"fields", len(contents),
	)
	if d.next != nil {
		d.next.DidFinishExtract(contents)
	}
}

func (d *ExtractorDelegate) DidFailExtractWithError(err error) {
	d.logger.Warn("reblog extraction failed", "code", deliver.ErrorCode(err), "err", err)
	if d.next != nil {
		d.next.DidFailExtractWithError(err)
	}
}

func (d *ExtractorDelegate) DidFailExtractWithException(err error) {
	d.logger.Error("reblog page unexpected", "code", deliver.ErrorCode(err), "err", err)
	if d.next != nil {
		d.next.DidFailExtractWithException(err)
	}
}
