package lang

import (
	"github.com/ardnew/raindoc/log"
	"github.com/ardnew/raindoc/meta"
)

// DefaultMaxImportDepth bounds nested document imports.
const DefaultMaxImportDepth = 32

// options holds configuration shared by a document and its nested imports.
type options struct {
	parser         ExpressionParser
	hashQuery      meta.HashQuery
	maxImportDepth int
}

// Option configures a [Document].
type Option func(*Document)

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(d *Document) {
		d.logger = logger
	}
}

// WithParser sets the expression parser applied to the bindings of a
// top-level document. The default is [WordChecker].
func WithParser(parser ExpressionParser) Option {
	return func(d *Document) {
		d.opts.parser = parser
	}
}

// WithHashQuery sets the query that extracts the authoring-meta hash from
// deployer bytecode. The default is [meta.ScanAuthoringHash].
func WithHashQuery(query meta.HashQuery) Option {
	return func(d *Document) {
		d.opts.hashQuery = query
	}
}

// WithMaxImportDepth sets the nesting bound of document imports.
func WithMaxImportDepth(depth int) Option {
	return func(d *Document) {
		d.opts.maxImportDepth = depth
	}
}

// applyDefaults sets default option values on a document.
func applyDefaults(d *Document) {
	d.opts = options{
		parser:         WordChecker{},
		hashQuery:      meta.ScanAuthoringHash,
		maxImportDepth: DefaultMaxImportDepth,
	}
}

// applyOptions applies functional options to a document.
func applyOptions(d *Document, opts ...Option) {
	for _, opt := range opts {
		opt(d)
	}
}
