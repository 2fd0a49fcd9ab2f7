package ordb

import (
	"context"
	"log/slog"
)

// Options configures package-level behavior that isn't per-subgraph
// state: nid allocation range and an optional logger. Grounded on the
// teacher's functional-options idiom (core.GraphOption, builder.BuilderOption).
type Options struct {
	nidRangeSize uint32
	logger       *slog.Logger
}

// Option mutates an Options during construction.
type Option func(*Options)

// WithNidRangeSize records a nid range size in Options (default 1<<32 - 1,
// the largest uint32). No Updater reads Options, so the value does not
// bound nid allocation: Updater.Insert refuses no insert on account of it.
func WithNidRangeSize(n uint32) Option {
	return func(o *Options) { o.nidRangeSize = n }
}

// WithLogger attaches a structured logger to Options (nil logger is a
// no-op). No code in this module logs through it: neither Updater nor
// cell.Cell reads Options.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.logger = l }
}

// NewOptions applies opts over sensible defaults.
func NewOptions(opts ...Option) *Options {
	o := &Options{nidRangeSize: 1<<32 - 1}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Options) log() *slog.Logger {
	if o == nil || o.logger == nil {
		return slog.New(discardHandler{})
	}
	return o.logger
}

// discardHandler is a slog.Handler that drops every record, used as the
// default no-op logger so call sites don't need a nil check.
type discardHandler struct{}

func (discardHandler) Enabled(_ context.Context, _ slog.Level) bool  { return false }
func (discardHandler) Handle(_ context.Context, _ slog.Record) error { return nil }
func (h discardHandler) WithAttrs(_ []slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(_ string) slog.Handler             { return h }
