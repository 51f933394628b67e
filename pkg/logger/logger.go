package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format selects the output encoding of the stdout handler.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

type options struct {
	output     io.Writer
	sentry     *SentryConfig
	format     Format
	extractors []ContextExtractor
	level      slog.Level
}

// Option configures New.
type Option func(*options)

// WithLevel sets the minimum level written to stdout.
// Default: slog.LevelInfo.
func WithLevel(level slog.Level) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithOutput redirects stdout logging to w.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// WithFormat sets the stdout encoding. Unknown values fall back to JSON.
func WithFormat(f Format) Option {
	return func(o *options) {
		o.format = f
	}
}

// WithExtractors adds context extractors applied to every record.
func WithExtractors(extractors ...ContextExtractor) Option {
	return func(o *options) {
		o.extractors = append(o.extractors, extractors...)
	}
}

// WithSentry enables Sentry fan-out. An empty DSN keeps stdout-only logging.
func WithSentry(cfg SentryConfig) Option {
	return func(o *options) {
		o.sentry = &cfg
	}
}

// New creates a logger configured by opts.
func New(opts ...Option) *slog.Logger {
	o := &options{
		output: os.Stdout,
		format: FormatJSON,
		level:  slog.LevelInfo,
	}
	for _, opt := range opts {
		opt(o)
	}

	handlerOpts := &slog.HandlerOptions{Level: o.level}

	var stdout slog.Handler
	if o.format == FormatText {
		stdout = slog.NewTextHandler(o.output, handlerOpts)
	} else {
		stdout = slog.NewJSONHandler(o.output, handlerOpts)
	}

	handler := stdout
	if o.sentry != nil && o.sentry.DSN != "" {
		sh, err := newSentryHandler(*o.sentry)
		if err != nil {
			slog.New(stdout).Error("failed to initialize sentry", slog.String("error", err.Error()))
		} else {
			handler = newFanout(stdout, sh)
		}
	}

	return slog.New(NewContextHandler(handler, o.extractors...))
}

// NewNope creates a logger that discards all output.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel converts a level name (debug, info, warn, error) to slog.Level.
// Unknown names resolve to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
