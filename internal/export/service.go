package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/lingo/internal/catalog"
	"github.com/dmitrymomot/lingo/pkg/conditional"
	"github.com/dmitrymomot/lingo/pkg/logger"
	"github.com/dmitrymomot/lingo/pkg/validator"
)

// Request describes one conditional export.
type Request struct {
	// Identity is the canonical request identity hashed into the ETag,
	// normally the full request URL including the query string.
	Identity        string
	IfNoneMatch     string
	IfModifiedSince string
	Filter          catalog.ExportFilter
}

// Result is the outcome of Export. Body is nil when NotModified is set.
type Result struct {
	Body        map[string]string
	Validator   conditional.Validator
	NotModified bool
}

// Service answers export requests.
type Service struct {
	reader   catalog.ExportReader
	now      func() time.Time
	logger   *slog.Logger
	policy   conditional.CachePolicy
	snapshot bool
}

// Option configures Service.
type Option func(*Service)

// WithSnapshot runs both reads in one consistent snapshot when the reader
// implements catalog.Snapshotter. Ignored otherwise.
func WithSnapshot(enabled bool) Option {
	return func(s *Service) { s.snapshot = enabled }
}

// WithClock sets the time source used for an empty view.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithPolicy sets the Cache-Control policy.
func WithPolicy(p conditional.CachePolicy) Option {
	return func(s *Service) { s.policy = p }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates an export Service over reader.
func NewService(reader catalog.ExportReader, opts ...Option) *Service {
	s := &Service{
		reader: reader,
		now:    time.Now,
		logger: logger.NewNope(),
		policy: conditional.DefaultPolicy,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(slog.String("component", "export"))
	return s
}

// Policy returns the Cache-Control policy attached to every export response.
func (s *Service) Policy() conditional.CachePolicy {
	return s.policy
}

// Export validates req, computes the view's validators, and projects the
// view unless the client's copy is still fresh.
func (s *Service) Export(ctx context.Context, req Request) (Result, error) {
	if err := validator.Apply(
		validator.RequiredString("locale", req.Filter.Locale),
		validator.MaxLenString("locale", req.Filter.Locale, catalog.MaxLocaleLength),
	); err != nil {
		return Result{}, err
	}

	var (
		res Result
		err error
	)
	if sn, ok := s.reader.(catalog.Snapshotter); ok && s.snapshot {
		err = sn.Snapshot(ctx, func(r catalog.ExportReader) error {
			res, err = s.export(ctx, r, req)
			return err
		})
	} else {
		res, err = s.export(ctx, s.reader, req)
	}
	if err != nil {
		return Result{}, fmt.Errorf("export %s: %w", req.Filter.Locale, err)
	}
	return res, nil
}

func (s *Service) export(ctx context.Context, r catalog.ExportReader, req Request) (Result, error) {
	lastModified, ok, err := r.LastModified(ctx, req.Filter)
	if err != nil {
		return Result{}, err
	}
	if !ok {
		lastModified = s.now()
	}

	v := conditional.Validator{
		LastModified: lastModified,
		ETag:         conditional.ETag(req.Identity, lastModified),
	}
	if v.NotModified(req.IfNoneMatch, req.IfModifiedSince) {
		s.logger.DebugContext(ctx, "export not modified",
			slog.String("locale", req.Filter.Locale), slog.String("etag", v.ETag))
		return Result{Validator: v, NotModified: true}, nil
	}

	body, err := r.Project(ctx, req.Filter)
	if err != nil {
		return Result{}, err
	}
	if body == nil {
		body = map[string]string{}
	}
	return Result{Validator: v, Body: body}, nil
}
