package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/dmitrymomot/lingo/pkg/logger"
	"github.com/dmitrymomot/lingo/pkg/validator"
)

// Service implements the translation use cases on top of a Store.
type Service struct {
	store  Store
	logger *slog.Logger
}

// Option configures Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a Service.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: logger.NewNope()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(slog.String("component", "catalog"))
	return s
}

// List returns page (1-based) of translations matching f.
func (s *Service) List(ctx context.Context, f ListFilter, page int) (Page, error) {
	page = max(page, 1)
	// pages whose offset would overflow are past any real listing
	offset := math.MaxInt
	if page-1 <= math.MaxInt/PerPage {
		offset = (page - 1) * PerPage
	}
	items, total, err := s.store.List(ctx, f, PerPage, offset)
	if err != nil {
		return Page{}, fmt.Errorf("list translations: %w", err)
	}
	if items == nil {
		items = []Translation{}
	}
	return Page{Items: items, Total: total, Page: page, PerPage: PerPage}, nil
}

// Get returns a translation with its tags.
func (s *Service) Get(ctx context.Context, id int64) (Translation, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return Translation{}, fmt.Errorf("get translation %d: %w", id, err)
	}
	return t, nil
}

// Tags returns every known tag.
func (s *Service) Tags(ctx context.Context) ([]Tag, error) {
	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	if tags == nil {
		tags = []Tag{}
	}
	return tags, nil
}

// Create validates in, inserts the translation, and associates its tags in
// one transaction. Validation failures are validator.ValidationErrors.
func (s *Service) Create(ctx context.Context, in CreateInput) (Translation, error) {
	if err := s.validate(ctx, in.rules(), in.Tags); err != nil {
		return Translation{}, err
	}

	var out Translation
	err := s.store.InTx(ctx, func(tx Store) error {
		created, err := tx.Create(ctx, Translation{Locale: in.Locale, Key: in.Key, Content: in.Content})
		if err != nil {
			return err
		}
		if err := reconcileTags(ctx, tx, created.ID, in.Tags); err != nil {
			return err
		}
		out, err = tx.Get(ctx, created.ID)
		return err
	})
	if err != nil {
		return Translation{}, fmt.Errorf("create translation: %w", err)
	}

	s.logger.InfoContext(ctx, "translation created",
		slog.Int64("id", out.ID), slog.String("locale", out.Locale), slog.String("key", out.Key))
	return out, nil
}

// Update applies a partial update. Unknown ids yield ErrNotFound, checked
// before validation so a missing record is never reported as invalid input.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (Translation, error) {
	if _, err := s.store.Get(ctx, id); err != nil {
		return Translation{}, fmt.Errorf("update translation %d: %w", id, err)
	}
	if err := s.validate(ctx, in.rules(), in.Tags); err != nil {
		return Translation{}, err
	}

	var out Translation
	err := s.store.InTx(ctx, func(tx Store) error {
		if fields := in.Fields(); !fields.IsEmpty() {
			if _, err := tx.Update(ctx, id, fields); err != nil {
				return err
			}
		}
		if err := reconcileTags(ctx, tx, id, in.Tags); err != nil {
			return err
		}
		var err error
		out, err = tx.Get(ctx, id)
		return err
	})
	if err != nil {
		return Translation{}, fmt.Errorf("update translation %d: %w", id, err)
	}

	s.logger.InfoContext(ctx, "translation updated", slog.Int64("id", id))
	return out, nil
}

// validate evaluates field rules and checks that every tag name exists.
func (s *Service) validate(ctx context.Context, rules []validator.Rule, tags []string) error {
	if len(tags) > 0 {
		known, err := s.store.TagsByName(ctx, tags)
		if err != nil {
			return fmt.Errorf("resolve tags: %w", err)
		}
		rules = append(rules, validator.InSet("tags", tags, func(name string) bool {
			return slices.ContainsFunc(known, func(t Tag) bool { return t.Name == name })
		}))
	}
	return validator.Apply(rules...)
}

// reconcileTags makes names the exact tag set of the translation.
// nil names is a no-op; an empty non-nil slice clears every association.
func reconcileTags(ctx context.Context, s Store, translationID int64, names []string) error {
	if names == nil {
		return nil
	}

	var ids []int64
	if len(names) > 0 {
		wanted := slices.Compact(slices.Sorted(slices.Values(names)))
		tags, err := s.TagsByName(ctx, wanted)
		if err != nil {
			return err
		}
		for _, name := range wanted {
			if !slices.ContainsFunc(tags, func(t Tag) bool { return t.Name == name }) {
				return fmt.Errorf("%w: %q", ErrUnresolvedTag, name)
			}
		}
		ids = TagIDs(tags)
	}

	return s.SyncTags(ctx, translationID, ids)
}
