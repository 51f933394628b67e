package catalog

import (
	"context"
	"time"
)

// ExportReader is the read side of the export endpoint.
type ExportReader interface {
	// LastModified returns max(updated_at) over the filtered view.
	// ok is false when the view is empty.
	LastModified(ctx context.Context, f ExportFilter) (t time.Time, ok bool, err error)

	// Project returns key -> content over the filtered view. Rows are
	// visited in id order so the highest id wins on duplicate keys. An empty
	// view yields an empty, non-nil map.
	Project(ctx context.Context, f ExportFilter) (map[string]string, error)
}

// Snapshotter runs fn against a consistent read snapshot.
type Snapshotter interface {
	Snapshot(ctx context.Context, fn func(ExportReader) error) error
}

// Store persists translations and tags.
type Store interface {
	ExportReader

	// List returns one page of translations ordered by id, plus the total count.
	List(ctx context.Context, f ListFilter, limit, offset int) ([]Translation, int64, error)

	// Get returns a translation with its tags, or ErrNotFound.
	Get(ctx context.Context, id int64) (Translation, error)

	// Create inserts t and returns it with id and timestamps set.
	Create(ctx context.Context, t Translation) (Translation, error)

	// Update applies the non-nil fields of in, bumps updated_at, and returns
	// the stored row, or ErrNotFound.
	Update(ctx context.Context, id int64, in UpdateFields) (Translation, error)

	// TagsByName returns the tags whose names are in names. Unknown names are skipped.
	TagsByName(ctx context.Context, names []string) ([]Tag, error)

	// ListTags returns every tag ordered by name.
	ListTags(ctx context.Context) ([]Tag, error)

	// SyncTags makes tagIDs the exact association set of the translation.
	SyncTags(ctx context.Context, translationID int64, tagIDs []int64) error

	// InTx runs fn with a Store bound to one transaction. Nested calls reuse
	// the outer transaction.
	InTx(ctx context.Context, fn func(Store) error) error
}

// UpdateFields carries the columns to change; nil means unchanged.
type UpdateFields struct {
	Locale  *string
	Key     *string
	Content *string
}

// IsEmpty reports whether no column changes.
func (u UpdateFields) IsEmpty() bool {
	return u.Locale == nil && u.Key == nil && u.Content == nil
}
