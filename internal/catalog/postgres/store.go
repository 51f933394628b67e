package postgres

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/lingo/internal/catalog"
	"github.com/dmitrymomot/lingo/pkg/db"
)

// Store is a catalog.Store backed by PostgreSQL.
type Store struct {
	q     db.Querier
	begin db.TxBeginner // nil inside a transaction
}

var (
	_ catalog.Store       = (*Store)(nil)
	_ catalog.Snapshotter = (*Store)(nil)
)

// New creates a Store on pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{q: pool, begin: pool}
}

func (s *Store) InTx(ctx context.Context, fn func(catalog.Store) error) error {
	if s.begin == nil {
		return fn(s)
	}
	return db.WithTx(ctx, s.begin, func(tx pgx.Tx) error {
		return fn(&Store{q: tx})
	})
}

// Snapshot runs fn in a read-only REPEATABLE READ transaction.
func (s *Store) Snapshot(ctx context.Context, fn func(catalog.ExportReader) error) error {
	if s.begin == nil {
		return fn(s)
	}
	return db.WithSnapshot(ctx, s.begin, func(tx pgx.Tx) error {
		return fn(&Store{q: tx})
	})
}

func (s *Store) LastModified(ctx context.Context, f catalog.ExportFilter) (time.Time, bool, error) {
	query, args, err := lastModifiedQuery(f).ToSql()
	if err != nil {
		return time.Time{}, false, err
	}
	var last *time.Time
	if err := s.q.QueryRow(ctx, query, args...).Scan(&last); err != nil {
		return time.Time{}, false, fmt.Errorf("last modified: %w", err)
	}
	if last == nil {
		return time.Time{}, false, nil
	}
	return *last, true, nil
}

func (s *Store) Project(ctx context.Context, f catalog.ExportFilter) (map[string]string, error) {
	query, args, err := projectQuery(f).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}

	out := make(map[string]string)
	var key, content string
	if _, err := pgx.ForEachRow(rows, []any{&key, &content}, func() error {
		out[key] = content
		return nil
	}); err != nil {
		return nil, fmt.Errorf("project: %w", err)
	}
	return out, nil
}

func (s *Store) List(ctx context.Context, f catalog.ListFilter, limit, offset int) ([]catalog.Translation, int64, error) {
	query, args, err := countQuery(f).ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := s.q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count translations: %w", err)
	}
	if total == 0 || int64(offset) >= total {
		return []catalog.Translation{}, total, nil
	}

	query, args, err = listQuery(f, limit, offset).ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list translations: %w", err)
	}
	items, err := pgx.CollectRows(rows, scanTranslation)
	if err != nil {
		return nil, 0, fmt.Errorf("list translations: %w", err)
	}
	return items, total, nil
}

func (s *Store) Get(ctx context.Context, id int64) (catalog.Translation, error) {
	query, args, err := psql.Select(translationColumns...).From("translations t").Where(sq.Eq{"t.id": id}).ToSql()
	if err != nil {
		return catalog.Translation{}, err
	}
	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return catalog.Translation{}, err
	}
	t, err := pgx.CollectExactlyOneRow(rows, scanTranslation)
	if err != nil {
		return catalog.Translation{}, notFound(err)
	}

	query, args, err = psql.Select("g.id", "g.name").
		From("tags g").
		Join("translation_tag tt ON tt.tag_id = g.id").
		Where(sq.Eq{"tt.translation_id": id}).
		OrderBy("g.id").
		ToSql()
	if err != nil {
		return catalog.Translation{}, err
	}
	rows, err = s.q.Query(ctx, query, args...)
	if err != nil {
		return catalog.Translation{}, err
	}
	if t.Tags, err = pgx.CollectRows(rows, scanTag); err != nil {
		return catalog.Translation{}, err
	}
	return t, nil
}

func (s *Store) Create(ctx context.Context, t catalog.Translation) (catalog.Translation, error) {
	query, args, err := psql.Insert("translations").
		Columns("locale", "key", "content").
		Values(t.Locale, t.Key, t.Content).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return catalog.Translation{}, err
	}
	if err := s.q.QueryRow(ctx, query, args...).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return catalog.Translation{}, fmt.Errorf("insert translation: %w", err)
	}
	t.Tags = nil
	return t, nil
}

// Update only bumps updated_at when a column actually changes.
func (s *Store) Update(ctx context.Context, id int64, in catalog.UpdateFields) (catalog.Translation, error) {
	if in.IsEmpty() {
		return s.Get(ctx, id)
	}
	query, args, err := updateQuery(id, in).ToSql()
	if err != nil {
		return catalog.Translation{}, err
	}
	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return catalog.Translation{}, fmt.Errorf("update translation: %w", err)
	}
	t, err := pgx.CollectExactlyOneRow(rows, scanTranslation)
	if errors.Is(err, pgx.ErrNoRows) {
		// unchanged or missing
		return s.Get(ctx, id)
	}
	if err != nil {
		return catalog.Translation{}, fmt.Errorf("update translation: %w", err)
	}
	return t, nil
}

func (s *Store) TagsByName(ctx context.Context, names []string) ([]catalog.Tag, error) {
	if len(names) == 0 {
		return []catalog.Tag{}, nil
	}
	query, args, err := psql.Select("id", "name").From("tags").
		Where(sq.Expr("name = ANY(?)", names)).OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("tags by name: %w", err)
	}
	return pgx.CollectRows(rows, scanTag)
}

func (s *Store) ListTags(ctx context.Context) ([]catalog.Tag, error) {
	query, args, err := psql.Select("id", "name").From("tags").OrderBy("name").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return pgx.CollectRows(rows, scanTag)
}

// SyncTags diffs the current association set against tagIDs and applies
// the difference in one transaction. The translation row is locked so
// concurrent syncs of the same record serialize.
func (s *Store) SyncTags(ctx context.Context, translationID int64, tagIDs []int64) error {
	return s.InTx(ctx, func(cs catalog.Store) error {
		tx := cs.(*Store) //nolint:forcetypeassert // InTx always passes *Store

		var locked int64
		err := tx.q.QueryRow(ctx, "SELECT id FROM translations WHERE id = $1 FOR UPDATE", translationID).Scan(&locked)
		if err != nil {
			return notFound(err)
		}

		rows, err := tx.q.Query(ctx, "SELECT tag_id FROM translation_tag WHERE translation_id = $1", translationID)
		if err != nil {
			return fmt.Errorf("load associations: %w", err)
		}
		current, err := pgx.CollectRows(rows, pgx.RowTo[int64])
		if err != nil {
			return fmt.Errorf("load associations: %w", err)
		}

		toAdd, toRemove := diff(current, tagIDs)
		if len(toAdd) == 0 && len(toRemove) == 0 {
			return nil
		}

		if len(toRemove) > 0 {
			if _, err := tx.q.Exec(ctx,
				"DELETE FROM translation_tag WHERE translation_id = $1 AND tag_id = ANY($2)",
				translationID, toRemove); err != nil {
				return fmt.Errorf("detach tags: %w", err)
			}
		}
		if len(toAdd) > 0 {
			if _, err := tx.q.Exec(ctx,
				"INSERT INTO translation_tag (translation_id, tag_id) SELECT $1, unnest($2::bigint[]) ON CONFLICT DO NOTHING",
				translationID, toAdd); err != nil {
				return fmt.Errorf("attach tags: %w", err)
			}
		}
		if _, err := tx.q.Exec(ctx, "UPDATE translations SET updated_at = now() WHERE id = $1", translationID); err != nil {
			return fmt.Errorf("touch translation: %w", err)
		}
		return nil
	})
}

// diff returns desired minus current and current minus desired.
func diff(current, desired []int64) (toAdd, toRemove []int64) {
	for _, id := range desired {
		if !slices.Contains(current, id) && !slices.Contains(toAdd, id) {
			toAdd = append(toAdd, id)
		}
	}
	for _, id := range current {
		if !slices.Contains(desired, id) {
			toRemove = append(toRemove, id)
		}
	}
	return toAdd, toRemove
}

func scanTranslation(row pgx.CollectableRow) (catalog.Translation, error) {
	var t catalog.Translation
	err := row.Scan(&t.ID, &t.Locale, &t.Key, &t.Content, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func scanTag(row pgx.CollectableRow) (catalog.Tag, error) {
	var t catalog.Tag
	err := row.Scan(&t.ID, &t.Name)
	return t, err
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return catalog.ErrNotFound
	}
	return err
}
