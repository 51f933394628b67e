//go:build integration

package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lingo/internal/catalog"
	"github.com/dmitrymomot/lingo/internal/catalog/postgres"
	"github.com/dmitrymomot/lingo/migrations"
	"github.com/dmitrymomot/lingo/pkg/db"
	"github.com/dmitrymomot/lingo/pkg/logger"
)

func setup(t *testing.T) (*pgxpool.Pool, *postgres.Store) {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	ctx := context.Background()

	pool, err := db.Connect(ctx, db.Config{ConnectionString: dsn, RetryAttempts: 1})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.Migrate(ctx, pool, migrations.FS, "goose_db_version", logger.NewNope()))
	_, err = pool.Exec(ctx, "TRUNCATE translation_tag, translations, tags RESTART IDENTITY CASCADE")
	require.NoError(t, err)
	_, err = pool.Exec(ctx, "INSERT INTO tags (name) VALUES ('mobile'), ('web'), ('backend')")
	require.NoError(t, err)

	return pool, postgres.New(pool)
}

func TestStore(t *testing.T) {
	_, store := setup(t)
	ctx := context.Background()
	svc := catalog.NewService(store)

	title, err := svc.Create(ctx, catalog.CreateInput{Locale: "en", Key: "app.title", Content: "My App", Tags: []string{"mobile", "web"}})
	require.NoError(t, err)
	require.Len(t, title.Tags, 2)

	_, err = svc.Create(ctx, catalog.CreateInput{Locale: "en", Key: "api.error", Content: "Oops", Tags: []string{"backend"}})
	require.NoError(t, err)

	t.Run("export any-tag semantics", func(t *testing.T) {
		out, err := store.Project(ctx, catalog.ExportFilter{Locale: "en", Tags: []string{"mobile", "web"}})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"app.title": "My App"}, out)
	})

	t.Run("empty view", func(t *testing.T) {
		out, err := store.Project(ctx, catalog.ExportFilter{Locale: "fr"})
		require.NoError(t, err)
		assert.NotNil(t, out)
		assert.Empty(t, out)

		_, ok, err := store.LastModified(ctx, catalog.ExportFilter{Locale: "fr"})
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("duplicate keys resolve to highest id", func(t *testing.T) {
		_, err := svc.Create(ctx, catalog.CreateInput{Locale: "de", Key: "dup", Content: "first"})
		require.NoError(t, err)
		_, err = svc.Create(ctx, catalog.CreateInput{Locale: "de", Key: "dup", Content: "second"})
		require.NoError(t, err)

		out, err := store.Project(ctx, catalog.ExportFilter{Locale: "de"})
		require.NoError(t, err)
		assert.Equal(t, "second", out["dup"])
	})

	t.Run("listing filters", func(t *testing.T) {
		items, total, err := store.List(ctx, catalog.ListFilter{Tag: "backend"}, 50, 0)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		assert.Equal(t, "api.error", items[0].Key)

		_, total, err = store.List(ctx, catalog.ListFilter{Key: "%"}, 50, 0)
		require.NoError(t, err)
		assert.Zero(t, total, "wildcards in input are literal")
	})

	t.Run("sync tags", func(t *testing.T) {
		before, err := store.Get(ctx, title.ID)
		require.NoError(t, err)

		updated, err := svc.Update(ctx, title.ID, catalog.UpdateInput{Tags: []string{"backend"}})
		require.NoError(t, err)
		require.Len(t, updated.Tags, 1)
		assert.Equal(t, "backend", updated.Tags[0].Name)
		assert.False(t, updated.UpdatedAt.Before(before.UpdatedAt))

		again, err := svc.Update(ctx, title.ID, catalog.UpdateInput{Tags: []string{"backend"}})
		require.NoError(t, err)
		assert.Equal(t, updated.UpdatedAt, again.UpdatedAt)
	})

	t.Run("snapshot", func(t *testing.T) {
		err := store.Snapshot(ctx, func(r catalog.ExportReader) error {
			_, ok, err := r.LastModified(ctx, catalog.ExportFilter{Locale: "en"})
			require.True(t, ok)
			return err
		})
		require.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := store.Get(ctx, 1_000_000)
		require.ErrorIs(t, err, catalog.ErrNotFound)
		_, err = store.Update(ctx, 1_000_000, catalog.UpdateFields{})
		require.ErrorIs(t, err, catalog.ErrNotFound)
	})
}
