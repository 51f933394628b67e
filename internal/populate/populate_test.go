package populate_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/lingo/internal/populate"
)

// fakeDB answers the queries Run issues and records every statement.
type fakeDB struct {
	onCopy  func(call int) error
	execErr func(ctx context.Context, sql string) error
	execs   []string
	copies  int
	maxID   int64
	mu      sync.Mutex
}

func (f *fakeDB) Exec(ctx context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return pgconn.CommandTag{}, err
	}
	if f.execErr != nil {
		if err := f.execErr(ctx, sql); err != nil {
			return pgconn.CommandTag{}, err
		}
	}
	f.execs = append(f.execs, sql)
	return pgconn.NewCommandTag("SELECT 1"), nil
}

func (f *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	tags := populate.DefaultTemplates().Tags
	return &tagRows{names: tags}, nil
}

func (f *fakeDB) QueryRow(context.Context, string, ...any) pgx.Row {
	return int64Row(f.maxID)
}

func (f *fakeDB) CopyFrom(_ context.Context, _ pgx.Identifier, _ []string, src pgx.CopyFromSource) (int64, error) {
	f.mu.Lock()
	f.copies++
	call := f.copies
	f.mu.Unlock()

	if f.onCopy != nil {
		if err := f.onCopy(call); err != nil {
			return 0, err
		}
	}
	var n int64
	for src.Next() {
		if _, err := src.Values(); err != nil {
			return n, err
		}
		n++
	}
	return n, src.Err()
}

func (f *fakeDB) sequenceAdvances() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, sql := range f.execs {
		if strings.Contains(sql, "setval") {
			n++
		}
	}
	return n
}

type int64Row int64

func (r int64Row) Scan(dest ...any) error {
	*dest[0].(*int64) = int64(r) //nolint:forcetypeassert // fixed query shape
	return nil
}

// tagRows yields (id, name) pairs with ids starting at 1.
type tagRows struct {
	names []string
	i     int
}

func (r *tagRows) Close()                                       {}
func (r *tagRows) Err() error                                   { return nil }
func (r *tagRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *tagRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *tagRows) RawValues() [][]byte                          { return nil }
func (r *tagRows) Conn() *pgx.Conn                              { return nil }

func (r *tagRows) Next() bool {
	r.i++
	return r.i <= len(r.names)
}

func (r *tagRows) Scan(dest ...any) error {
	*dest[0].(*int64) = int64(r.i)       //nolint:forcetypeassert // fixed query shape
	*dest[1].(*string) = r.names[r.i-1] //nolint:forcetypeassert // fixed query shape
	return nil
}

func (r *tagRows) Values() ([]any, error) {
	return []any{int64(r.i), r.names[r.i-1]}, nil
}

func runOpts() []populate.Option {
	return []populate.Option{
		populate.WithBatchSize(10),
		populate.WithRand(rand.New(rand.NewPCG(1, 1))),
	}
}

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("complete run", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{maxID: 5}

		res, err := populate.Run(context.Background(), db, 25, runOpts()...)
		require.NoError(t, err)
		assert.EqualValues(t, 25, res.Translations)
		assert.Positive(t, res.Associations)
		assert.Equal(t, 6, db.copies, "translations and associations per batch")
		assert.Equal(t, 1, db.sequenceAdvances())
	})

	t.Run("failed batch still advances the sequence", func(t *testing.T) {
		t.Parallel()
		copyErr := errors.New("copy failed")
		db := &fakeDB{onCopy: func(call int) error {
			if call == 3 {
				return copyErr
			}
			return nil
		}}

		res, err := populate.Run(context.Background(), db, 30, runOpts()...)
		require.ErrorIs(t, err, copyErr)
		assert.Contains(t, err.Error(), "batch 2")
		assert.EqualValues(t, 10, res.Translations, "the first batch stays committed")
		assert.Equal(t, 1, db.sequenceAdvances())
	})

	t.Run("cancellation still advances the sequence", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		db := &fakeDB{onCopy: func(call int) error {
			if call == 2 {
				cancel()
			}
			return nil
		}}

		res, err := populate.Run(ctx, db, 30, runOpts()...)
		require.ErrorIs(t, err, context.Canceled)
		assert.EqualValues(t, 10, res.Translations)
		assert.Equal(t, 1, db.sequenceAdvances())
	})

	t.Run("sequence failure is reported", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{execErr: func(_ context.Context, sql string) error {
			if strings.Contains(sql, "setval") {
				return errors.New("permission denied")
			}
			return nil
		}}

		_, err := populate.Run(context.Background(), db, 5, runOpts()...)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "advance sequence")
	})

	t.Run("count must be positive", func(t *testing.T) {
		t.Parallel()
		db := &fakeDB{}

		_, err := populate.Run(context.Background(), db, 0)
		require.Error(t, err)
		assert.Zero(t, db.copies)
	})
}
