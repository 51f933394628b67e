package populate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/lingo/pkg/logger"
)

// Defaults for Run.
const (
	DefaultCount     = 100_000
	DefaultBatchSize = 1000
	gcEveryBatches   = 10
)

// DB is the subset of *pgxpool.Pool used by Run.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error)
}

// Config configures Run.
type Config struct {
	Logger    *slog.Logger
	Rand      *rand.Rand
	Templates *Templates
	Now       func() time.Time
	BatchSize int
}

// Option configures Config.
type Option func(*Config)

// WithLogger sets the progress logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithRand sets the random source, e.g. a seeded one for reproducible data.
func WithRand(r *rand.Rand) Option {
	return func(c *Config) { c.Rand = r }
}

// WithTemplates overrides the embedded templates.
func WithTemplates(t Templates) Option {
	return func(c *Config) { c.Templates = &t }
}

// WithBatchSize sets rows per COPY batch.
func WithBatchSize(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.BatchSize = n
		}
	}
}

// Result summarises a run.
type Result struct {
	Duration     time.Duration
	Translations int64
	Associations int64
}

// Run inserts count random translations with tags, batch by batch. Batches
// are committed independently: a failure leaves earlier batches in place.
// The id sequence is advanced past the inserted rows on every exit path,
// including failures and cancellation.
func Run(ctx context.Context, db DB, count int, opts ...Option) (res Result, err error) {
	cfg := Config{
		Logger:    logger.NewNope(),
		BatchSize: DefaultBatchSize,
		Now:       time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if cfg.Templates == nil {
		t := DefaultTemplates()
		cfg.Templates = &t
	}
	if count <= 0 {
		return Result{}, errors.New("populate: count must be positive")
	}

	start := time.Now()
	log := cfg.Logger.With(slog.String("component", "populate"))

	tags, err := ensureTags(ctx, db, cfg.Templates.Tags)
	if err != nil {
		return Result{}, err
	}
	log.InfoContext(ctx, "tags ready", slog.Int("count", len(tags)))

	var lastID int64
	if err := db.QueryRow(ctx, `SELECT COALESCE(max(id), 0) FROM translations`).Scan(&lastID); err != nil {
		return Result{}, fmt.Errorf("populate: max id: %w", err)
	}

	defer func() {
		if seqErr := advanceSequence(context.WithoutCancel(ctx), db); seqErr != nil {
			err = errors.Join(err, seqErr)
		}
	}()

	gen := NewGenerator(cfg.Rand, *cfg.Templates, tags)
	batches := (count + cfg.BatchSize - 1) / cfg.BatchSize

	for b := range batches {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		size := min(cfg.BatchSize, count-b*cfg.BatchSize)
		now := cfg.Now()
		rows := make([]Row, size)
		for i := range rows {
			lastID++
			rows[i] = gen.Row(lastID, now)
		}

		n, links, err := copyBatch(ctx, db, rows)
		res.Translations += n
		res.Associations += links
		if err != nil {
			return res, fmt.Errorf("populate: batch %d: %w", b+1, err)
		}

		if b%gcEveryBatches == 0 {
			runtime.GC()
		}
		log.InfoContext(ctx, "batch inserted",
			slog.Int("batch", b+1), slog.Int("batches", batches), slog.Int64("rows", res.Translations))
	}

	res.Duration = time.Since(start)
	log.InfoContext(ctx, "populate completed",
		slog.Int64("translations", res.Translations), slog.Duration("duration", res.Duration))
	return res, nil
}

// advanceSequence moves the id sequence to max(id) so inserts after a run,
// complete or not, do not collide with the explicit ids written by COPY.
func advanceSequence(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, advanceSequenceSQL); err != nil {
		return fmt.Errorf("populate: advance sequence: %w", err)
	}
	return nil
}

const advanceSequenceSQL = `SELECT setval(pg_get_serial_sequence('translations', 'id'), GREATEST((SELECT max(id) FROM translations), 1))`

func ensureTags(ctx context.Context, db DB, names []string) (map[string]int64, error) {
	if _, err := db.Exec(ctx,
		`INSERT INTO tags (name) SELECT unnest($1::text[]) ON CONFLICT (name) DO NOTHING`, names,
	); err != nil {
		return nil, fmt.Errorf("populate: insert tags: %w", err)
	}

	rows, err := db.Query(ctx, `SELECT id, name FROM tags WHERE name = ANY($1)`, names)
	if err != nil {
		return nil, fmt.Errorf("populate: load tags: %w", err)
	}
	tags := make(map[string]int64, len(names))
	var (
		id   int64
		name string
	)
	_, err = pgx.ForEachRow(rows, []any{&id, &name}, func() error {
		tags[name] = id
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("populate: load tags: %w", err)
	}
	return tags, nil
}

// copyBatch writes translations first so the association foreign keys hold.
func copyBatch(ctx context.Context, db DB, rows []Row) (int64, int64, error) {
	n, err := db.CopyFrom(ctx,
		pgx.Identifier{"translations"},
		[]string{"id", "locale", "key", "content", "created_at", "updated_at"},
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			r := rows[i]
			return []any{r.ID, r.Locale, r.Key, r.Content, r.CreatedAt, r.CreatedAt}, nil
		}),
	)
	if err != nil {
		return n, 0, err
	}

	var links [][]any
	for _, r := range rows {
		for _, tagID := range r.TagIDs {
			links = append(links, []any{r.ID, tagID})
		}
	}
	m, err := db.CopyFrom(ctx,
		pgx.Identifier{"translation_tag"},
		[]string{"translation_id", "tag_id"},
		pgx.CopyFromRows(links),
	)
	return n, m, err
}
