package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// goose keeps its configuration in package globals.
var gooseMu sync.Mutex

// Migrate applies all pending migrations found at the root of migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool, migrations fs.FS, table string, log *slog.Logger) error {
	return withGoose(pool, migrations, table, log, func(db *sql.DB) error {
		if err := goose.UpContext(ctx, db, "."); err != nil {
			return errors.Join(ErrApplyMigrations, err)
		}
		return nil
	})
}

// Rollback reverts the most recently applied migration.
func Rollback(ctx context.Context, pool *pgxpool.Pool, migrations fs.FS, table string, log *slog.Logger) error {
	return withGoose(pool, migrations, table, log, func(db *sql.DB) error {
		if err := goose.DownContext(ctx, db, "."); err != nil {
			return errors.Join(ErrRollbackMigration, err)
		}
		return nil
	})
}

// MigrationStatus logs the state of every known migration.
func MigrationStatus(ctx context.Context, pool *pgxpool.Pool, migrations fs.FS, table string, log *slog.Logger) error {
	return withGoose(pool, migrations, table, log, func(db *sql.DB) error {
		return goose.StatusContext(ctx, db, ".")
	})
}

func withGoose(pool *pgxpool.Pool, migrations fs.FS, table string, log *slog.Logger, fn func(*sql.DB) error) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	// The sql.DB shares pool connections; closing it would close the pool.
	db := stdlib.OpenDBFromPool(pool)

	goose.SetBaseFS(migrations)
	goose.SetLogger(&gooseLogger{log: log})
	if table != "" {
		goose.SetTableName(table)
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrSetDialect, err)
	}

	return fn(db)
}

type gooseLogger struct {
	log *slog.Logger
}

func (g *gooseLogger) Printf(format string, args ...any) {
	if g.log != nil {
		g.log.Info(fmt.Sprintf(format, args...))
	}
}

// Fatalf logs only; goose also returns the error, so the caller decides how to exit.
func (g *gooseLogger) Fatalf(format string, args ...any) {
	if g.log != nil {
		g.log.Error(fmt.Sprintf(format, args...))
	}
}
