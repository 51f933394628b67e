package main

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/lingo/internal/config"
	"github.com/dmitrymomot/lingo/migrations"
	"github.com/dmitrymomot/lingo/pkg/db"
)

type migrateDirection int

const (
	migrateUp migrateDirection = iota
	migrateDown
	migrateStatus
)

func migrate(ctx context.Context, cfg config.Config, log *slog.Logger, dir migrateDirection) error {
	pool, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	table := cfg.Database.MigrationsTable
	switch dir {
	case migrateDown:
		return db.Rollback(ctx, pool, migrations.FS, table, log)
	case migrateStatus:
		return db.MigrationStatus(ctx, pool, migrations.FS, table, log)
	default:
		return db.Migrate(ctx, pool, migrations.FS, table, log)
	}
}
