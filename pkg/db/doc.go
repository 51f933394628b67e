// Package db provides PostgreSQL utilities built on [github.com/jackc/pgx/v5/pgxpool].
//
// It covers connection pooling with startup retries, schema migrations via
// [github.com/pressly/goose/v3], transaction helpers, and a healthcheck
// closure for readiness probes.
//
// # Configuration
//
// [Config] is populated from the environment:
//
//	DATABASE_CONN_URL           - PostgreSQL connection URL (required)
//	DATABASE_MAX_OPEN_CONNS     - Maximum open connections (default: 10)
//	DATABASE_MIN_CONNS          - Minimum idle connections (default: 2)
//	DATABASE_HEALTHCHECK_PERIOD - Pool health check interval (default: 1m)
//	DATABASE_MAX_CONN_IDLE_TIME - Maximum connection idle time (default: 10m)
//	DATABASE_MAX_CONN_LIFETIME  - Maximum connection lifetime (default: 30m)
//	DATABASE_RETRY_ATTEMPTS     - Connection attempts at startup (default: 3)
//	DATABASE_RETRY_INTERVAL     - Base retry interval (default: 2s)
//	DATABASE_MIGRATIONS_TABLE   - goose version table (default: schema_migrations)
//	DATABASE_AUTO_MIGRATE       - Apply migrations on server start (default: false)
//
// # Transactions
//
//	err := db.WithTx(ctx, pool, func(tx pgx.Tx) error {
//		_, err := tx.Exec(ctx, "DELETE FROM translation_tag WHERE translation_id = $1", id)
//		return err
//	})
//
// [WithSnapshot] runs fn in a read-only REPEATABLE READ transaction so that
// several reads observe one consistent snapshot.
package db
