package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/lingo/internal"
	"github.com/dmitrymomot/lingo/internal/auth"
	"github.com/dmitrymomot/lingo/internal/catalog"
	"github.com/dmitrymomot/lingo/internal/catalog/postgres"
	"github.com/dmitrymomot/lingo/internal/config"
	"github.com/dmitrymomot/lingo/internal/export"
	"github.com/dmitrymomot/lingo/internal/handlers"
	"github.com/dmitrymomot/lingo/middlewares"
	"github.com/dmitrymomot/lingo/migrations"
	"github.com/dmitrymomot/lingo/pkg/cache"
	"github.com/dmitrymomot/lingo/pkg/db"
	"github.com/dmitrymomot/lingo/pkg/job"
	"github.com/dmitrymomot/lingo/pkg/redis"
)

func serve(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	pool, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx, pool, migrations.FS, cfg.Database.MigrationsTable, log); err != nil {
			pool.Close()
			return err
		}
	}

	runOpts := []internal.RunOption{
		internal.Address(cfg.HTTP.Address),
		internal.Logger(log),
		internal.ShutdownTimeout(cfg.HTTP.ShutdownTimeout),
	}
	healthOpts := []internal.HealthOption{
		internal.WithReadinessCheck("postgres", db.Healthcheck(pool)),
	}

	var tokenCache cache.Cache[auth.Principal]
	if cfg.Redis.Enabled() {
		client, err := redis.Open(ctx, cfg.Redis)
		if err != nil {
			pool.Close()
			return fmt.Errorf("redis: %w", err)
		}
		tokenCache = cache.NewRedis[auth.Principal](client, nil,
			cache.WithPrefix("lingo:token"), cache.WithRedisDefaultTTL(cfg.Auth.CacheTTL))
		healthOpts = append(healthOpts, internal.WithReadinessCheck("redis", redis.Healthcheck(client)))
		runOpts = append(runOpts, internal.ShutdownHook(redis.Shutdown(client)))
	} else {
		tokenCache = cache.NewMemory[auth.Principal](cache.WithDefaultTTL(cfg.Auth.CacheTTL))
	}

	authSvc := auth.NewService(auth.NewPostgresStore(pool),
		auth.WithCache(tokenCache),
		auth.WithCacheTTL(cfg.Auth.CacheTTL),
		auth.WithLogger(log),
	)

	scheduler, err := job.NewScheduler(
		job.WithLogger(log),
		job.WithFunc("prune_api_tokens", cfg.Auth.PruneSchedule, func(ctx context.Context) error {
			_, err := authSvc.PruneExpired(ctx)
			return err
		}),
	)
	if err != nil {
		pool.Close()
		return err
	}

	store := postgres.New(pool)
	app := internal.New(
		internal.WithLogger(log),
		internal.WithErrorHandler(handlers.ErrorHandler),
		internal.WithHealthChecks(healthOpts...),
		internal.WithRootMiddleware(
			middlewares.RequestID(),
			middlewares.AccessLog(),
			middlewares.Recover(),
			middlewares.CORS(middlewares.WithAllowOrigins(cfg.HTTP.AllowedOrigins...)),
		),
		internal.WithMiddleware(
			middlewares.Timeout(cfg.HTTP.RequestTimeout),
			middlewares.Auth[auth.Principal](authSvc,
				middlewares.WithAuthRejection(auth.IsRejected),
				middlewares.WithAuthDisabled(cfg.Auth.Disabled),
			),
		),
		internal.WithHandlers(
			handlers.NewExport(export.NewService(store,
				export.WithPolicy(cfg.Export.Policy()),
				export.WithSnapshot(cfg.Export.Snapshot),
				export.WithLogger(log),
			)),
			handlers.NewTranslations(catalog.NewService(store, catalog.WithLogger(log))),
		),
	)

	// hooks run in registration order; the pool closes last
	runOpts = append(runOpts,
		internal.StartupHook(scheduler.Start),
		internal.ShutdownHook(scheduler.Stop),
		internal.ShutdownHook(func(context.Context) error { return authSvc.Close() }),
		internal.ShutdownHook(db.Shutdown(pool)),
	)
	return app.Run(ctx, runOpts...)
}
