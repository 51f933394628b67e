// Command lingo runs the translation catalog service and its maintenance tasks.
//
//	lingo serve
//	lingo migrate [up|down|status]
//	lingo populate [count] [--seed=N]
//	lingo token create <email> [--name=ci] [--expires-in=720h]
//	lingo token prune
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/dmitrymomot/lingo/internal/config"
	"github.com/dmitrymomot/lingo/middlewares"
	"github.com/dmitrymomot/lingo/pkg/logger"
)

func main() {
	app := kingpin.New("lingo", "Translation catalog service.")
	envFiles := app.Flag("env-file", "Optional .env file(s) to load before parsing the environment.").Strings()

	serveCmd := app.Command("serve", "Run the HTTP API.").Default()

	migrateCmd := app.Command("migrate", "Manage database migrations.")
	migrateUpCmd := migrateCmd.Command("up", "Apply pending migrations.").Default()
	migrateDownCmd := migrateCmd.Command("down", "Roll back the latest migration.")
	migrateStatusCmd := migrateCmd.Command("status", "Print migration status.")

	populateCmd := app.Command("populate", "Insert random translations for load testing.")
	populateCount := populateCmd.Arg("count", "Number of translations.").Default("100000").Int()
	populateSeed := populateCmd.Flag("seed", "Random seed; 0 picks one.").Default("0").Uint64()

	tokenCmd := app.Command("token", "Manage API tokens.")
	tokenCreateCmd := tokenCmd.Command("create", "Issue a token and print it once.")
	tokenEmail := tokenCreateCmd.Arg("email", "Owner email; the user is created if missing.").Required().String()
	tokenName := tokenCreateCmd.Flag("name", "Token label.").Default("api").String()
	tokenTTL := tokenCreateCmd.Flag("expires-in", "Token lifetime; 0 never expires.").Default("0s").Duration()
	tokenPruneCmd := tokenCmd.Command("prune", "Delete expired tokens.")

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	cfg, err := config.Load(*envFiles...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := newLogger(cfg)
	defer sentry.Flush(2 * time.Second)

	ctx := context.Background()
	switch command {
	case serveCmd.FullCommand():
		err = serve(ctx, cfg, log)
	case migrateUpCmd.FullCommand():
		err = migrate(ctx, cfg, log, migrateUp)
	case migrateDownCmd.FullCommand():
		err = migrate(ctx, cfg, log, migrateDown)
	case migrateStatusCmd.FullCommand():
		err = migrate(ctx, cfg, log, migrateStatus)
	case populateCmd.FullCommand():
		err = populateData(ctx, cfg, log, *populateCount, *populateSeed)
	case tokenCreateCmd.FullCommand():
		err = createToken(ctx, cfg, log, *tokenEmail, *tokenName, *tokenTTL)
	case tokenPruneCmd.FullCommand():
		err = pruneTokens(ctx, cfg, log)
	}
	if err != nil {
		log.Error("command failed", slog.String("command", command), slog.Any("error", err))
		sentry.Flush(2 * time.Second)
		os.Exit(1)
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := []logger.Option{
		logger.WithLevel(logger.ParseLevel(cfg.Log.Level)),
		logger.WithFormat(logger.Format(cfg.Log.Format)),
		logger.WithExtractors(middlewares.RequestIDExtractor()),
	}
	if cfg.Sentry.DSN != "" {
		opts = append(opts, logger.WithSentry(cfg.Sentry))
	}
	return logger.New(opts...).With(slog.String("service", "lingo"))
}
