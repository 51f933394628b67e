package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dmitrymomot/lingo/internal/auth"
	"github.com/dmitrymomot/lingo/internal/config"
	"github.com/dmitrymomot/lingo/pkg/db"
)

func createToken(ctx context.Context, cfg config.Config, log *slog.Logger, email, name string, ttl time.Duration) error {
	pool, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	svc := auth.NewService(auth.NewPostgresStore(pool), auth.WithLogger(log))
	defer svc.Close()

	issued, err := svc.CreateToken(ctx, email, name, ttl)
	if err != nil {
		return err
	}
	// plaintext goes to stdout only, never to the log
	_, err = fmt.Fprintln(os.Stdout, issued.Plaintext)
	return err
}

func pruneTokens(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	pool, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	svc := auth.NewService(auth.NewPostgresStore(pool), auth.WithLogger(log))
	defer svc.Close()

	n, err := svc.PruneExpired(ctx)
	if err != nil {
		return err
	}
	log.Info("expired tokens pruned", slog.Int64("count", n))
	return nil
}
