package main

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/dmitrymomot/lingo/internal/config"
	"github.com/dmitrymomot/lingo/internal/populate"
	"github.com/dmitrymomot/lingo/pkg/db"
)

func populateData(ctx context.Context, cfg config.Config, log *slog.Logger, count int, seed uint64) error {
	pool, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	if seed == 0 {
		seed = rand.Uint64()
	}
	log.Info("populating translations", slog.Int("count", count), slog.Uint64("seed", seed))

	_, err = populate.Run(ctx, pool, count,
		populate.WithLogger(log),
		populate.WithRand(rand.New(rand.NewPCG(seed, seed))),
	)
	return err
}
