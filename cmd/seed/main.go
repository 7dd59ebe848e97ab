package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/neexbeast/destination-seeder/internal/backend"
	"github.com/neexbeast/destination-seeder/internal/cache"
	"github.com/neexbeast/destination-seeder/internal/config"
	"github.com/neexbeast/destination-seeder/internal/destination"
	"github.com/neexbeast/destination-seeder/internal/media"
	"github.com/neexbeast/destination-seeder/internal/pexels"
	"github.com/neexbeast/destination-seeder/internal/seed"
)

func main() {
	level := new(slog.LevelVar)
	log := slog.New(newSplitHandler(os.Stdout, os.Stderr, level))

	if err := run(log, level); err != nil {
		log.Error("seeder exited with error", "err", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger, level *slog.LevelVar) error {
	cfg, err := config.LoadSeed()
	if err != nil {
		return err
	}
	level.Set(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var search media.PhotoSearcher = pexels.NewClientWithURL(cfg.PexelsSearchURL, cfg.PexelsAPIKey)
	if cfg.RedisURL != "" {
		redisClient, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer func() { _ = redisClient.Close() }()

		search = cache.NewCachedSearcher(search, cache.NewSearchCache(redisClient), log)
		log.Info("photo search cache enabled")
	}

	faker := gofakeit.New(cfg.FakerSeed)
	descriptors, err := destination.AllDescriptors(faker, cfg.TotalDestinations)
	if err != nil {
		return fmt.Errorf("building descriptors: %w", err)
	}

	client := backend.NewClient(cfg.BaseURL, cfg.BackendToken)
	remote := media.NewRemoteResolver(search, client, client, cfg.ImagesPer, cfg.VideosPer, cfg.UploadDelay, log)
	synthetic := media.NewSyntheticResolver(cfg.ImagesPer, cfg.VideosPer)

	runner := seed.NewRunner(
		media.NewDispatcher(remote, synthetic),
		destination.NewBuilder(faker, cfg.CreatedBy),
		client,
		cfg.ImagesPer,
		cfg.VideosPer,
		log,
	)
	runner.Run(ctx, descriptors)
	return nil
}
