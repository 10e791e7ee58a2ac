package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"lms/api/internal/cache"
	"lms/api/internal/config"
	"lms/api/internal/database"
	"lms/api/internal/log"
	"lms/api/internal/queue"
	"lms/api/internal/repository"
	"lms/api/internal/storage"
	"lms/api/internal/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, cfg.Logging.Level).With().Str("component", "worker").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer dbPool.Close()

	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	defer client.Close()

	objectStore, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object store")
	}

	processor := tasks.NewProcessor(repository.NewRefreshTokenRepository(dbPool), objectStore, logger)
	consumer := queue.NewConsumer(
		client,
		cfg.Redis.Stream,
		cfg.Redis.Group,
		cfg.Redis.Consumer,
		cfg.Jobs.ClaimInterval,
		logger,
		processor,
	)

	logger.Info().
		Str("stream", cfg.Redis.Stream).
		Str("group", cfg.Redis.Group).
		Msg("worker started")

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("consumer stopped unexpectedly")
		return
	}
	logger.Info().Msg("worker exited cleanly")
}
