package main

import (
	"context"
	"errors"
	"flag"

	"lms/api/internal/cache"
	"lms/api/internal/config"
	"lms/api/internal/database"
	"lms/api/internal/log"
	"lms/api/internal/repository"
	"lms/api/internal/security"
	"lms/api/internal/seed"
)

func main() {
	reset := flag.Bool("reset", false, "truncate every table before seeding")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := log.New(cfg.Environment, cfg.Logging.Level).With().Str("component", "seed").Logger()

	ctx := context.Background()

	if err := database.RunMigrations(cfg.Postgres.DSN); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer dbPool.Close()

	seeder := seed.New(seed.Stores{
		Users:       repository.NewUserRepository(dbPool),
		Courses:     repository.NewCourseRepository(dbPool),
		Lessons:     repository.NewLessonRepository(dbPool),
		Enrollments: repository.NewEnrollmentRepository(dbPool),
		Progress:    repository.NewProgressRepository(dbPool),
	}, security.NewPasswordHasher(security.DefaultArgon2Params), logger)

	if *reset {
		logger.Warn().Msg("resetting existing data")
		var catalog seed.CatalogCache
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, course cache left to expire")
		} else {
			defer redisClient.Close()
			catalog = cache.NewCourseCache(redisClient, cfg.Cache.CourseTTL)
		}
		if err := seeder.Reset(ctx, repository.NewMaintenance(dbPool), catalog); err != nil {
			logger.Fatal().Err(err).Msg("reset failed")
		}
	}

	res, err := seeder.Run(ctx)
	if errors.Is(err, seed.ErrAlreadySeeded) {
		logger.Warn().Msg("demo data already present, run with -reset to recreate it")
		return
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("seed failed")
	}

	logger.Info().
		Int("users", len(res.Users)).
		Int("courses", len(res.Courses)).
		Int("lessons", len(res.Lessons)).
		Msg("seed completed")
	for _, u := range res.Users {
		logger.Info().
			Str("role", string(u.Role)).
			Str("email", u.Email).
			Str("password", seed.DemoPassword).
			Msg("login account")
	}
}
