package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"lms/api/internal/cache"
	"lms/api/internal/config"
	"lms/api/internal/content"
	"lms/api/internal/database"
	"lms/api/internal/handlers"
	"lms/api/internal/jobs"
	"lms/api/internal/log"
	"lms/api/internal/metrics"
	"lms/api/internal/middleware"
	"lms/api/internal/repository"
	"lms/api/internal/security"
	"lms/api/internal/server"
	"lms/api/internal/service"
	"lms/api/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment, cfg.Logging.Level)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()

	if cfg.Postgres.AutoMigrate {
		if err := database.RunMigrations(cfg.Postgres.DSN); err != nil {
			logger.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect redis")
	}

	objectStore, err := storage.NewObjectStore(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init object store")
	}
	if err := objectStore.EnsureBucket(ctx); err != nil {
		logger.Warn().Err(err).Msg("ensure bucket failed")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewCollector(registry)

	users := repository.NewUserRepository(dbPool)
	refreshTokens := repository.NewRefreshTokenRepository(dbPool)
	courses := repository.NewCourseRepository(dbPool)
	lessons := repository.NewLessonRepository(dbPool)
	enrollments := repository.NewEnrollmentRepository(dbPool)
	progress := repository.NewProgressRepository(dbPool)

	publisher := jobs.NewStreamPublisher(redisClient, cfg.Redis.Stream)
	issuer := security.NewTokenIssuer(security.TokenConfig{
		AccessSecret:  cfg.Security.JWTAccessSecret,
		RefreshSecret: cfg.Security.JWTRefreshSecret,
		AccessTTL:     cfg.Security.JWTAccessTTL,
		RefreshTTL:    cfg.Security.JWTRefreshTTL,
	})
	hasher := security.NewPasswordHasher(security.DefaultArgon2Params)
	bucket := objectStore.Bucket()

	svc := handlers.Services{
		Auth: service.NewAuthService(users, refreshTokens, issuer, hasher, recorder, logger),
		Courses: service.NewCourseService(courses, lessons,
			cache.NewCourseCache(redisClient, cfg.Cache.CourseTTL), publisher, bucket, logger),
		Lessons: service.NewLessonService(courses, lessons, enrollments, progress,
			content.NewSanitizer(), publisher, bucket, logger),
		Enrollments: service.NewEnrollmentService(courses, enrollments, recorder),
		Progress:    service.NewProgressService(lessons, enrollments, progress, recorder),
		Media:       service.NewMediaService(lessons, objectStore, publisher, cfg.Storage.MaxUploadBytes, recorder, logger),
	}

	authLimiter := middleware.NewRateLimiter(cfg.Security.AuthRateLimit, cfg.Security.AuthRateBurst, 10*time.Minute)

	handlerSet := handlers.NewHandlerSet(logger, svc, handlers.Options{
		Environment: cfg.Environment,
		Probes: []handlers.Probe{
			{Name: "postgres", Check: dbPool.Ping},
			{Name: "redis", Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }},
		},
		Gatherer:       registry,
		AuthLimiter:    authLimiter,
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
	})
	engine := server.NewEngine(cfg, logger, handlerSet, recorder)
	httpServer := server.NewHTTPServer(cfg, logger, engine)

	scheduler := jobs.NewScheduler(publisher, cfg.Jobs.CleanupSpec, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, authLimiter, dbPool, redisClient)
}

func waitForShutdown(
	logger zerolog.Logger,
	srv *server.HTTPServer,
	scheduler *jobs.Scheduler,
	limiter *middleware.RateLimiter,
	db *pgxpool.Pool,
	redisClient *redis.Client,
) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	select {
	case <-scheduler.Stop().Done():
	case <-shutdownCtx.Done():
		logger.Warn().Msg("scheduler jobs still running at exit")
	}
	limiter.Stop()

	db.Close()
	if err := redisClient.Close(); err != nil {
		logger.Error().Err(err).Msg("redis close error")
	}

	logger.Info().Msg("server exited cleanly")
}
