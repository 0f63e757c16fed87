package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/replayhq/replay/internal/auth"
	"github.com/replayhq/replay/internal/config"
	"github.com/replayhq/replay/internal/handler"
	"github.com/replayhq/replay/internal/infra/postgresql"
	"github.com/replayhq/replay/internal/infra/postgresql/migrations"
	infraredis "github.com/replayhq/replay/internal/infra/redis"
	"github.com/replayhq/replay/internal/observability"
	"github.com/replayhq/replay/internal/queue"
	"github.com/replayhq/replay/internal/realtime"
	"github.com/replayhq/replay/internal/repository"
	"github.com/replayhq/replay/internal/service"
	"github.com/replayhq/replay/internal/transport"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal("failed to initialize logger", zap.Error(err))
	}
	defer logger.Sync() //nolint:errcheck

	db, err := postgresql.NewPostgres(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("postgres initialization failed", zap.Error(err))
	}

	if err := migrations.Migrate(db); err != nil {
		logger.Fatal("database migrations failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("postgres underlying db init failed", zap.Error(err))
	}
	defer sqlDB.Close()

	rdb, err := infraredis.NewRedis(cfg.RedisURL)
	if err != nil {
		logger.Fatal("redis initialization failed", zap.Error(err))
	}
	defer rdb.Close()

	loginLimiter, err := infraredis.NewRedisRateLimiter(rdb, cfg.LoginRateLimitPerMin, time.Minute)
	if err != nil {
		logger.Fatal("rate limiter initialization failed", zap.Error(err))
	}

	broker, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		logger.Fatal("rabbitmq initialization failed", zap.Error(err))
	}
	publisher := queue.NewRabbitMQPublisher(broker)
	defer publisher.Close() //nolint:errcheck

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.JWTTTLMinutes)*time.Minute)
	if err != nil {
		logger.Fatal("token manager initialization failed", zap.Error(err))
	}

	metrics := observability.NewMetrics()

	registry := realtime.NewRegistry(logger)
	registry.SetGauge(metrics.WSConnections())
	wsRouter := realtime.NewRouter(registry, logger)

	userRepo := repository.NewGormUserRepo(db)
	schoolRepo := repository.NewGormSchoolRepo(db)
	inventoryRepo := repository.NewGormInventoryRepo(db)
	tradeRepo := repository.NewGormTradeRepo(db)
	communityRepo := repository.NewGormCommunityRepo(db)
	performanceRepo := repository.NewGormPerformanceRepo(db)
	reviewRepo := repository.NewGormReviewRepo(db)
	notificationRepo := repository.NewGormNotificationRepo(db)

	notifications, err := service.NewNotificationService(notificationRepo, registry, publisher, logger)
	if err != nil {
		logger.Fatal("notification service initialization failed", zap.Error(err))
	}
	notifications.SetPushCounter(metrics.NotificationsPushed())

	users, err := service.NewUserService(userRepo, tokens, loginLimiter, logger)
	if err != nil {
		logger.Fatal("user service initialization failed", zap.Error(err))
	}
	trades, err := service.NewTradeService(tradeRepo, inventoryRepo, schoolRepo, notifications, logger)
	if err != nil {
		logger.Fatal("trade service initialization failed", zap.Error(err))
	}
	community, err := service.NewCommunityService(communityRepo, notifications, logger)
	if err != nil {
		logger.Fatal("community service initialization failed", zap.Error(err))
	}
	reviews, err := service.NewReviewService(reviewRepo, performanceRepo, schoolRepo, notifications, logger)
	if err != nil {
		logger.Fatal("review service initialization failed", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:      "replay",
		ErrorHandler: transport.ErrorHandler(logger),
	})
	app.Use(transport.CorrelationMiddleware())
	app.Use(metrics.HTTPMiddleware())

	authenticated := auth.Middleware(tokens, userRepo)
	viewer := auth.OptionalMiddleware(tokens, userRepo)

	handler.RegisterHealthRoutes(app, sqlDB, rdb)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	if err := handler.RegisterRealtimeRoutes(app, registry, wsRouter, logger); err != nil {
		logger.Fatal("realtime route registration failed", zap.Error(err))
	}
	if err := handler.RegisterAuthRoutes(app, users, authenticated); err != nil {
		logger.Fatal("auth route registration failed", zap.Error(err))
	}
	if err := handler.RegisterSchoolRoutes(app, schoolRepo, authenticated, auth.RequireAdmin()); err != nil {
		logger.Fatal("school route registration failed", zap.Error(err))
	}
	if err := handler.RegisterInventoryRoutes(app, inventoryRepo, schoolRepo, authenticated); err != nil {
		logger.Fatal("inventory route registration failed", zap.Error(err))
	}
	if err := handler.RegisterTradeRoutes(app, trades, authenticated); err != nil {
		logger.Fatal("trade route registration failed", zap.Error(err))
	}
	if err := handler.RegisterCommunityRoutes(app, community, authenticated); err != nil {
		logger.Fatal("community route registration failed", zap.Error(err))
	}
	if err := handler.RegisterPerformanceRoutes(app, performanceRepo, schoolRepo, reviews, authenticated, viewer); err != nil {
		logger.Fatal("performance route registration failed", zap.Error(err))
	}
	if err := handler.RegisterNotificationRoutes(app, notifications, authenticated); err != nil {
		logger.Fatal("notification route registration failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(fmt.Sprintf(":%d", cfg.APIPort))
	}()

	logger.Info("replay api started", zap.Int("port", cfg.APIPort))

	select {
	case err := <-errCh:
		logger.Fatal("server stopped unexpectedly", zap.Error(err))
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
