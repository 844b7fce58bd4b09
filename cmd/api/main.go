package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/homebuilt/warranty-service/internal/api/http"
	"github.com/homebuilt/warranty-service/internal/api/http/handlers"
	"github.com/homebuilt/warranty-service/internal/auth"
	"github.com/homebuilt/warranty-service/internal/cache"
	"github.com/homebuilt/warranty-service/internal/config"
	"github.com/homebuilt/warranty-service/internal/events"
	"github.com/homebuilt/warranty-service/internal/observability"
	"github.com/homebuilt/warranty-service/internal/persistence"
	"github.com/homebuilt/warranty-service/internal/repository"
	"github.com/homebuilt/warranty-service/internal/service"
	"github.com/homebuilt/warranty-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	accountRepo := repository.NewAccountRepository(pool)
	claimRepo := repository.NewClaimRepository(pool)
	messageRepo := repository.NewClaimMessageRepository(pool)
	homeownerRepo := repository.NewHomeownerRepository(pool)
	groupRepo := repository.NewBuilderGroupRepository(pool)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg.Auth, accountRepo)
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), accountRepo)

	claimService := service.NewClaimService(service.ClaimDependencies{
		ClaimRepo:     claimRepo,
		MessageRepo:   messageRepo,
		HomeownerRepo: homeownerRepo,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})
	dashboardService := service.NewDashboardService(service.DashboardDependencies{
		Reader:           repository.NewDashboardReader(pool),
		BuilderGroupRepo: groupRepo,
		Cache:            cache.NewRedisSnapshotCache(redis.Cmdable()),
		Metrics:          metrics,
		Logger:           logger,
		Config:           cfg.Analytics,
	})
	referenceService := service.NewReferenceService(groupRepo, homeownerRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartEventSubscribers(dispatcher, notificationService, dashboardService)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Claims:         handlers.NewClaimsHandler(claimService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
		Reference:      handlers.NewReferenceHandler(referenceService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
