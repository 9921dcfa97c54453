package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httpapi "github.com/spec-kit/helpdesk-service/internal/api/http"
	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	postgres, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("postgres connection failed", zap.Error(err))
	}
	defer postgres.Close()

	if cfg.Postgres.RunMigrations && postgres.Pool != nil {
		if err := persistence.RunMigrations(ctx, postgres.Pool, logger); err != nil {
			logger.Fatal("migrations failed", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := postgres.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	fieldDefRepo := repository.NewFieldDefinitionRepository(pool)
	directoryRepo := repository.NewDirectoryRepository(pool)
	approvalRepo := repository.NewApprovalRepository(pool)
	historyRepo := repository.NewTicketHistoryRepository(pool)
	txStore := repository.NewTxStore(pool, cfg.Postgres.LockTimeout())

	metrics := observability.NewMetrics()

	dispatcher := events.NewInMemoryDispatcher(logger)
	events.NewRedisBridge(redis.Client, logger).Attach(dispatcher)
	countEvent := func(_ context.Context, event events.Event) error {
		metrics.RecordDomain(string(event.Type))
		return nil
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketStatusChanged,
		events.EventTicketResubmitted,
		events.EventTicketApprovalRequested,
		events.EventTicketAssigned,
	} {
		dispatcher.Subscribe(eventType, countEvent)
	}

	ticketService := service.NewTicketService(service.TicketDependencies{
		TxStore:      txStore,
		TicketRepo:   ticketRepo,
		UserRepo:     userRepo,
		FieldDefRepo: fieldDefRepo,
		Validator:    service.NewFieldValidator(fieldDefRepo),
		Router:       service.NewApprovalRouter(directoryRepo, logger),
		SLA:          service.NewSLACalculator(time.Now),
		Dispatcher:   dispatcher,
		Logger:       logger,
		ExposeDBErrs: !cfg.App.IsProduction(),
	})
	authService := service.NewAuthService(*cfg, userRepo)

	notifier := service.NewLogNotifier(logger, cfg.Notification)
	notificationService := service.NewNotificationService(dispatcher, userRepo, notifier, logger)
	worker.StartNotificationWorker(notificationService)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.IsProduction(),
	})
	httpapi.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	httpapi.RegisterRoutes(app, httpapi.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, postgres, redis),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, approvalRepo, historyRepo),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Error("http server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
