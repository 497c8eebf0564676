package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/rentfolio/rentfolio/internal/app"
	"github.com/rentfolio/rentfolio/internal/commissions"
	"github.com/rentfolio/rentfolio/internal/gateway"
	"github.com/rentfolio/rentfolio/internal/integrations"
	"github.com/rentfolio/rentfolio/internal/ledger"
	"github.com/rentfolio/rentfolio/internal/reconcile"
	"github.com/rentfolio/rentfolio/internal/shared"
	"github.com/rentfolio/rentfolio/internal/statements"
	"github.com/rentfolio/rentfolio/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := pgxpool.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Warn("asynq close", slog.Any("error", err))
		}
	}()

	classifier := ledger.NewClassifier(ledger.DefaultTaxonomy())
	auditLogger := shared.NewAuditLogger(dbpool)
	locker := shared.NewRedisLocker(redisClient)

	integrationsRepo := integrations.NewRepository(dbpool)
	integrationsService := integrations.NewService(integrationsRepo, logger)
	integrationsHandler := integrations.NewHandler(logger, integrationsService)

	gatewayFactory := gateway.NewFactory(gateway.Config{
		PowerOfficeAuthURL: cfg.PowerOfficeAuthURL,
		PowerOfficeBaseURL: cfg.PowerOfficeBaseURL,
		XledgerURL:         cfg.XledgerURL,
		Timeout:            cfg.GatewayTimeout,
	})
	reconcileRepo := reconcile.NewRepository(dbpool)
	reconciler := reconcile.NewReconciler(classifier, reconcileRepo, integrationStore{
		service: integrationsService,
		repo:    integrationsRepo,
	}, gatewayFactory, locker, logger)
	reconcileHandler := reconcile.NewHandler(logger, reconciler)

	statementsHandler := statements.NewHandler(logger, jobs.NewEnqueuer(asynqClient))

	commissionsRepo := commissions.NewRepository(dbpool)
	commissionsService := commissions.NewService(commissionsRepo, commissions.NewAggregator(), auditLogger, logger)
	commissionsHandler := commissions.NewHandler(logger, commissionsService)

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		IntegrationsHandler: integrationsHandler,
		ReconcileHandler:    reconcileHandler,
		StatementsHandler:   statementsHandler,
		CommissionsHandler:  commissionsHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", slog.Any("error", err))
	}
}

// integrationStore adapts the integrations service and repository to the
// reconciler's store port.
type integrationStore struct {
	service *integrations.Service
	repo    *integrations.Repository
}

func (s integrationStore) Resolve(ctx context.Context, partnerID, accountID string, typ integrations.SystemType) (integrations.Integration, error) {
	return s.service.Resolve(ctx, partnerID, accountID, typ)
}

func (s integrationStore) SetStatus(ctx context.Context, id string, to integrations.Status) error {
	return s.repo.SetStatus(ctx, id, to)
}
