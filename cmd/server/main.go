package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/ntuananhdevs/banking-onl/internal/api"
	"github.com/ntuananhdevs/banking-onl/internal/config"
	"github.com/ntuananhdevs/banking-onl/internal/handler"
	"github.com/ntuananhdevs/banking-onl/internal/infrastructure/auth"
	"github.com/ntuananhdevs/banking-onl/internal/infrastructure/kafka"
	"github.com/ntuananhdevs/banking-onl/internal/infrastructure/redis"
	"github.com/ntuananhdevs/banking-onl/internal/observability"
	core "github.com/ntuananhdevs/banking-onl/internal/repository/postgres"
	"github.com/ntuananhdevs/banking-onl/internal/scheduler"
	service "github.com/ntuananhdevs/banking-onl/internal/services"
	"github.com/ntuananhdevs/banking-onl/internal/transfer"
	"github.com/ntuananhdevs/banking-onl/internal/webhook"
)

func main() {
	cfg := config.Load()

	shutdownTracer, metricsHandler := observability.Setup("deposit-service", cfg.LogLevel, cfg.OTLPEndpoint)
	defer shutdownTracer(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		slog.Error("failed to open Postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		slog.Error("failed to connect to Postgres", "error", err)
		os.Exit(1)
	}
	if cfg.RunMigrations {
		if err := core.RunMigrations(ctx, db); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	userRepo := core.NewPostgresUserRepository(db)
	transactionRepo := core.NewPostgresTransactionRepository(db)
	ledgerRepo := core.NewPostgresLedgerRepository(db)

	var redisClient redis.RedisClient
	if client, err := redis.NewClient(ctx, cfg.RedisAddr); err != nil {
		slog.Warn("Redis unavailable, balance cache disabled", "addr", cfg.RedisAddr, "error", err)
	} else {
		redisClient = client
		defer client.Close()
	}

	producer := kafka.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	authenticator := webhook.NewAuthenticator(cfg.Sepay.WebhookSecret, cfg.Sepay.AccessToken)
	if authenticator.Open() {
		slog.Warn("no webhook secret or access token configured: notifications are accepted without credentials")
	}
	parser := transfer.NewParser(cfg.Sepay.TransferContentPrefix)

	reconciler := service.NewReconciliationService(
		authenticator,
		parser,
		userRepo,
		transactionRepo,
		ledgerRepo,
		redisClient,
		producer,
		cfg.DepositEventsTopic,
		cfg.Sepay.DuplicateWindow,
	)
	defer reconciler.Wait()
	deposits := service.NewDepositService(userRepo, transactionRepo, redisClient, parser)

	if cfg.ConsumeNotifications {
		consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.NotificationsTopic, cfg.KafkaGroupID, reconciler, producer)
		go consumer.Consume(ctx)
		defer consumer.Close()
		defer func() { <-consumer.Done() }()
	}

	reporter := scheduler.NewPendingReporter(transactionRepo)
	if err := reporter.Start(cfg.PendingReportSchedule); err == nil {
		defer func() { <-reporter.Stop().Done() }()
	}

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTTTL)
	router := api.SetupRouter(handler.NewHandler(reconciler, deposits), jwtService, metricsHandler)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("starting server", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	slog.Info("server stopped")
}
