package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cimillas/ticketline/internal/app"
	"github.com/cimillas/ticketline/internal/clock"
	"github.com/cimillas/ticketline/internal/config"
	queuepg "github.com/cimillas/ticketline/internal/queue/postgres"
	"github.com/cimillas/ticketline/internal/storage/postgres"
	transporthttp "github.com/cimillas/ticketline/internal/transport/http"
	"github.com/cimillas/ticketline/internal/worker"
	"github.com/cimillas/ticketline/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	rootCmd := &cobra.Command{
		Use:           "ticketline",
		Short:         "event ticketing service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		apiCommand(),
		workerCommand(),
		seedCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		zap.NewExample().Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	return zap.NewProduction()
}

// openPool connects, pings, and applies migrations. Both the api and the
// worker call this; the migration applier's advisory lock keeps them from
// racing when they start together.
func openPool(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	startupCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(startupCtx); err != nil {
		pool.Close()
		return nil, err
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func apiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "api",
		Short: "run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			config.LoadEnvFile(logger)
			cfg := config.Load(logger)

			pool, err := openPool(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			eventRepo := postgres.NewEventRepository(pool)
			orderRepo := postgres.NewOrderRepository(pool)
			userRepo := postgres.NewUserRepository(pool)
			orderQueue := queuepg.New(pool, cfg.QueueName, queuepg.Options{
				VisibilityTimeout: cfg.QueueVisibility,
				MaxReceives:       cfg.QueueMaxReceives,
			})

			purchaseSvc := app.NewPurchaseService(eventRepo, orderRepo, orderQueue, clock.NewSystem())
			orderSvc := app.NewOrderService(orderRepo)
			eventSvc := app.NewEventService(eventRepo)
			authSvc := app.NewAuthService(userRepo)

			mux := http.NewServeMux()
			mux.HandleFunc("/health", transporthttp.HealthHandler)
			mux.Handle("/register", transporthttp.HandleRegister(authSvc))
			mux.Handle("/login", transporthttp.HandleLogin(authSvc))
			mux.Handle("/events", transporthttp.HandleListEvents(eventSvc))
			mux.Handle("/events/", transporthttp.HandleEventDetail(eventSvc))
			mux.Handle("/purchase", transporthttp.HandlePurchase(purchaseSvc))
			mux.Handle("/orders", transporthttp.HandleListOrders(orderSvc))
			mux.Handle("/orders/", transporthttp.HandleOrderDetail(orderSvc))
			mux.Handle("/", transporthttp.NotFoundHandler())

			handler := transporthttp.RequestLogger(transporthttp.CORS(cfg.CORSOrigins, mux), logger)

			server := &http.Server{
				Addr:    ":" + cfg.Port,
				Handler: handler,
			}

			logger.Info("api listening", zap.String("port", cfg.Port))

			srvErr := make(chan error, 1)
			go func() {
				srvErr <- server.ListenAndServe()
			}()

			stopCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			select {
			case err := <-srvErr:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server error", zap.Error(err))
				}
			case <-stopCtx.Done():
				logger.Info("shutdown signal received, stopping server")
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer shutdownCancel()
			if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("server shutdown error", zap.Error(err))
			}
			logger.Info("server stopped")
			return nil
		},
	}
}

func workerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "run the order confirmation worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			config.LoadEnvFile(logger)
			cfg := config.Load(logger)

			pool, err := openPool(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			orderRepo := postgres.NewOrderRepository(pool)
			orderSvc := app.NewOrderService(orderRepo)
			orderQueue := queuepg.New(pool, cfg.QueueName, queuepg.Options{
				VisibilityTimeout: cfg.QueueVisibility,
				MaxReceives:       cfg.QueueMaxReceives,
			})

			consumer := worker.NewConsumer(orderQueue, orderSvc, logger,
				worker.WithBatchSize(cfg.WorkerBatchSize),
				worker.WithPollInterval(cfg.WorkerPollInterval),
			)

			stopCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("worker started",
				zap.String("queue", cfg.QueueName),
				zap.Int("batchSize", cfg.WorkerBatchSize),
			)

			if err := consumer.Run(stopCtx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			logger.Info("worker stopped")
			return nil
		},
	}
}
