package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"budgetview/internal/amqp"
	"budgetview/internal/api"
	"budgetview/internal/cache"
	"budgetview/internal/cli"
	apphttp "budgetview/internal/http"
	"budgetview/internal/session"
)

func main() {
	logger := cli.SetupLogger()
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig(logger)

	storage := cli.InitSessionStorage(logger, cfg.SessionDBPath)
	defer storage.Close()

	sess := session.NewStore(context.Background(), storage)
	client := api.NewClient(cfg.BackendURL, sess, logger)

	opts := apphttp.Options{
		Logger:    logger,
		Settings:  storage,
		CacheSize: cfg.CacheSize,
		CacheTTL:  cfg.CacheTTL,
	}

	// Transaction export is optional: without a broker the app runs fine,
	// mutations just skip the export queue.
	if cfg.AMQPURL != "" {
		publisher, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, transaction export disabled", "error", err)
		} else {
			opts.Publisher = publisher
			defer publisher.Close()
			logger.Info("Transaction export enabled",
				"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	srv := apphttp.NewServer(":"+cfg.Port, client, sess, opts)

	manager := cache.NewManager(logger)
	for _, c := range srv.CacheCleaners() {
		manager.Register(c)
	}
	manager.StartCleanup(cfg.CacheTTL)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		srv.Close()
		manager.Stop()
	})

	logger.Info("Starting budgetview server", "port", cfg.Port, "backend_url", cfg.BackendURL)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
