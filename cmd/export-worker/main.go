package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"budgetview/internal/amqp"
	"budgetview/internal/api"
	"budgetview/internal/cli"
	"budgetview/internal/session"
	gsheet "budgetview/internal/sheets/google"
	"budgetview/internal/worker"
)

func main() {
	logger := cli.SetupLogger()
	cli.LoadEnvFile()

	logger.Info("Starting export-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}
	if cfg.GoogleSpreadsheetID == "" {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for the export worker")
		os.Exit(1)
	}

	// The worker reads the persisted session so it calls the backend with the
	// same token the frontend obtained at login.
	storage := cli.InitSessionStorage(logger, cfg.SessionDBPath)
	defer storage.Close()

	sess := session.NewStore(context.Background(), storage)
	if !sess.LoggedIn() {
		logger.Warn("No persisted session token, backend fetches will fail until someone logs in")
	}

	client := api.NewClient(cfg.BackendURL, sess, logger)

	sheetsClient, err := gsheet.NewFromEnv(context.Background())
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	exportWorker := worker.NewExportWorker(client, sheetsClient)

	go func() {
		handler := func(msg *amqp.ExportRequestMessage) error {
			return exportWorker.HandleExportRequest(ctx, msg)
		}
		if err := amqpClient.ConsumeExportRequests(ctx, handler); err != nil {
			if err != context.Canceled {
				logger.Error("Message consumption failed", "error", err)
			}
			cancel()
		}
	}()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	logger.Info("Shutting down worker...")
	cancel()

	select {
	case <-shutdownCtx.Done():
		logger.Warn("Shutdown timeout reached")
	case <-time.After(5 * time.Second):
		logger.Info("Worker shutdown complete")
	}
}
