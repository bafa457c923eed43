package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/T-Man-05/diacare-sub000/internal/assistant"
	"github.com/T-Man-05/diacare-sub000/internal/config"
	"github.com/T-Man-05/diacare-sub000/internal/database"
	"github.com/T-Man-05/diacare-sub000/internal/logger"
	"github.com/T-Man-05/diacare-sub000/internal/scheduler"
	"github.com/T-Man-05/diacare-sub000/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warn(".env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		logger.Fatalf("Failed to initialize logger: %v", err)
	}
	logger.Info("Starting DiaCare service")

	db, err := database.New(cfg.Storage)
	if err != nil {
		logger.Fatalf("Failed to open database: %v", err)
	}

	accountService := services.NewAccountService(db)
	profileService := services.NewProfileService(db)
	readingsService := services.NewReadingsService(db)
	reminderService := services.NewReminderService(db)
	aggregationService := services.NewAggregationService(accountService, profileService, readingsService, reminderService)
	logger.Info("Services initialized")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.GeminiAPIKey != "" {
		chat, err := assistant.New(ctx, cfg.GeminiAPIKey, aggregationService)
		if err != nil {
			logger.Fatalf("Failed to create assistant: %v", err)
		}
		defer chat.Close()
		logger.Info("AI assistant enabled")
	} else {
		logger.Info("AI assistant disabled, no API key configured")
	}

	sched, err := scheduler.New(reminderService)
	if err != nil {
		logger.Fatalf("Failed to create scheduler: %v", err)
	}

	// Catch up on any day boundary crossed while the service was down.
	if err := reminderService.ResetDailyStatuses(ctx); err != nil {
		logger.Error("Initial reminder reset failed", "error", err)
	}

	sched.Start()
	logger.Info("Service is running. Press Ctrl+C to stop.")

	<-ctx.Done()

	logger.Info("Shutting down")
	if err := sched.Stop(); err != nil {
		logger.Error("Scheduler shutdown failed", "error", err)
		os.Exit(1)
	}
}
