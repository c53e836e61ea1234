package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/travis-tran03/leetcode-jar/internal/api"
	"github.com/travis-tran03/leetcode-jar/internal/config"
	"github.com/travis-tran03/leetcode-jar/internal/core"
	"github.com/travis-tran03/leetcode-jar/internal/db"
	"github.com/travis-tran03/leetcode-jar/internal/logger"
	"github.com/travis-tran03/leetcode-jar/pkg/messagequeue"
)

func main() {
	// Load .env file. In production, environment variables should be set directly.
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil {
			log.Println("Warning: Error loading .env file:", err)
		}
	}

	// --- 1. Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to load application configuration: %v", err)
	}

	// --- 2. Logger ---
	zapLogger, err := logger.New(appConfig.LogLevel, strings.ToLower(appConfig.GinMode) != "release")
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- 3. Backend ---
	backend, err := db.SelectBackend(ctx, appConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: No usable backend", zap.Error(err))
	}
	if closer, ok := backend.(io.Closer); ok {
		defer closer.Close()
	}

	// --- 4. Change events (optional) ---
	var notifier core.Notifier = core.NopNotifier{}
	if appConfig.RabbitMQURL != "" {
		mq, err := messagequeue.NewRabbitMQService(messagequeue.NewRabbitMQServiceConfig{URL: appConfig.RabbitMQURL}, zapLogger)
		if err != nil {
			zapLogger.Warn("Change events disabled: RabbitMQ unavailable", zap.Error(err))
		} else {
			defer mq.Close()
			notifier = core.NewQueueNotifier(mq, appConfig.RabbitMQQueue)
			zapLogger.Info("Publishing change events", zap.String("queue", appConfig.RabbitMQQueue))
		}
	}

	// --- 5. Tracker ---
	tracker := core.NewTracker(backend, notifier, zapLogger)
	if err := tracker.Start(ctx); err != nil {
		zapLogger.Warn("Serving an empty jar until the backend answers", zap.Error(err))
	}

	// --- 6. HTTP server, stopped by SIGINT/SIGTERM ---
	if err := api.Serve(ctx, appConfig, zapLogger, tracker); err != nil {
		zapLogger.Error("HTTP server stopped", zap.Error(err))
	}
	stop()
	tracker.Wait()
}
