package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/PlxloYzb/kbk-attendance-server/config"
	"github.com/PlxloYzb/kbk-attendance-server/internal/queue"
	"github.com/PlxloYzb/kbk-attendance-server/internal/repository"
	"github.com/PlxloYzb/kbk-attendance-server/internal/service"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/logger"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/snowflake"
	"github.com/PlxloYzb/kbk-attendance-server/storage"
	"github.com/PlxloYzb/kbk-attendance-server/storage/database"
)

func main() {
	config.MustValidate()
	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer storage.Close()

	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake", zap.Error(err))
	}

	// The worker only replays summary recomputes, it never publishes.
	service.Init(
		repository.NewStore(database.DB()),
		nil,
		nil,
		service.Options{
			SessionWindow:  time.Duration(config.Cfg.MaxSessionWindowHours) * time.Hour,
			SyncRetries:    config.Cfg.SyncRetryAttempts,
			DefaultOnDuty:  config.Cfg.DefaultOnDutyTime,
			DefaultOffDuty: config.Cfg.DefaultOffDutyTime,
		},
	)
	queue.SetRecomputer(service.Sync())

	logger.Logger.Info("Worker service starting",
		zap.String("service", config.Cfg.ServiceName+"-worker"),
		zap.String("environment", config.Cfg.Environment),
	)

	go func() {
		if err := queue.StartSyncCompletedConsumer(ctx); err != nil {
			logger.Logger.Error("Consumer exited with error", zap.Error(err))
			cancel()
		}
	}()

	// The consumer only stops when the MQ connection closes, which the
	// deferred storage.Close takes care of after the signal lands.
	<-ctx.Done()

	logger.Logger.Info("Worker service shutting down gracefully")
}
