package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"go.uber.org/zap"

	"github.com/PlxloYzb/kbk-attendance-server/config"
	"github.com/PlxloYzb/kbk-attendance-server/internal/queue"
	"github.com/PlxloYzb/kbk-attendance-server/internal/repository"
	"github.com/PlxloYzb/kbk-attendance-server/internal/router"
	"github.com/PlxloYzb/kbk-attendance-server/internal/schedule"
	"github.com/PlxloYzb/kbk-attendance-server/internal/service"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/logger"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/snowflake"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/token"
	"github.com/PlxloYzb/kbk-attendance-server/storage"
	"github.com/PlxloYzb/kbk-attendance-server/storage/database"
	"github.com/PlxloYzb/kbk-attendance-server/storage/redis"
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

	// token before middleware, the admin middleware depends on it
	token.Init(
		redis.Client(),
		[]byte(config.Cfg.JWTSecret),
		redis.Key("admin:token"),
		time.Duration(config.Cfg.AdminTokenTTLMinutes)*time.Minute,
	)

	tokens, err := token.Default()
	if err != nil {
		logger.Logger.Fatal("Failed to initialize token store", zap.Error(err))
	}

	service.Init(
		repository.NewStore(database.DB()),
		queue.NewProducer(),
		tokens,
		service.Options{
			SessionWindow:  time.Duration(config.Cfg.MaxSessionWindowHours) * time.Hour,
			SyncRetries:    config.Cfg.SyncRetryAttempts,
			DefaultOnDuty:  config.Cfg.DefaultOnDutyTime,
			DefaultOffDuty: config.Cfg.DefaultOffDutyTime,
		},
	)

	// time-settings reconciler: once at startup, then on the interval
	go schedule.GetReconciler().Start(ctx,
		time.Duration(config.Cfg.ReconcileIntervalMinutes)*time.Minute)

	logger.Logger.Info("Server starting",
		zap.String("service", config.Cfg.ServiceName),
		zap.String("port", config.Cfg.ServerPort),
		zap.String("environment", config.Cfg.Environment),
	)

	addr := net.JoinHostPort(config.Cfg.ServerHost, config.Cfg.ServerPort)
	h := server.Default(server.WithHostPorts(addr))

	router.Register(h)

	go func() {
		<-ctx.Done()
		logger.Logger.Info("Initiating graceful shutdown...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := h.Shutdown(shutdownCtx); err != nil {
			logger.Logger.Error("Failed to shutdown HTTP server", zap.Error(err))
		}
	}()

	logger.Logger.Info("HTTP server listening", zap.String("addr", addr))

	h.Spin()

	logger.Logger.Info("Server shutting down gracefully")
}
