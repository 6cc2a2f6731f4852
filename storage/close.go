package storage

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/PlxloYzb/kbk-attendance-server/pkg/logger"
	"github.com/PlxloYzb/kbk-attendance-server/storage/database"
	"github.com/PlxloYzb/kbk-attendance-server/storage/mq"
	"github.com/PlxloYzb/kbk-attendance-server/storage/redis"
)

// Close shuts the storage connections down in order: MQ first so no new
// messages arrive, then Redis, then the database last so in-flight writes
// can still land.
func Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Logger.Info("Closing storage connections...")

	if err := mq.Close(); err != nil {
		logger.Logger.Error("Failed to close message queue", zap.Error(err))
	}

	if err := redis.Close(ctx); err != nil {
		logger.Logger.Error("Failed to close Redis connection", zap.Error(err))
	}

	if err := database.Close(ctx); err != nil {
		logger.Logger.Error("Failed to close database connection", zap.Error(err))
	}

	logger.Logger.Info("All storage connections closed")
}
