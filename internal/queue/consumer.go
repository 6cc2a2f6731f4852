package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/PlxloYzb/kbk-attendance-server/internal/cache"
	"github.com/PlxloYzb/kbk-attendance-server/internal/model"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/logger"
	"github.com/PlxloYzb/kbk-attendance-server/storage/mq"
)

// SummaryRecomputer re-derives summaries for a set of day buckets. Satisfied
// by the sync service; kept as an interface here to avoid an import cycle.
type SummaryRecomputer interface {
	RecomputeDates(ctx context.Context, userID string, dates []string) error
}

var recomputer SummaryRecomputer

// SetRecomputer wires the service in at worker startup.
func SetRecomputer(r SummaryRecomputer) {
	recomputer = r
}

// StartSyncCompletedConsumer blocks consuming sync completion messages and
// replaying the summary recompute for each touched day. The recompute is
// idempotent, so redeliveries and duplicate messages are safe.
func StartSyncCompletedConsumer(ctx context.Context) error {
	handler := func(body []byte) error {
		var msg model.SyncCompletedMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal sync completed message: %w", err)
		}

		claimed, err := cache.TryMarkMessageProcessing(ctx, msg.MessageID, 24*time.Hour)
		if err != nil {
			logger.Logger.Warn("Failed to check message processed status",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
			// Proceed anyway, the recompute tolerates duplicates.
		} else if !claimed {
			logger.Logger.Info("Message already processed, skipping",
				zap.String("message_id", msg.MessageID),
				zap.String("batch_id", msg.BatchID),
			)
			return nil
		}

		if recomputer == nil {
			cache.UnmarkMessageProcessing(ctx, msg.MessageID)
			return fmt.Errorf("summary recomputer not initialized")
		}

		if err := recomputer.RecomputeDates(ctx, msg.UserID, msg.Dates); err != nil {
			cache.UnmarkMessageProcessing(ctx, msg.MessageID)
			return fmt.Errorf("failed to recompute summaries: %w", err)
		}

		if err := cache.MarkMessageProcessed(ctx, msg.MessageID, 48*time.Hour); err != nil {
			logger.Logger.Warn("Failed to mark message as processed",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		}

		logger.Logger.Info("Replayed summary recompute",
			zap.String("message_id", msg.MessageID),
			zap.String("user_id", msg.UserID),
			zap.Strings("dates", msg.Dates),
		)
		return nil
	}

	return mq.Consume(mq.ConsumeOptions{
		Queue:         mq.QueueSyncCompleted,
		ConsumerTag:   "sync_completed_consumer",
		PrefetchCount: 10,
		Handler:       handler,
	})
}
