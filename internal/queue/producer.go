package queue

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/PlxloYzb/kbk-attendance-server/internal/model"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/logger"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/snowflake"
	"github.com/PlxloYzb/kbk-attendance-server/storage/mq"
)

// Producer publishes pipeline notifications. Injected into services so the
// broker stays out of their tests.
type Producer interface {
	PublishSyncCompleted(ctx context.Context, msg *model.SyncCompletedMessage) error
}

type mqProducer struct{}

func NewProducer() Producer {
	return &mqProducer{}
}

func (p *mqProducer) PublishSyncCompleted(ctx context.Context, msg *model.SyncCompletedMessage) error {
	if msg.MessageID == "" {
		id, err := snowflake.NextID()
		if err != nil {
			return fmt.Errorf("failed to generate message ID: %w", err)
		}
		msg.MessageID = fmt.Sprintf("sync_completed_%d", id)
	}

	if err := mq.PublishMessage(mq.ExchangeAttendance, mq.RoutingKeySyncCompleted, msg); err != nil {
		logger.Logger.Error("Failed to publish sync completed message",
			zap.String("message_id", msg.MessageID),
			zap.String("user_id", msg.UserID),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("Published sync completed message",
		zap.String("message_id", msg.MessageID),
		zap.String("batch_id", msg.BatchID),
		zap.String("user_id", msg.UserID),
		zap.Int("synced_count", msg.SyncedCount),
	)
	return nil
}
