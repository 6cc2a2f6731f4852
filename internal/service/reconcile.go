package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/PlxloYzb/kbk-attendance-server/internal/model/dto"
	"github.com/PlxloYzb/kbk-attendance-server/internal/repository"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/logger"
)

// ReconcileService guarantees every known user has a duty-window row. The
// matcher never reads these rows, only reporting does, so failures here are
// logged and retried on the next tick instead of stopping anything.
type ReconcileService struct {
	store   repository.Store
	onDuty  string
	offDuty string
}

func NewReconcileService(store repository.Store, onDuty, offDuty string) *ReconcileService {
	return &ReconcileService{store: store, onDuty: onDuty, offDuty: offDuty}
}

// EnsureDefaults backfills a default time-settings row for every user missing
// one and returns how many rows it created.
func (s *ReconcileService) EnsureDefaults(ctx context.Context) (int64, error) {
	n, err := s.store.TimeSettings().InsertDefaults(ctx, s.onDuty, s.offDuty)
	if err != nil {
		return 0, fmt.Errorf("failed to insert default time settings: %w", err)
	}
	if n > 0 {
		logger.Logger.Info("Backfilled default time settings",
			zap.Int64("inserted", n),
			zap.String("on_duty", s.onDuty),
			zap.String("off_duty", s.offDuty),
		)
	}
	return n, nil
}

func (s *ReconcileService) Status(ctx context.Context) (*dto.ReconcileStatus, error) {
	total, err := s.store.Users().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	withSettings, err := s.store.TimeSettings().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count time settings: %w", err)
	}
	missing, err := s.store.TimeSettings().MissingCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count missing time settings: %w", err)
	}

	return &dto.ReconcileStatus{
		TotalUsers:           total,
		UsersWithTimeSetting: withSettings,
		IsSynced:             missing == 0,
		MissingCount:         missing,
	}, nil
}
