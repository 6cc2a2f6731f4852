package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/PlxloYzb/kbk-attendance-server/internal/model/dto"
	"github.com/PlxloYzb/kbk-attendance-server/internal/repository"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/errors"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/logger"
	"github.com/PlxloYzb/kbk-attendance-server/utils"
)

// AdminService implements the override operations that bypass the matcher.
// Every mutation still recomputes the affected day's summary in the same
// transaction, keeping the derivation invariant intact.
type AdminService struct {
	store repository.Store
	sync  *SyncService
}

func NewAdminService(store repository.Store, sync *SyncService) *AdminService {
	return &AdminService{store: store, sync: sync}
}

// CreateCheckin submits one event on a user's behalf through the regular
// sync pipeline, so sessions and summaries stay consistent.
func (s *AdminService) CreateCheckin(ctx context.Context, req *dto.AdminCheckinRequest) (int, error) {
	at, err := time.Parse(time.RFC3339, req.CreatedAt)
	if err != nil {
		return 0, errors.InvalidTimestamp
	}
	return s.sync.Sync(ctx, req.UserID, []dto.CheckinData{{
		Action:    req.Action,
		CreatedAt: at,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}})
}

func (s *AdminService) DeleteEvent(ctx context.Context, id int64) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		ev, err := tx.Events().Get(ctx, id)
		if err != nil {
			if stderrors.Is(err, repository.ErrNotFound) {
				return errors.EventNotFound
			}
			return fmt.Errorf("failed to load event: %w", err)
		}
		if err := tx.Events().Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete event: %w", err)
		}

		logger.Logger.Info("Admin deleted checkin event",
			zap.Int64("event_id", id),
			zap.String("user_id", ev.UserID),
		)
		return RecomputeSummary(ctx, tx, ev.UserID, utils.DateOf(ev.CreatedAt))
	})
}

func (s *AdminService) DeleteSession(ctx context.Context, id int64) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		sess, err := tx.Sessions().Get(ctx, id)
		if err != nil {
			if stderrors.Is(err, repository.ErrNotFound) {
				return errors.SessionNotFound
			}
			return fmt.Errorf("failed to load session: %w", err)
		}
		if err := tx.Sessions().Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}

		logger.Logger.Info("Admin deleted session",
			zap.Int64("session_id", id),
			zap.String("user_id", sess.UserID),
			zap.Int("session_number", sess.SessionNumber),
		)
		return RecomputeSummary(ctx, tx, sess.UserID, sess.Date)
	})
}
