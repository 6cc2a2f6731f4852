package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/PlxloYzb/kbk-attendance-server/internal/model"
	"github.com/PlxloYzb/kbk-attendance-server/internal/model/dto"
	"github.com/PlxloYzb/kbk-attendance-server/internal/repository"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/errors"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/logger"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/snowflake"
	"github.com/PlxloYzb/kbk-attendance-server/utils"
)

// Count-check verdicts.
const (
	SyncActionNone        = "none"
	SyncActionIncremental = "incremental"
	SyncActionFull        = "full"
)

// Notifier publishes a post-commit signal for each accepted batch. Satisfied
// by the queue producer; nil disables notification.
type Notifier interface {
	PublishSyncCompleted(ctx context.Context, msg *model.SyncCompletedMessage) error
}

// SyncService coordinates the count-check, incremental sync and full sync
// operations. Each incremental batch runs normalizer, matcher and aggregator
// inside one transaction; a session-number conflict with a concurrent batch
// rolls everything back and retries from scratch.
type SyncService struct {
	store    repository.Store
	producer Notifier
	window   time.Duration
	retries  int
}

func NewSyncService(store repository.Store, producer Notifier, window time.Duration, retries int) *SyncService {
	if retries < 1 {
		retries = 1
	}
	return &SyncService{
		store:    store,
		producer: producer,
		window:   window,
		retries:  retries,
	}
}

// CheckCount compares the client's local event count against the server's.
// Equal counts need nothing, a client ahead should push incrementally, a
// client behind must rebuild from full history. Heuristic only: equal counts
// do not prove equal sets.
func (s *SyncService) CheckCount(ctx context.Context, userID string, localCount int64) (*dto.CountResponse, error) {
	serverCount, err := s.store.Events().CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}

	action := SyncActionNone
	switch {
	case serverCount == localCount:
		action = SyncActionNone
	case serverCount < localCount:
		action = SyncActionIncremental
	default:
		action = SyncActionFull
	}

	return &dto.CountResponse{Action: action, ServerCount: serverCount}, nil
}

// Sync applies one incremental batch atomically and returns how many events
// were accepted.
func (s *SyncService) Sync(ctx context.Context, userID string, batch []dto.CheckinData) (int, error) {
	events, err := NormalizeBatch(batch)
	if err != nil {
		return 0, err
	}

	var dates []time.Time
	var lastErr error
	for attempt := 1; attempt <= s.retries; attempt++ {
		lastErr = s.store.Transaction(ctx, func(tx repository.Store) error {
			rows := make([]*model.Checkin, len(events))
			for i, ev := range events {
				rows[i] = &model.Checkin{
					UserID:    userID,
					Action:    ev.Action,
					CreatedAt: ev.At,
					Latitude:  ev.Latitude,
					Longitude: ev.Longitude,
					IsSynced:  1,
				}
			}
			if err := tx.Events().Insert(ctx, rows); err != nil {
				return fmt.Errorf("failed to insert events: %w", err)
			}

			matcher := newSessionMatcher(tx, userID, s.window)
			touched, err := matcher.Apply(ctx, events)
			if err != nil {
				return err
			}

			for _, d := range touched {
				if err := RecomputeSummary(ctx, tx, userID, d); err != nil {
					return fmt.Errorf("failed to recompute summary: %w", err)
				}
			}

			dates = touched
			return nil
		})
		if lastErr == nil {
			break
		}
		if !stderrors.Is(lastErr, repository.ErrSessionConflict) {
			return 0, lastErr
		}
		logger.Logger.Warn("Retrying sync batch after session conflict",
			zap.String("user_id", userID),
			zap.Int("attempt", attempt),
		)
	}
	if lastErr != nil {
		return 0, errors.SyncRetryExhausted
	}

	s.notifySyncCompleted(ctx, userID, dates, len(events))
	return len(events), nil
}

// FullHistory returns every stored event for the user, ordered by instant,
// so a client can rebuild its local state from scratch.
func (s *SyncService) FullHistory(ctx context.Context, userID string) ([]model.Checkin, error) {
	return s.store.Events().ListByUser(ctx, userID)
}

// RecomputeDates re-derives the summary for each YYYY-MM-DD bucket in one
// transaction. Used by the worker and by administrative overrides.
func (s *SyncService) RecomputeDates(ctx context.Context, userID string, dates []string) error {
	parsed := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		t, err := utils.ParseDate(d)
		if err != nil {
			return errors.InvalidDate
		}
		parsed = append(parsed, t)
	}

	return s.store.Transaction(ctx, func(tx repository.Store) error {
		for _, d := range parsed {
			if err := RecomputeSummary(ctx, tx, userID, d); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SyncService) notifySyncCompleted(ctx context.Context, userID string, dates []time.Time, count int) {
	if s.producer == nil || len(dates) == 0 {
		return
	}

	batchID, err := snowflake.NextID()
	if err != nil {
		logger.Logger.Warn("Failed to generate batch ID", zap.Error(err))
		return
	}

	ds := make([]string, len(dates))
	for i, d := range dates {
		ds[i] = utils.FormatDate(d)
	}

	msg := &model.SyncCompletedMessage{
		BatchID:     fmt.Sprintf("sync_%d", batchID),
		UserID:      userID,
		Dates:       ds,
		SyncedCount: count,
		CompletedAt: time.Now().UTC().Format(time.RFC3339),
	}
	// The batch is already committed; a publish failure only delays the
	// worker's replay, it never unwinds the sync.
	if err := s.producer.PublishSyncCompleted(ctx, msg); err != nil {
		logger.Logger.Warn("Failed to publish sync completed message",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
}
