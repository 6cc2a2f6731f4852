package service

import (
	"context"
	"time"

	"github.com/PlxloYzb/kbk-attendance-server/internal/model"
	"github.com/PlxloYzb/kbk-attendance-server/internal/repository"
)

// BuildSummary folds one day's sessions into their summary row. Pure
// aggregation, safe to re-run any number of times over the same set.
func BuildSummary(userID string, date time.Time, sessions []model.AttendanceSession) model.AttendanceSummary {
	sum := model.AttendanceSummary{
		UserID:     userID,
		Date:       date,
		IsComplete: true,
	}

	for i := range sessions {
		s := &sessions[i]
		if sum.FirstCheckinTime == nil || s.CheckinTime.Before(*sum.FirstCheckinTime) {
			t := s.CheckinTime
			sum.FirstCheckinTime = &t
		}
		if s.CheckoutTime != nil &&
			(sum.LastCheckoutTime == nil || s.CheckoutTime.After(*sum.LastCheckoutTime)) {
			t := *s.CheckoutTime
			sum.LastCheckoutTime = &t
		}
		if s.DurationMinutes != nil {
			sum.TotalWorkMinutes += *s.DurationMinutes
		}
		if !s.IsComplete {
			sum.IsComplete = false
		}
	}

	sum.TotalSessions = len(sessions)
	return sum
}

// RecomputeSummary re-derives and upserts the summary for (user, date) from
// the sessions currently stored, deleting the row when the day has none left.
// Must run inside the same transaction as the session mutation it follows.
func RecomputeSummary(ctx context.Context, tx repository.Store, userID string, date time.Time) error {
	sessions, err := tx.Sessions().ListByUserDate(ctx, userID, date)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		return tx.Summaries().DeleteByUserDate(ctx, userID, date)
	}
	sum := BuildSummary(userID, date, sessions)
	return tx.Summaries().Upsert(ctx, &sum)
}
