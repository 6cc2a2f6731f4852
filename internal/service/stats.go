package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/PlxloYzb/kbk-attendance-server/internal/model"
	"github.com/PlxloYzb/kbk-attendance-server/internal/model/dto"
	"github.com/PlxloYzb/kbk-attendance-server/internal/repository"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/errors"
	"github.com/PlxloYzb/kbk-attendance-server/utils"
)

// StatsService serves the read-only reporting queries. Late and early-leave
// flags come from the per-user duty window, falling back to the service-wide
// defaults when a user has no row yet.
type StatsService struct {
	store          repository.Store
	defaultOnDuty  string
	defaultOffDuty string
}

func NewStatsService(store repository.Store, defaultOnDuty, defaultOffDuty string) *StatsService {
	return &StatsService{
		store:          store,
		defaultOnDuty:  defaultOnDuty,
		defaultOffDuty: defaultOffDuty,
	}
}

func (s *StatsService) DailySessions(ctx context.Context, userID, dateStr string) (*dto.DailySessionsResponse, error) {
	date, err := utils.ParseDate(dateStr)
	if err != nil {
		return nil, errors.InvalidDate
	}

	sessions, err := s.store.Sessions().ListByUserDate(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	summary, err := s.store.Summaries().GetByUserDate(ctx, userID, date)
	if err != nil {
		if !stderrors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to load summary: %w", err)
		}
		empty := model.EmptySummary(userID, date)
		summary = &empty
	}

	if sessions == nil {
		sessions = []model.AttendanceSession{}
	}
	return &dto.DailySessionsResponse{
		Date:     dateStr,
		Sessions: sessions,
		Summary:  *summary,
	}, nil
}

func (s *StatsService) MonthlyStats(ctx context.Context, userID string, year, month int) (*dto.MonthlyStatsResponse, error) {
	if month < 1 || month > 12 || year < 2000 || year > 2100 {
		return nil, errors.InvalidMonth
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	summaries, err := s.store.Summaries().ListByUserRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}

	onDuty, offDuty := s.defaultOnDuty, s.defaultOffDuty
	if ts, err := s.store.TimeSettings().GetByUserID(ctx, userID); err == nil {
		onDuty, offDuty = ts.OnDutyTime, ts.OffDutyTime
	} else if !stderrors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to load time settings: %w", err)
	}

	resp := &dto.MonthlyStatsResponse{Details: make([]dto.DailyAttendance, 0, len(summaries))}
	for i := range summaries {
		sum := &summaries[i]

		onAt, err := utils.CombineDateTime(sum.Date, onDuty)
		if err != nil {
			return nil, fmt.Errorf("invalid on-duty time %q: %w", onDuty, err)
		}
		offAt, err := utils.CombineDateTime(sum.Date, offDuty)
		if err != nil {
			return nil, fmt.Errorf("invalid off-duty time %q: %w", offDuty, err)
		}

		late := sum.FirstCheckinTime != nil && sum.FirstCheckinTime.After(onAt)
		earlyLeave := sum.IsComplete && sum.LastCheckoutTime != nil && sum.LastCheckoutTime.Before(offAt)

		if late {
			resp.LateCount++
		}
		if earlyLeave {
			resp.EarlyLeaveCount++
		}
		resp.Details = append(resp.Details, dto.DailyAttendance{
			Date:             utils.FormatDate(sum.Date),
			CheckinTime:      sum.FirstCheckinTime,
			CheckoutTime:     sum.LastCheckoutTime,
			IsLate:           late,
			IsEarlyLeave:     earlyLeave,
			TotalWorkMinutes: sum.TotalWorkMinutes,
			TotalSessions:    sum.TotalSessions,
		})
	}
	resp.AttendanceDays = len(summaries)
	return resp, nil
}
