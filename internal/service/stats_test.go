package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PlxloYzb/kbk-attendance-server/internal/model"
	"github.com/PlxloYzb/kbk-attendance-server/internal/testutil"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/errors"
	"github.com/PlxloYzb/kbk-attendance-server/utils"
)

func newTestStats(store *testutil.MemStore) *StatsService {
	return NewStatsService(store, "07:30:00", "17:00:00")
}

func seedSummary(store *testutil.MemStore, userID string, day time.Time, checkin, checkout time.Time, complete bool) {
	sum := model.AttendanceSummary{
		UserID:           userID,
		Date:             utils.DateOf(day),
		FirstCheckinTime: &checkin,
		LastCheckoutTime: &checkout,
		TotalWorkMinutes: int(checkout.Sub(checkin).Minutes()),
		TotalSessions:    1,
		IsComplete:       complete,
	}
	_ = store.Summaries().Upsert(context.Background(), &sum)
}

func TestDailySessionsRejectsBadDate(t *testing.T) {
	svc := newTestStats(testutil.NewMemStore())

	_, err := svc.DailySessions(context.Background(), "u1", "02-03-2026")
	assert.ErrorIs(t, err, errors.InvalidDate)
}

func TestDailySessionsEmptyDay(t *testing.T) {
	svc := newTestStats(testutil.NewMemStore())

	resp, err := svc.DailySessions(context.Background(), "u1", "2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", resp.Date)
	assert.Empty(t, resp.Sessions)
	assert.Equal(t, 0, resp.Summary.TotalSessions)
	assert.False(t, resp.Summary.IsComplete)
}

func TestDailySessionsReturnsStoredDay(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newTestStats(store)

	date := utils.DateOf(at(0, 0))
	checkout := at(17, 0)
	mins := 540
	store.SeedSession(model.AttendanceSession{
		UserID:          "u1",
		Date:            date,
		SessionNumber:   1,
		CheckinTime:     at(8, 0),
		CheckoutTime:    &checkout,
		DurationMinutes: &mins,
		IsComplete:      true,
	})
	seedSummary(store, "u1", date, at(8, 0), checkout, true)

	resp, err := svc.DailySessions(context.Background(), "u1", "2026-03-02")
	require.NoError(t, err)
	require.Len(t, resp.Sessions, 1)
	assert.Equal(t, 540, resp.Summary.TotalWorkMinutes)
	assert.True(t, resp.Summary.IsComplete)
}

func TestMonthlyStatsRejectsBadMonth(t *testing.T) {
	svc := newTestStats(testutil.NewMemStore())

	_, err := svc.MonthlyStats(context.Background(), "u1", 2026, 13)
	assert.ErrorIs(t, err, errors.InvalidMonth)

	_, err = svc.MonthlyStats(context.Background(), "u1", 1999, 3)
	assert.ErrorIs(t, err, errors.InvalidMonth)
}

func TestMonthlyStatsFlagsLateAndEarlyLeave(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newTestStats(store)

	store.SeedTimeSetting(model.UserTimeSetting{
		UserID:      "u1",
		OnDutyTime:  "08:00:00",
		OffDutyTime: "17:00:00",
	})

	day1 := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	// day1: arrived 08:30 (late), left 17:30
	seedSummary(store, "u1", day1,
		day1.Add(8*time.Hour+30*time.Minute), day1.Add(17*time.Hour+30*time.Minute), true)
	// day2: arrived 07:50, left 16:00 (early)
	seedSummary(store, "u1", day2,
		day2.Add(7*time.Hour+50*time.Minute), day2.Add(16*time.Hour), true)

	resp, err := svc.MonthlyStats(context.Background(), "u1", 2026, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.AttendanceDays)
	assert.Equal(t, 1, resp.LateCount)
	assert.Equal(t, 1, resp.EarlyLeaveCount)
	require.Len(t, resp.Details, 2)
	assert.True(t, resp.Details[0].IsLate)
	assert.False(t, resp.Details[0].IsEarlyLeave)
	assert.False(t, resp.Details[1].IsLate)
	assert.True(t, resp.Details[1].IsEarlyLeave)
	assert.Equal(t, "2026-03-02", resp.Details[0].Date)
}

func TestMonthlyStatsFallsBackToDefaultWindow(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newTestStats(store)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	// 07:45 beats the 08:00 per-user window but not the 07:30 default.
	seedSummary(store, "u1", day,
		day.Add(7*time.Hour+45*time.Minute), day.Add(17*time.Hour+30*time.Minute), true)

	resp, err := svc.MonthlyStats(context.Background(), "u1", 2026, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.LateCount)
}

func TestMonthlyStatsIncompleteDayNeverEarlyLeave(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newTestStats(store)

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	seedSummary(store, "u1", day,
		day.Add(7*time.Hour), day.Add(12*time.Hour), false)

	resp, err := svc.MonthlyStats(context.Background(), "u1", 2026, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.EarlyLeaveCount)
}
