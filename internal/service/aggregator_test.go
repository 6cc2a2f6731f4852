package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PlxloYzb/kbk-attendance-server/internal/model"
	"github.com/PlxloYzb/kbk-attendance-server/internal/repository"
	"github.com/PlxloYzb/kbk-attendance-server/internal/testutil"
	"github.com/PlxloYzb/kbk-attendance-server/utils"
)

func TestBuildSummaryFoldsSessions(t *testing.T) {
	date := utils.DateOf(at(0, 0))
	out1 := at(12, 0)
	out2 := at(17, 30)
	m1, m2 := 240, 270

	sum := BuildSummary("u1", date, []model.AttendanceSession{
		{CheckinTime: at(8, 0), CheckoutTime: &out1, DurationMinutes: &m1, IsComplete: true},
		{CheckinTime: at(13, 0), CheckoutTime: &out2, DurationMinutes: &m2, IsComplete: true},
	})

	require.NotNil(t, sum.FirstCheckinTime)
	assert.Equal(t, at(8, 0), *sum.FirstCheckinTime)
	require.NotNil(t, sum.LastCheckoutTime)
	assert.Equal(t, at(17, 30), *sum.LastCheckoutTime)
	assert.Equal(t, 510, sum.TotalWorkMinutes)
	assert.Equal(t, 2, sum.TotalSessions)
	assert.True(t, sum.IsComplete)
}

func TestBuildSummaryOpenSessionMarksIncomplete(t *testing.T) {
	date := utils.DateOf(at(0, 0))
	sum := BuildSummary("u1", date, []model.AttendanceSession{
		{CheckinTime: at(8, 0)},
	})

	assert.False(t, sum.IsComplete)
	assert.Nil(t, sum.LastCheckoutTime)
	assert.Equal(t, 0, sum.TotalWorkMinutes)
	assert.Equal(t, 1, sum.TotalSessions)
}

func TestRecomputeSummaryDeletesWhenDayEmptied(t *testing.T) {
	store := testutil.NewMemStore()
	date := utils.DateOf(at(0, 0))

	require.NoError(t, store.Summaries().Upsert(context.Background(), &model.AttendanceSummary{
		UserID:        "u1",
		Date:          date,
		TotalSessions: 1,
	}))

	require.NoError(t, RecomputeSummary(context.Background(), store, "u1", date))

	_, err := store.Summaries().GetByUserDate(context.Background(), "u1", date)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
