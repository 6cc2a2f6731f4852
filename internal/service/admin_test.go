package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PlxloYzb/kbk-attendance-server/internal/model"
	"github.com/PlxloYzb/kbk-attendance-server/internal/model/dto"
	"github.com/PlxloYzb/kbk-attendance-server/internal/repository"
	"github.com/PlxloYzb/kbk-attendance-server/internal/testutil"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/errors"
	"github.com/PlxloYzb/kbk-attendance-server/utils"
)

func newTestAdmin(store *testutil.MemStore) *AdminService {
	return NewAdminService(store, newTestSync(store))
}

func TestAdminCreateCheckinRoutesThroughSync(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newTestAdmin(store)

	n, err := svc.CreateCheckin(context.Background(), &dto.AdminCheckinRequest{
		UserID:    "u1",
		Action:    "IN",
		CreatedAt: "2026-03-02T08:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = svc.CreateCheckin(context.Background(), &dto.AdminCheckinRequest{
		UserID:    "u1",
		Action:    "OUT",
		CreatedAt: "2026-03-02T17:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	sessions := daySessions(t, store, "u1", at(8, 0))
	require.Len(t, sessions, 1)
	require.NotNil(t, sessions[0].DurationMinutes)
	assert.Equal(t, 540, *sessions[0].DurationMinutes)
}

func TestAdminCreateCheckinRejectsBadTimestamp(t *testing.T) {
	svc := newTestAdmin(testutil.NewMemStore())

	_, err := svc.CreateCheckin(context.Background(), &dto.AdminCheckinRequest{
		UserID:    "u1",
		Action:    "IN",
		CreatedAt: "yesterday at noon",
	})
	assert.ErrorIs(t, err, errors.InvalidTimestamp)
}

func TestAdminDeleteEventRecomputesSummary(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newTestAdmin(store)

	ev := store.SeedEvent(model.Checkin{
		UserID:    "u1",
		Action:    model.ActionOut,
		CreatedAt: at(17, 0),
	})

	require.NoError(t, svc.DeleteEvent(context.Background(), ev.ID))

	_, err := store.Events().Get(context.Background(), ev.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAdminDeleteEventNotFound(t *testing.T) {
	svc := newTestAdmin(testutil.NewMemStore())

	err := svc.DeleteEvent(context.Background(), 42)
	assert.ErrorIs(t, err, errors.EventNotFound)
}

func TestAdminDeleteSessionRemovesSummary(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newTestAdmin(store)

	date := utils.DateOf(at(0, 0))
	checkout := at(17, 0)
	mins := 540
	sess := store.SeedSession(model.AttendanceSession{
		UserID:          "u1",
		Date:            date,
		SessionNumber:   1,
		CheckinTime:     at(8, 0),
		CheckoutTime:    &checkout,
		DurationMinutes: &mins,
		IsComplete:      true,
	})
	require.NoError(t, store.Summaries().Upsert(context.Background(), &model.AttendanceSummary{
		UserID: "u1", Date: date, TotalSessions: 1, TotalWorkMinutes: 540,
	}))

	require.NoError(t, svc.DeleteSession(context.Background(), sess.ID))

	// Deleting the day's only session must also drop its summary row.
	_, err := store.Summaries().GetByUserDate(context.Background(), "u1", date)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestAdminDeleteSessionNotFound(t *testing.T) {
	svc := newTestAdmin(testutil.NewMemStore())

	err := svc.DeleteSession(context.Background(), 42)
	assert.ErrorIs(t, err, errors.SessionNotFound)
}

func TestAdminCreateCheckinHonorsWindow(t *testing.T) {
	store := testutil.NewMemStore()
	sync := NewSyncService(store, nil, time.Hour, 1)
	svc := NewAdminService(store, sync)

	_, err := svc.CreateCheckin(context.Background(), &dto.AdminCheckinRequest{
		UserID: "u1", Action: "IN", CreatedAt: "2026-03-02T22:00:00Z",
	})
	require.NoError(t, err)

	// With a one-hour window the next-day OUT is too far away to close the
	// open session and lands as an orphan instead.
	_, err = svc.CreateCheckin(context.Background(), &dto.AdminCheckinRequest{
		UserID: "u1", Action: "OUT", CreatedAt: "2026-03-03T06:00:00Z",
	})
	require.NoError(t, err)

	prev := daySessions(t, store, "u1", at(22, 0))
	require.Len(t, prev, 1)
	assert.Nil(t, prev[0].CheckoutTime)
}
