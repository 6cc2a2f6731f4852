package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PlxloYzb/kbk-attendance-server/internal/model"
	"github.com/PlxloYzb/kbk-attendance-server/internal/model/dto"
	"github.com/PlxloYzb/kbk-attendance-server/internal/testutil"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/errors"
	"github.com/PlxloYzb/kbk-attendance-server/utils"
)

func newTestSync(store *testutil.MemStore) *SyncService {
	return NewSyncService(store, nil, 16*time.Hour, 3)
}

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 2, hour, min, 0, 0, time.UTC)
}

func nextDay(hour, min int) time.Time {
	return time.Date(2026, 3, 3, hour, min, 0, 0, time.UTC)
}

func batch(events ...dto.CheckinData) []dto.CheckinData { return events }

func in(t time.Time) dto.CheckinData  { return dto.CheckinData{Action: "IN", CreatedAt: t} }
func out(t time.Time) dto.CheckinData { return dto.CheckinData{Action: "OUT", CreatedAt: t} }

func daySessions(t *testing.T, store *testutil.MemStore, userID string, date time.Time) []model.AttendanceSession {
	t.Helper()
	sessions, err := store.Sessions().ListByUserDate(context.Background(), userID, utils.DateOf(date))
	require.NoError(t, err)
	return sessions
}

func TestSyncPairsInAndOut(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newTestSync(store)

	n, err := svc.Sync(context.Background(), "u1", batch(in(at(8, 0)), out(at(17, 0))))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	sessions := daySessions(t, store, "u1", at(8, 0))
	require.Len(t, sessions, 1)
	s := sessions[0]
	assert.Equal(t, 1, s.SessionNumber)
	assert.Equal(t, at(8, 0), s.CheckinTime)
	require.NotNil(t, s.CheckoutTime)
	assert.Equal(t, at(17, 0), *s.CheckoutTime)
	require.NotNil(t, s.DurationMinutes)
	assert.Equal(t, 540, *s.DurationMinutes)
	assert.True(t, s.IsComplete)

	sum, err := store.Summaries().GetByUserDate(context.Background(), "u1", utils.DateOf(at(8, 0)))
	require.NoError(t, err)
	assert.Equal(t, 540, sum.TotalWorkMinutes)
	assert.Equal(t, 1, sum.TotalSessions)
	assert.True(t, sum.IsComplete)
}

func TestSyncMultipleSessionsSameDay(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newTestSync(store)

	_, err := svc.Sync(context.Background(), "u1", batch(
		in(at(8, 0)), out(at(12, 0)),
		in(at(13, 0)), out(at(17, 0)),
	))
	require.NoError(t, err)

	sessions := daySessions(t, store, "u1", at(8, 0))
	require.Len(t, sessions, 2)
	assert.Equal(t, 1, sessions[0].SessionNumber)
	assert.Equal(t, 2, sessions[1].SessionNumber)

	sum, err := store.Summaries().GetByUserDate(context.Background(), "u1", utils.DateOf(at(8, 0)))
	require.NoError(t, err)
	assert.Equal(t, 480, sum.TotalWorkMinutes)
	assert.Equal(t, 2, sum.TotalSessions)
	require.NotNil(t, sum.FirstCheckinTime)
	assert.Equal(t, at(8, 0), *sum.FirstCheckinTime)
	require.NotNil(t, sum.LastCheckoutTime)
	assert.Equal(t, at(17, 0), *sum.LastCheckoutTime)
}

func TestSyncMidnightCrossing(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newTestSync(store)

	// Shift straddles midnight: the OUT lands on the next calendar day but
	// must close the previous day's session, not mint a new one.
	_, err := svc.Sync(context.Background(), "u1", batch(in(at(23, 40)), out(nextDay(0, 10))))
	require.NoError(t, err)

	sessions := daySessions(t, store, "u1", at(23, 40))
	require.Len(t, sessions, 1)
	require.NotNil(t, sessions[0].CheckoutTime)
	assert.Equal(t, nextDay(0, 10), *sessions[0].CheckoutTime)
	require.NotNil(t, sessions[0].DurationMinutes)
	assert.Equal(t, 30, *sessions[0].DurationMinutes)

	assert.Empty(t, daySessions(t, store, "u1", nextDay(0, 10)))

	// The session belongs to the check-in's day, so only that day has a summary.
	_, err = store.Summaries().GetByUserDate(context.Background(), "u1", utils.DateOf(nextDay(0, 10)))
	assert.Error(t, err)
	sum, err := store.Summaries().GetByUserDate(context.Background(), "u1", utils.DateOf(at(23, 40)))
	require.NoError(t, err)
	assert.Equal(t, 30, sum.TotalWorkMinutes)
}

func TestSyncOrphanCheckout(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newTestSync(store)

	_, err := svc.Sync(context.Background(), "u1", batch(out(at(17, 0))))
	require.NoError(t, err)

	sessions := daySessions(t, store, "u1", at(17, 0))
	require.Len(t, sessions, 1)
	s := sessions[0]
	assert.Equal(t, at(17, 0), s.CheckinTime)
	require.NotNil(t, s.CheckoutTime)
	assert.Equal(t, at(17, 0), *s.CheckoutTime)
	require.NotNil(t, s.DurationMinutes)
	assert.Equal(t, 0, *s.DurationMinutes)
	assert.True(t, s.IsComplete)
}

func TestSyncOutBeyondWindowMintsOrphan(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newTestSync(store)

	_, err := svc.Sync(context.Background(), "u1", batch(in(at(6, 0))))
	require.NoError(t, err)

	// 24 hours later is past the 16h session window, so the stale open
	// session stays open and the OUT becomes an orphan on its own day.
	_, err = svc.Sync(context.Background(), "u1", batch(out(nextDay(6, 0))))
	require.NoError(t, err)

	prev := daySessions(t, store, "u1", at(6, 0))
	require.Len(t, prev, 1)
	assert.Nil(t, prev[0].CheckoutTime)

	cur := daySessions(t, store, "u1", nextDay(6, 0))
	require.Len(t, cur, 1)
	require.NotNil(t, cur[0].DurationMinutes)
	assert.Equal(t, 0, *cur[0].DurationMinutes)
}

func TestSyncDropsInWhileSessionOpen(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newTestSync(store)

	_, err := svc.Sync(context.Background(), "u1", batch(
		in(at(8, 0)), in(at(9, 0)), out(at(17, 0)),
	))
	require.NoError(t, err)

	sessions := daySessions(t, store, "u1", at(8, 0))
	require.Len(t, sessions, 1)
	assert.Equal(t, at(8, 0), sessions[0].CheckinTime)
}

func TestSyncRejectsInWhilePreviousDayOpen(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newTestSync(store)

	_, err := svc.Sync(context.Background(), "u1", batch(in(at(8, 0))))
	require.NoError(t, err)

	_, err = svc.Sync(context.Background(), "u1", batch(in(nextDay(8, 0))))
	assert.ErrorIs(t, err, errors.OpenSessionExists)

	// The rejected batch must leave no trace, including its raw events.
	count, err := store.Events().CountByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Empty(t, daySessions(t, store, "u1", nextDay(8, 0)))
}

func TestSyncReplayIsIdempotent(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newTestSync(store)

	events := batch(in(at(8, 0)), out(at(17, 0)))
	_, err := svc.Sync(context.Background(), "u1", events)
	require.NoError(t, err)

	_, err = svc.Sync(context.Background(), "u1", events)
	require.NoError(t, err)

	sessions := daySessions(t, store, "u1", at(8, 0))
	require.Len(t, sessions, 1)
	require.NotNil(t, sessions[0].DurationMinutes)
	assert.Equal(t, 540, *sessions[0].DurationMinutes)

	sum, err := store.Summaries().GetByUserDate(context.Background(), "u1", utils.DateOf(at(8, 0)))
	require.NoError(t, err)
	assert.Equal(t, 1, sum.TotalSessions)
}

func TestSyncOrderInsensitive(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newTestSync(store)

	// Devices may upload out of order; normalization sorts before matching.
	_, err := svc.Sync(context.Background(), "u1", batch(out(at(17, 0)), in(at(8, 0))))
	require.NoError(t, err)

	sessions := daySessions(t, store, "u1", at(8, 0))
	require.Len(t, sessions, 1)
	assert.Equal(t, at(8, 0), sessions[0].CheckinTime)
	require.NotNil(t, sessions[0].DurationMinutes)
	assert.Equal(t, 540, *sessions[0].DurationMinutes)
}

func TestSyncOutBeforeCheckinBecomesOrphan(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newTestSync(store)

	_, err := svc.Sync(context.Background(), "u1", batch(in(at(9, 0))))
	require.NoError(t, err)

	// An OUT predating the open session's check-in cannot close it.
	_, err = svc.Sync(context.Background(), "u1", batch(out(at(8, 0))))
	require.NoError(t, err)

	sessions := daySessions(t, store, "u1", at(8, 0))
	require.Len(t, sessions, 2)
	assert.Nil(t, sessions[0].CheckoutTime)
	require.NotNil(t, sessions[1].DurationMinutes)
	assert.Equal(t, 0, *sessions[1].DurationMinutes)
}
