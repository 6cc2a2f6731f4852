package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PlxloYzb/kbk-attendance-server/internal/model"
	"github.com/PlxloYzb/kbk-attendance-server/internal/repository"
	"github.com/PlxloYzb/kbk-attendance-server/internal/testutil"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/errors"
	"github.com/PlxloYzb/kbk-attendance-server/utils"
)

type captureNotifier struct {
	msgs []*model.SyncCompletedMessage
}

func (c *captureNotifier) PublishSyncCompleted(ctx context.Context, msg *model.SyncCompletedMessage) error {
	c.msgs = append(c.msgs, msg)
	return nil
}

func TestCheckCountVerdicts(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newTestSync(store)

	for i := 0; i < 3; i++ {
		store.SeedEvent(model.Checkin{
			UserID:    "u1",
			Action:    model.ActionIn,
			CreatedAt: at(8, i),
		})
	}

	cases := []struct {
		name   string
		local  int64
		action string
	}{
		{"equal counts", 3, SyncActionNone},
		{"client ahead", 5, SyncActionIncremental},
		{"client behind", 1, SyncActionFull},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := svc.CheckCount(context.Background(), "u1", tc.local)
			require.NoError(t, err)
			assert.Equal(t, tc.action, resp.Action)
			assert.Equal(t, int64(3), resp.ServerCount)
		})
	}
}

func TestSyncRetriesOnSessionConflict(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newTestSync(store)

	// First insert attempt loses the slot to a concurrent batch; the retry
	// runs against committed state and must succeed.
	conflicts := 1
	store.SessionInsertHook = func(sess *model.AttendanceSession) error {
		if conflicts > 0 {
			conflicts--
			return repository.ErrSessionConflict
		}
		return nil
	}

	n, err := svc.Sync(context.Background(), "u1", batch(in(at(8, 0)), out(at(17, 0))))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	sessions := daySessions(t, store, "u1", at(8, 0))
	require.Len(t, sessions, 1)

	count, err := store.Events().CountByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestSyncRetryExhaustion(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newTestSync(store)

	store.SessionInsertHook = func(sess *model.AttendanceSession) error {
		return repository.ErrSessionConflict
	}

	_, err := svc.Sync(context.Background(), "u1", batch(in(at(8, 0))))
	assert.ErrorIs(t, err, errors.SyncRetryExhausted)

	count, err := store.Events().CountByUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestSyncPublishesCompletionMessage(t *testing.T) {
	store := testutil.NewMemStore()
	notifier := &captureNotifier{}
	svc := NewSyncService(store, notifier, 16*time.Hour, 3)

	n, err := svc.Sync(context.Background(), "u1", batch(in(at(8, 0)), out(at(17, 0))))
	require.NoError(t, err)

	require.Len(t, notifier.msgs, 1)
	msg := notifier.msgs[0]
	assert.Equal(t, "u1", msg.UserID)
	assert.Equal(t, n, msg.SyncedCount)
	assert.Equal(t, []string{"2026-03-02"}, msg.Dates)
	assert.NotEmpty(t, msg.BatchID)
	assert.NotEmpty(t, msg.CompletedAt)
}

func TestFullHistoryOrdered(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newTestSync(store)

	store.SeedEvent(model.Checkin{UserID: "u1", Action: model.ActionOut, CreatedAt: at(17, 0)})
	store.SeedEvent(model.Checkin{UserID: "u1", Action: model.ActionIn, CreatedAt: at(8, 0)})
	store.SeedEvent(model.Checkin{UserID: "u2", Action: model.ActionIn, CreatedAt: at(9, 0)})

	events, err := svc.FullHistory(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, model.ActionIn, events[0].Action)
	assert.Equal(t, model.ActionOut, events[1].Action)
}

func TestRecomputeDates(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newTestSync(store)

	date := utils.DateOf(at(8, 0))
	checkout := at(12, 0)
	mins := 240
	store.SeedSession(model.AttendanceSession{
		UserID:          "u1",
		Date:            date,
		SessionNumber:   1,
		CheckinTime:     at(8, 0),
		CheckoutTime:    &checkout,
		DurationMinutes: &mins,
		IsComplete:      true,
	})

	require.NoError(t, svc.RecomputeDates(context.Background(), "u1", []string{"2026-03-02"}))

	sum, err := store.Summaries().GetByUserDate(context.Background(), "u1", date)
	require.NoError(t, err)
	assert.Equal(t, 240, sum.TotalWorkMinutes)
	assert.Equal(t, 1, sum.TotalSessions)
}

func TestRecomputeDatesRejectsBadDate(t *testing.T) {
	store := testutil.NewMemStore()
	svc := newTestSync(store)

	err := svc.RecomputeDates(context.Background(), "u1", []string{"03/02/2026"})
	assert.ErrorIs(t, err, errors.InvalidDate)
}
