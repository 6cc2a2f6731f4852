package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PlxloYzb/kbk-attendance-server/internal/model"
	"github.com/PlxloYzb/kbk-attendance-server/internal/testutil"
)

func TestEnsureDefaultsBackfillsMissingRows(t *testing.T) {
	store := testutil.NewMemStore()
	store.SeedUser(model.UserInfo{UserID: "u1", Passkey: "a"})
	store.SeedUser(model.UserInfo{UserID: "u2", Passkey: "b"})
	store.SeedUser(model.UserInfo{UserID: "u3", Passkey: "c"})
	store.SeedTimeSetting(model.UserTimeSetting{UserID: "u1", OnDutyTime: "06:00:00", OffDutyTime: "14:00:00"})

	svc := NewReconcileService(store, "07:30:00", "17:00:00")

	n, err := svc.EnsureDefaults(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// Existing rows keep their custom window.
	ts, err := store.TimeSettings().GetByUserID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "06:00:00", ts.OnDutyTime)

	ts, err = store.TimeSettings().GetByUserID(context.Background(), "u2")
	require.NoError(t, err)
	assert.Equal(t, "07:30:00", ts.OnDutyTime)
	assert.Equal(t, "17:00:00", ts.OffDutyTime)

	// Second pass finds nothing to do.
	n, err = svc.EnsureDefaults(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestReconcileStatus(t *testing.T) {
	store := testutil.NewMemStore()
	store.SeedUser(model.UserInfo{UserID: "u1", Passkey: "a"})
	store.SeedUser(model.UserInfo{UserID: "u2", Passkey: "b"})
	store.SeedTimeSetting(model.UserTimeSetting{UserID: "u1", OnDutyTime: "07:30:00", OffDutyTime: "17:00:00"})

	svc := NewReconcileService(store, "07:30:00", "17:00:00")

	status, err := svc.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), status.TotalUsers)
	assert.Equal(t, int64(1), status.UsersWithTimeSetting)
	assert.Equal(t, int64(1), status.MissingCount)
	assert.False(t, status.IsSynced)

	_, err = svc.EnsureDefaults(context.Background())
	require.NoError(t, err)

	status, err = svc.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, status.IsSynced)
	assert.Equal(t, int64(0), status.MissingCount)
}
