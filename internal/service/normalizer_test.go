package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PlxloYzb/kbk-attendance-server/internal/model"
	"github.com/PlxloYzb/kbk-attendance-server/internal/model/dto"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/errors"
)

func TestNormalizeBatchRejectsEmpty(t *testing.T) {
	_, err := NormalizeBatch(nil)
	assert.ErrorIs(t, err, errors.EmptyBatch)

	_, err = NormalizeBatch([]dto.CheckinData{})
	assert.ErrorIs(t, err, errors.EmptyBatch)
}

func TestNormalizeBatchRejectsInvalidAction(t *testing.T) {
	_, err := NormalizeBatch([]dto.CheckinData{
		{Action: "PAUSE", CreatedAt: time.Now()},
	})
	assert.ErrorIs(t, err, errors.InvalidAction)
}

func TestNormalizeBatchRejectsZeroTimestamp(t *testing.T) {
	_, err := NormalizeBatch([]dto.CheckinData{
		{Action: "IN"},
	})
	assert.ErrorIs(t, err, errors.InvalidTimestamp)
}

func TestNormalizeBatchCanonicalizesActions(t *testing.T) {
	events, err := NormalizeBatch([]dto.CheckinData{
		{Action: "  in ", CreatedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)},
		{Action: "out", CreatedAt: time.Date(2026, 3, 1, 17, 0, 0, 0, time.UTC)},
	})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, model.ActionIn, events[0].Action)
	assert.Equal(t, model.ActionOut, events[1].Action)
}

func TestNormalizeBatchSortsByInstant(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	events, err := NormalizeBatch([]dto.CheckinData{
		{Action: "OUT", CreatedAt: time.Date(2026, 3, 1, 17, 0, 0, 0, time.UTC)},
		{Action: "IN", CreatedAt: time.Date(2026, 3, 1, 16, 0, 0, 0, loc)},
	})
	require.NoError(t, err)
	require.Len(t, events, 2)
	// 16:00 UTC+8 is 08:00 UTC, so the IN sorts first and comes out in UTC.
	assert.Equal(t, model.ActionIn, events[0].Action)
	assert.Equal(t, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC), events[0].At)
	assert.Equal(t, time.UTC, events[0].At.Location())
}

func TestNormalizeBatchStableForEqualInstants(t *testing.T) {
	at := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	events, err := NormalizeBatch([]dto.CheckinData{
		{Action: "IN", CreatedAt: at},
		{Action: "OUT", CreatedAt: at},
	})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, model.ActionIn, events[0].Action)
	assert.Equal(t, model.ActionOut, events[1].Action)
}
