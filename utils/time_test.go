package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOfBucketsByUTCDay(t *testing.T) {
	// 23:30 UTC-3 is 02:30 UTC the next day.
	loc := time.FixedZone("UTC-3", -3*3600)
	at := time.Date(2026, 3, 2, 23, 30, 0, 0, loc)

	got := DateOf(at)
	assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), got)
}

func TestDateOfIdempotent(t *testing.T) {
	at := time.Date(2026, 3, 2, 15, 4, 5, 0, time.UTC)
	assert.Equal(t, DateOf(at), DateOf(DateOf(at)))
}

func TestParseFormatDateRoundTrip(t *testing.T) {
	d, err := ParseDate("2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), d)
	assert.Equal(t, "2026-03-02", FormatDate(d))
}

func TestParseDateRejectsOtherLayouts(t *testing.T) {
	_, err := ParseDate("02/03/2026")
	assert.Error(t, err)

	_, err = ParseDate("2026-03-02T08:00:00Z")
	assert.Error(t, err)
}

func TestCombineDateTime(t *testing.T) {
	d := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	at, err := CombineDateTime(d, "08:30:15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 8, 30, 15, 0, time.UTC), at)

	// A non-midnight input still lands on the same calendar day.
	at, err = CombineDateTime(d.Add(13*time.Hour), "17:00:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC), at)

	_, err = CombineDateTime(d, "8:30")
	assert.Error(t, err)
}
