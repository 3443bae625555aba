package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	valid := []string{"2024-01-05", "2024-02-29", "1999-12-31"}
	for _, day := range valid {
		_, err := ParseDay(day)
		assert.NoError(t, err, day)
	}

	invalid := []string{"", "2024-1-5", "2024-02-30", "2023-02-29", "2024-01-05T00:00:00Z", "05/01/2024", "2024-13-01", " 2024-01-05"}
	for _, day := range invalid {
		_, err := ParseDay(day)
		assert.ErrorIs(t, err, ErrInvalidInput, day)
	}
}

func TestPreviousDay(t *testing.T) {
	cases := map[string]string{
		"2024-01-06": "2024-01-05",
		"2024-03-01": "2024-02-29",
		"2023-03-01": "2023-02-28",
		"2024-01-01": "2023-12-31",
	}
	for day, want := range cases {
		got, err := PreviousDay(day)
		require.NoError(t, err)
		assert.Equal(t, want, got, day)
	}

	_, err := PreviousDay("yesterday")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDayResolverUsesConfiguredLocation(t *testing.T) {
	r, err := NewDayResolver("Asia/Kolkata")
	require.NoError(t, err)

	// 20:00 UTC is already the next day in India (UTC+5:30)
	r.now = func() time.Time { return time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC) }
	assert.Equal(t, "2024-03-02", r.Today())
	assert.Equal(t, "2024-03-01", DayKey(r.now()))
}

func TestDayResolverResolve(t *testing.T) {
	r, err := NewDayResolver("UTC")
	require.NoError(t, err)
	r.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

	day, err := r.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", day)

	day, err = r.Resolve("2024-02-10")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-10", day)

	_, err = r.Resolve("2024-2-10")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNewDayResolverRejectsUnknownZone(t *testing.T) {
	_, err := NewDayResolver("Mars/Olympus_Mons")
	assert.Error(t, err)
}
