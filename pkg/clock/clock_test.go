package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCivilTodayUsesFixedOffset(t *testing.T) {
	// 23:30 UTC is already 07:30 the next day at UTC+8.
	at := time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC)
	c := NewCivilAt(8, at)

	today := c.Today()
	require.Equal(t, 2024, today.Year())
	require.Equal(t, time.March, today.Month())
	require.Equal(t, 2, today.Day())
	require.Equal(t, "Saturday", c.Weekday(c.Now()))
}

func TestCivilCombine(t *testing.T) {
	c := NewCivil(8)
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, c.Location())

	at, err := c.Combine(day, "09:00")
	require.NoError(t, err)
	require.Equal(t, 9, at.Hour())
	require.Equal(t, 0, at.Minute())

	at, err = c.Combine(day, "14:30:15")
	require.NoError(t, err)
	require.Equal(t, 14, at.Hour())
	require.Equal(t, 30, at.Minute())
	require.Equal(t, 15, at.Second())

	_, err = c.Combine(day, "not-a-time")
	require.Error(t, err)
}

func TestCivilDayBoundaries(t *testing.T) {
	c := NewCivil(8)
	day := time.Date(2024, 3, 1, 13, 45, 0, 0, c.Location())

	start := c.StartOfDay(day)
	require.Equal(t, 0, start.Hour())
	require.Equal(t, 0, start.Minute())
	require.Equal(t, 0, start.Second())

	end := c.EndOfDay(day)
	require.Equal(t, 23, end.Hour())
	require.Equal(t, 59, end.Minute())
	require.Equal(t, 59, end.Second())
	require.True(t, end.After(start))
}
