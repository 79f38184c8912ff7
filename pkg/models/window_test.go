package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmbook-io/farmbook-engine/pkg/apperrors"
)

func TestNewWindow_RejectsInvertedRange(t *testing.T) {
	from := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 5, 9, 0, 0, 0, 0, time.UTC)

	_, err := NewWindow(from, to)
	assert.ErrorIs(t, err, apperrors.ErrInvalidWindow)
}

func TestNewWindow_ComparesDatesOnly(t *testing.T) {
	// Later time of day on the same calendar day is still a valid window.
	from := time.Date(2026, 5, 10, 23, 59, 0, 0, time.UTC)
	to := time.Date(2026, 5, 10, 0, 1, 0, 0, time.UTC)

	w, err := NewWindow(from, to)
	require.NoError(t, err)
	assert.Len(t, w.Days(), 1)
}

func TestWindow_DaysAreInclusiveOnBothEnds(t *testing.T) {
	w, err := NewWindow(
		time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC),
		time.Date(2026, 5, 12, 20, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	days := w.Days()
	require.Len(t, days, 3)
	assert.Equal(t, "2026-05-10", DateKey(days[0]))
	assert.Equal(t, "2026-05-11", DateKey(days[1]))
	assert.Equal(t, "2026-05-12", DateKey(days[2]))

	for _, d := range days {
		assert.Equal(t, 0, d.Hour(), "days are normalized to midnight UTC")
	}
}

func TestWindow_DaysCrossesMonthBoundary(t *testing.T) {
	w, err := NewWindow(
		time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	assert.Len(t, w.Days(), 4) // 2026 is not a leap year
}

func TestWindow_ContainsDay(t *testing.T) {
	w, err := NewWindow(
		time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	assert.True(t, w.ContainsDay(time.Date(2026, 5, 10, 0, 0, 1, 0, time.UTC)))
	assert.True(t, w.ContainsDay(time.Date(2026, 5, 12, 23, 59, 59, 0, time.UTC)))
	assert.False(t, w.ContainsDay(time.Date(2026, 5, 9, 23, 59, 59, 0, time.UTC)))
	assert.False(t, w.ContainsDay(time.Date(2026, 5, 13, 0, 0, 0, 0, time.UTC)))
}

func TestAllTime(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	w := AllTime(start)

	assert.Equal(t, start, w.From)
	assert.True(t, w.ContainsDay(time.Now()))
}

func TestDateKey(t *testing.T) {
	assert.Equal(t, "2026-05-10", DateKey(time.Date(2026, 5, 10, 23, 45, 0, 0, time.UTC)))
}
