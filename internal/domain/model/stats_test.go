package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeFilter(t *testing.T) {
	assert.Equal(t, FilterToday, ParseTimeFilter("today"))
	assert.Equal(t, FilterLast7Days, ParseTimeFilter("last_7_days"))
	assert.Equal(t, FilterLast30Days, ParseTimeFilter("last_30_days"))
	assert.Equal(t, FilterAllTime, ParseTimeFilter(""))
	assert.Equal(t, FilterAllTime, ParseTimeFilter("yesterday"))
}

func TestTimeFilterContains(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	t.Run("today", func(t *testing.T) {
		assert.True(t, FilterToday.Contains(now.Add(-time.Hour), now))
		assert.True(t, FilterToday.Contains(time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), now))
		assert.False(t, FilterToday.Contains(now.AddDate(0, 0, -1), now))
	})

	t.Run("last 7 days", func(t *testing.T) {
		assert.True(t, FilterLast7Days.Contains(now.AddDate(0, 0, -6), now))
		// граница окна: ровно 7 дней от начала текущего дня
		assert.True(t, FilterLast7Days.Contains(time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC), now))
		assert.False(t, FilterLast7Days.Contains(time.Date(2026, 8, 22, 23, 59, 59, 0, time.UTC), now))
	})

	t.Run("last 30 days", func(t *testing.T) {
		assert.True(t, FilterLast30Days.Contains(now.AddDate(0, 0, -29), now))
		assert.False(t, FilterLast30Days.Contains(now.AddDate(0, 0, -31), now))
	})

	t.Run("all time", func(t *testing.T) {
		assert.True(t, FilterAllTime.Contains(now.AddDate(-10, 0, 0), now))
	})
}

func TestTimeFilterCondition(t *testing.T) {
	require.Equal(t, " AND DATE(start_time) = CURRENT_DATE", FilterToday.Condition("start_time"))
	require.Contains(t, FilterLast7Days.Condition("start_time"), "INTERVAL '7 days'")
	require.Contains(t, FilterLast30Days.Condition("start_time"), "INTERVAL '30 days'")
	require.Empty(t, FilterAllTime.Condition("start_time"))
}
