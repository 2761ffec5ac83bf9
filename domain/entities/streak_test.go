package entities

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 30, 0, 0, time.UTC)
}

func TestStreak_ApplySave_FirstEver(t *testing.T) {
	s := &Streak{AccountID: 1}

	s.ApplySave(day(2026, time.March, 10), decimal.NewFromInt(5))

	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 1, s.LongestStreak)
	assert.Equal(t, 1, s.SavesThisMonth)
	assert.True(t, s.AmountThisMonth.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, "2026-03", s.MonthKey)
	require.NotNil(t, s.LastSaveDate)
	assert.Equal(t, DateOnly(day(2026, time.March, 10)), *s.LastSaveDate)
}

func TestStreak_ApplySave_ConsecutiveDays(t *testing.T) {
	s := &Streak{AccountID: 1}

	s.ApplySave(day(2026, time.March, 10), decimal.NewFromInt(5))
	s.ApplySave(day(2026, time.March, 11), decimal.NewFromInt(5))
	s.ApplySave(day(2026, time.March, 12), decimal.NewFromInt(5))

	assert.Equal(t, 3, s.CurrentStreak)
	assert.Equal(t, 3, s.LongestStreak)
	assert.Equal(t, 3, s.SavesThisMonth)
}

func TestStreak_ApplySave_SameDay(t *testing.T) {
	s := &Streak{AccountID: 1}

	s.ApplySave(day(2026, time.March, 10), decimal.NewFromInt(5))
	s.ApplySave(day(2026, time.March, 11), decimal.NewFromInt(5))
	// Second save on the same day keeps the streak but counts the amount
	s.ApplySave(day(2026, time.March, 11).Add(4*time.Hour), decimal.NewFromInt(7))

	assert.Equal(t, 2, s.CurrentStreak)
	assert.Equal(t, 3, s.SavesThisMonth)
	assert.True(t, s.AmountThisMonth.Equal(decimal.NewFromInt(17)))
}

func TestStreak_ApplySave_GapResets(t *testing.T) {
	s := &Streak{AccountID: 1}

	s.ApplySave(day(2026, time.March, 10), decimal.NewFromInt(5))
	s.ApplySave(day(2026, time.March, 11), decimal.NewFromInt(5))
	s.ApplySave(day(2026, time.March, 14), decimal.NewFromInt(5))

	assert.Equal(t, 1, s.CurrentStreak)
	// Longest remembers the earlier run
	assert.Equal(t, 2, s.LongestStreak)
}

func TestStreak_ApplySave_MonthRollover(t *testing.T) {
	s := &Streak{AccountID: 1}

	s.ApplySave(day(2026, time.March, 30), decimal.NewFromInt(10))
	s.ApplySave(day(2026, time.March, 31), decimal.NewFromInt(10))
	s.ApplySave(day(2026, time.April, 1), decimal.NewFromInt(3))

	// Streak spans the month boundary, monthly counters do not
	assert.Equal(t, 3, s.CurrentStreak)
	assert.Equal(t, 1, s.SavesThisMonth)
	assert.True(t, s.AmountThisMonth.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, "2026-04", s.MonthKey)
}

func TestDateOnly(t *testing.T) {
	got := DateOnly(time.Date(2026, time.May, 7, 23, 59, 59, 0, time.UTC))
	assert.Equal(t, time.Date(2026, time.May, 7, 0, 0, 0, 0, time.UTC), got)
}
