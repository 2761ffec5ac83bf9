package repository

import (
	"context"
	"testing"
	"time"

	"tapsika/repository/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreakRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	accountRepo := NewAccountRepository(testDB.DB)
	repo := NewStreakRepository(testDB.DB)
	ctx := context.Background()

	account := testutil.NewTestAccount(testutil.UniqueExternalID(t, 1), "")
	require.NoError(t, accountRepo.Create(ctx, account))

	t.Run("missing streak returns nil", func(t *testing.T) {
		streak, err := repo.GetByAccount(ctx, account.ID)
		require.NoError(t, err)
		assert.Nil(t, streak)
	})

	t.Run("fresh streak starts zeroed", func(t *testing.T) {
		streak, err := repo.Create(ctx, account.ID, "2026-05")
		require.NoError(t, err)
		require.NotNil(t, streak)
		assert.Zero(t, streak.CurrentStreak)
		assert.Zero(t, streak.LongestStreak)
		assert.Nil(t, streak.LastSaveDate)
		assert.Equal(t, "2026-05", streak.MonthKey)
	})
}

func TestStreakRepository_Update(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewStreakRepository(testDB.DB)
	ctx := context.Background()

	account := testutil.SeedAccount(t, testDB.DB, testutil.UniqueExternalID(t, 1), "")

	streak, err := repo.GetByAccount(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, streak)

	saveDate := time.Date(2026, 5, 12, 0, 0, 0, 0, time.UTC)
	streak.CurrentStreak = 4
	streak.LongestStreak = 9
	streak.LastSaveDate = &saveDate
	streak.SavesThisMonth = 7
	streak.AmountThisMonth = decimal.RequireFromString("42.50")
	streak.MonthKey = "2026-05"

	require.NoError(t, repo.Update(ctx, streak))

	stored, err := repo.GetByAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.CurrentStreak)
	assert.Equal(t, 9, stored.LongestStreak)
	require.NotNil(t, stored.LastSaveDate)
	assert.Equal(t, saveDate.Format(time.DateOnly), stored.LastSaveDate.Format(time.DateOnly))
	assert.Equal(t, 7, stored.SavesThisMonth)
	assert.True(t, stored.AmountThisMonth.Equal(decimal.RequireFromString("42.50")))
	assert.Equal(t, "2026-05", stored.MonthKey)
}
