package repository

import (
	"context"
	"testing"

	"tapsika/domain/entities"
	"tapsika/repository/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJarShakeRepository_CreateAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewJarShakeRepository(testDB.DB)
	ctx := context.Background()

	account := testutil.SeedAccount(t, testDB.DB, testutil.UniqueExternalID(t, 1), "")
	eventID := uuid.New()

	t.Run("absent entry returns nil", func(t *testing.T) {
		entry, err := repo.GetByEventAndAccount(ctx, eventID, account.ID)
		require.NoError(t, err)
		assert.Nil(t, entry)
	})

	t.Run("round trip", func(t *testing.T) {
		created := &entities.JarShakeEntry{
			EventID:          eventID,
			AccountID:        account.ID,
			CoinsSpent:       entities.JarShakeEntryCost,
			SavingsThisMonth: decimal.NewFromInt(25),
			RewardTier:       entities.JarShakeTierGold,
			RewardAmount:     entities.JarShakeRewardForTier(entities.JarShakeTierGold),
			RewardType:       entities.JarShakeRewardVoucher,
		}
		require.NoError(t, repo.Create(ctx, created))
		assert.NotZero(t, created.ID)

		entry, err := repo.GetByEventAndAccount(ctx, eventID, account.ID)
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.Equal(t, created.ID, entry.ID)
		assert.Equal(t, eventID, entry.EventID)
		assert.EqualValues(t, entities.JarShakeEntryCost, entry.CoinsSpent)
		assert.True(t, entry.SavingsThisMonth.Equal(decimal.NewFromInt(25)))
		assert.Equal(t, entities.JarShakeTierGold, entry.RewardTier)
		assert.Equal(t, entities.JarShakeRewardVoucher, entry.RewardType)
	})

	t.Run("one entry per event per account", func(t *testing.T) {
		duplicate := &entities.JarShakeEntry{
			EventID:          eventID,
			AccountID:        account.ID,
			CoinsSpent:       entities.JarShakeEntryCost,
			SavingsThisMonth: decimal.NewFromInt(25),
			RewardTier:       entities.JarShakeTierBronze,
			RewardAmount:     entities.JarShakeRewardForTier(entities.JarShakeTierBronze),
			RewardType:       entities.JarShakeRewardAirtime,
		}
		err := repo.Create(ctx, duplicate)
		assert.Error(t, err)
	})

	t.Run("other event is independent", func(t *testing.T) {
		otherEvent := uuid.New()
		entry, err := repo.GetByEventAndAccount(ctx, otherEvent, account.ID)
		require.NoError(t, err)
		assert.Nil(t, entry)
	})
}
