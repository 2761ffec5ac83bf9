package repository

import (
	"context"
	"testing"
	"time"

	"tapsika/domain/entities"
	"tapsika/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferralRepository_Create(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewReferralRepository(testDB.DB)
	ctx := context.Background()

	referrer := testutil.SeedAccount(t, testDB.DB, testutil.UniqueExternalID(t, 1), "")
	referred := testutil.SeedAccount(t, testDB.DB, testutil.UniqueExternalID(t, 2), "")

	t.Run("successful creation", func(t *testing.T) {
		referral := &entities.Referral{
			ReferrerID: referrer.ID,
			ReferredID: referred.ID,
			Level:      1,
		}
		err := repo.Create(ctx, referral)
		require.NoError(t, err)
		assert.NotZero(t, referral.ID)
		assert.False(t, referral.BonusPaid)
	})

	t.Run("one edge per level per referred", func(t *testing.T) {
		other := testutil.SeedAccount(t, testDB.DB, testutil.UniqueExternalID(t, 3), "")
		duplicate := &entities.Referral{
			ReferrerID: other.ID,
			ReferredID: referred.ID,
			Level:      1,
		}
		err := repo.Create(ctx, duplicate)
		assert.Error(t, err)
	})
}

func TestReferralRepository_GetByReferred(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewReferralRepository(testDB.DB)
	ctx := context.Background()

	referred := testutil.SeedAccount(t, testDB.DB, testutil.UniqueExternalID(t, 1), "")
	var referrerIDs []int64
	for n := 2; n <= 4; n++ {
		referrer := testutil.SeedAccount(t, testDB.DB, testutil.UniqueExternalID(t, n), "")
		referrerIDs = append(referrerIDs, referrer.ID)
	}

	// Seed levels out of order
	for _, level := range []int{3, 1, 2} {
		err := repo.Create(ctx, &entities.Referral{
			ReferrerID: referrerIDs[level-1],
			ReferredID: referred.ID,
			Level:      level,
		})
		require.NoError(t, err)
	}

	referrals, err := repo.GetByReferred(ctx, referred.ID)
	require.NoError(t, err)
	require.Len(t, referrals, 3)
	for i, referral := range referrals {
		assert.Equal(t, i+1, referral.Level)
		assert.Equal(t, referrerIDs[i], referral.ReferrerID)
	}

	byReferrer, err := repo.GetByReferrer(ctx, referrerIDs[0])
	require.NoError(t, err)
	require.Len(t, byReferrer, 1)
	assert.Equal(t, referred.ID, byReferrer[0].ReferredID)
}

func TestReferralRepository_MarkPaid(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewReferralRepository(testDB.DB)
	ctx := context.Background()

	referrer := testutil.SeedAccount(t, testDB.DB, testutil.UniqueExternalID(t, 1), "")
	referred := testutil.SeedAccount(t, testDB.DB, testutil.UniqueExternalID(t, 2), "")

	referral := &entities.Referral{ReferrerID: referrer.ID, ReferredID: referred.ID, Level: 1}
	require.NoError(t, repo.Create(ctx, referral))

	unpaid, err := repo.GetUnpaidByReferred(ctx, referred.ID)
	require.NoError(t, err)
	require.Len(t, unpaid, 1)

	paidAt := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	won, err := repo.MarkPaid(ctx, referral.ID, 200, paidAt)
	require.NoError(t, err)
	assert.True(t, won)

	// A second settlement attempt loses the guard
	won, err = repo.MarkPaid(ctx, referral.ID, 200, paidAt.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, won)

	unpaid, err = repo.GetUnpaidByReferred(ctx, referred.ID)
	require.NoError(t, err)
	assert.Empty(t, unpaid)

	all, err := repo.GetByReferred(ctx, referred.ID)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].BonusPaid)
	assert.EqualValues(t, 200, all[0].SikaBonus)
	require.NotNil(t, all[0].BonusPaidAt)
	assert.True(t, all[0].BonusPaidAt.Equal(paidAt))
}
