package repository

import (
	"context"
	"errors"
	"testing"

	"tapsika/domain/entities"
	"tapsika/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_Create(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	t.Run("successful creation", func(t *testing.T) {
		account := testutil.NewTestAccount(testutil.UniqueExternalID(t, 1), "Naledi")

		err := repo.Create(ctx, account)
		require.NoError(t, err)
		assert.NotZero(t, account.ID)
		assert.False(t, account.CreatedAt.IsZero())
	})

	t.Run("duplicate external ID", func(t *testing.T) {
		externalID := testutil.UniqueExternalID(t, 2)

		first := testutil.NewTestAccount(externalID, "")
		err := repo.Create(ctx, first)
		require.NoError(t, err)

		second := testutil.NewTestAccount(externalID, "")
		second.ReferralCode = "TAPOTHER1"
		err = repo.Create(ctx, second)
		assert.Error(t, err)
	})
}

func TestAccountRepository_Lookups(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	seeded := testutil.SeedAccount(t, testDB.DB, "lookup-1234567890", "Naledi")

	t.Run("by ID", func(t *testing.T) {
		account, err := repo.GetByID(ctx, seeded.ID)
		require.NoError(t, err)
		require.NotNil(t, account)
		assert.Equal(t, seeded.ExternalID, account.ExternalID)
		assert.Equal(t, "Naledi", account.DisplayName)
	})

	t.Run("by external ID", func(t *testing.T) {
		account, err := repo.GetByExternalID(ctx, "lookup-1234567890")
		require.NoError(t, err)
		require.NotNil(t, account)
		assert.Equal(t, seeded.ID, account.ID)
	})

	t.Run("by referral code", func(t *testing.T) {
		account, err := repo.GetByReferralCode(ctx, "TAP567890")
		require.NoError(t, err)
		require.NotNil(t, account)
		assert.Equal(t, seeded.ID, account.ID)
	})

	t.Run("missing account returns nil", func(t *testing.T) {
		account, err := repo.GetByExternalID(ctx, "no-such-account")
		require.NoError(t, err)
		assert.Nil(t, account)

		account, err = repo.GetByReferralCode(ctx, "TAPNOPE00")
		require.NoError(t, err)
		assert.Nil(t, account)
	})
}

func TestAccountRepository_SetReferredBy(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewAccountRepository(testDB.DB)
	ctx := context.Background()

	referrer := testutil.SeedAccount(t, testDB.DB, testutil.UniqueExternalID(t, 1), "")
	other := testutil.SeedAccount(t, testDB.DB, testutil.UniqueExternalID(t, 2), "")
	referred := testutil.SeedAccount(t, testDB.DB, testutil.UniqueExternalID(t, 3), "")

	err := repo.SetReferredBy(ctx, referred.ID, referrer.ID)
	require.NoError(t, err)

	account, err := repo.GetByID(ctx, referred.ID)
	require.NoError(t, err)
	require.NotNil(t, account.ReferredBy)
	assert.Equal(t, referrer.ID, *account.ReferredBy)

	// The referrer is set once and never overwritten. A caller that lost
	// the race gets the same sentinel as one that failed the pre-check.
	err = repo.SetReferredBy(ctx, referred.ID, other.ID)
	assert.True(t, errors.Is(err, entities.ErrAlreadyReferred))

	account, err = repo.GetByID(ctx, referred.ID)
	require.NoError(t, err)
	assert.Equal(t, referrer.ID, *account.ReferredBy)
}
