package services

import (
	"context"
	"errors"
	"testing"

	"tapsika/domain/entities"
	"tapsika/domain/testhelpers"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newJarShakeServiceWithMocks() (*testhelpers.MockBalanceRepository, *testhelpers.MockStreakRepository, *testhelpers.MockJarShakeRepository, *testhelpers.MockTransactionRepository, *jarShakeService) {
	balanceRepo := new(testhelpers.MockBalanceRepository)
	streakRepo := new(testhelpers.MockStreakRepository)
	jarShakeRepo := new(testhelpers.MockJarShakeRepository)
	transactionRepo := new(testhelpers.MockTransactionRepository)
	balances := NewBalanceService(balanceRepo, streakRepo, transactionRepo, nil, nil)
	svc := NewJarShakeService(balanceRepo, streakRepo, jarShakeRepo, balances).(*jarShakeService)
	return balanceRepo, streakRepo, jarShakeRepo, transactionRepo, svc
}

func TestJarShakeService_Eligibility_ReportsGaps(t *testing.T) {
	balanceRepo, streakRepo, _, _, svc := newJarShakeServiceWithMocks()
	ctx := context.Background()

	balanceRepo.On("GetByAccount", ctx, int64(1)).Return(&entities.Balance{
		AccountID: 1,
		GameCoins: 1000,
	}, nil)
	streakRepo.On("GetByAccount", ctx, int64(1)).Return(&entities.Streak{
		AccountID:       1,
		AmountThisMonth: decimal.NewFromInt(5),
	}, nil)

	eligibility, err := svc.Eligibility(ctx, 1)
	require.NoError(t, err)

	assert.False(t, eligibility.Eligible)
	assert.EqualValues(t, 1500, eligibility.CoinsNeeded)
	assert.True(t, eligibility.SavingsNeeded.Equal(decimal.NewFromInt(15)))
}

func TestJarShakeService_Eligibility_MetThresholds(t *testing.T) {
	balanceRepo, streakRepo, _, _, svc := newJarShakeServiceWithMocks()
	ctx := context.Background()

	balanceRepo.On("GetByAccount", ctx, int64(1)).Return(&entities.Balance{
		AccountID: 1,
		GameCoins: 2500,
	}, nil)
	streakRepo.On("GetByAccount", ctx, int64(1)).Return(&entities.Streak{
		AccountID:       1,
		AmountThisMonth: decimal.NewFromInt(20),
	}, nil)

	eligibility, err := svc.Eligibility(ctx, 1)
	require.NoError(t, err)

	assert.True(t, eligibility.Eligible)
	assert.Zero(t, eligibility.CoinsNeeded)
	assert.True(t, eligibility.SavingsNeeded.IsZero())
}

func TestJarShakeService_Enter_NotEligible(t *testing.T) {
	balanceRepo, streakRepo, jarShakeRepo, _, svc := newJarShakeServiceWithMocks()
	ctx := context.Background()

	balanceRepo.On("GetByAccount", ctx, int64(1)).Return(&entities.Balance{AccountID: 1, GameCoins: 100}, nil)
	streakRepo.On("GetByAccount", ctx, int64(1)).Return(nil, nil)

	_, err := svc.Enter(ctx, uuid.New(), 1)
	assert.True(t, errors.Is(err, entities.ErrNotEligible))
	jarShakeRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestJarShakeService_Enter_AlreadyEntered(t *testing.T) {
	balanceRepo, streakRepo, jarShakeRepo, transactionRepo, svc := newJarShakeServiceWithMocks()
	ctx := context.Background()
	eventID := uuid.New()

	balanceRepo.On("GetByAccount", ctx, int64(1)).Return(&entities.Balance{AccountID: 1, GameCoins: 3000}, nil)
	streakRepo.On("GetByAccount", ctx, int64(1)).Return(&entities.Streak{AccountID: 1, AmountThisMonth: decimal.NewFromInt(25)}, nil)
	jarShakeRepo.On("GetByEventAndAccount", ctx, eventID, int64(1)).Return(&entities.JarShakeEntry{ID: 5}, nil)

	_, err := svc.Enter(ctx, eventID, 1)
	assert.True(t, errors.Is(err, entities.ErrAlreadyEntered))
	transactionRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestJarShakeService_Enter_DebitsAndRecords(t *testing.T) {
	balanceRepo, streakRepo, jarShakeRepo, transactionRepo, svc := newJarShakeServiceWithMocks()
	ctx := context.Background()
	eventID := uuid.New()

	balance := &entities.Balance{AccountID: 1, GameCoins: 3000, LifetimeGameCoins: 3000}
	balanceRepo.On("GetByAccount", ctx, int64(1)).Return(balance, nil)
	streakRepo.On("GetByAccount", ctx, int64(1)).Return(&entities.Streak{AccountID: 1, AmountThisMonth: decimal.NewFromInt(25)}, nil)
	jarShakeRepo.On("GetByEventAndAccount", ctx, eventID, int64(1)).Return(nil, nil)
	balanceRepo.On("GetByAccountForUpdate", ctx, int64(1)).Return(balance, nil)
	balanceRepo.On("Update", ctx, balance).Return(nil)
	transactionRepo.On("Record", ctx, mock.AnythingOfType("*entities.Transaction")).Return(nil)
	jarShakeRepo.On("Create", ctx, mock.AnythingOfType("*entities.JarShakeEntry")).Return(nil)

	entry, err := svc.Enter(ctx, eventID, 1)
	require.NoError(t, err)

	assert.EqualValues(t, entities.JarShakeEntryCost, entry.CoinsSpent)
	assert.EqualValues(t, 500, balance.GameCoins)
	assert.Equal(t, entities.JarShakeRewardForTier(entry.RewardTier), entry.RewardAmount)
	assert.Equal(t, entities.JarShakeRewardTypeForTier(entry.RewardTier), entry.RewardType)
	assert.True(t, entry.SavingsThisMonth.Equal(decimal.NewFromInt(25)))
}

func TestDrawJarShakeTier_ValidTiers(t *testing.T) {
	valid := map[entities.JarShakeTier]bool{
		entities.JarShakeTierBronze:   true,
		entities.JarShakeTierSilver:   true,
		entities.JarShakeTierGold:     true,
		entities.JarShakeTierDiamond:  true,
		entities.JarShakeTierPlatinum: true,
	}

	for i := 0; i < 200; i++ {
		tier, err := drawJarShakeTier()
		require.NoError(t, err)
		assert.True(t, valid[tier], "unexpected tier %s", tier)
	}
}
