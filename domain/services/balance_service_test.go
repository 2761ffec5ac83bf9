package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"tapsika/domain/entities"
	"tapsika/domain/testhelpers"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type balanceServiceMocks struct {
	balanceRepo     *testhelpers.MockBalanceRepository
	streakRepo      *testhelpers.MockStreakRepository
	transactionRepo *testhelpers.MockTransactionRepository
	referralRepo    *testhelpers.MockReferralRepository
}

func newBalanceServiceWithMocks() (*balanceServiceMocks, *balanceService) {
	m := &balanceServiceMocks{
		balanceRepo:     new(testhelpers.MockBalanceRepository),
		streakRepo:      new(testhelpers.MockStreakRepository),
		transactionRepo: new(testhelpers.MockTransactionRepository),
		referralRepo:    new(testhelpers.MockReferralRepository),
	}
	referrals := NewReferralService(new(testhelpers.MockAccountRepository), m.balanceRepo, m.referralRepo, m.transactionRepo, nil)
	svc := NewBalanceService(m.balanceRepo, m.streakRepo, m.transactionRepo, referrals, nil).(*balanceService)
	return m, svc
}

func TestBalanceService_Debit_Insufficient(t *testing.T) {
	m, svc := newBalanceServiceWithMocks()
	ctx := context.Background()

	m.balanceRepo.On("GetByAccountForUpdate", ctx, int64(1)).Return(&entities.Balance{
		AccountID: 1,
		GameCoins: 100,
	}, nil)

	_, err := svc.Debit(ctx, 1, entities.CurrencyGameCoins, 2500, entities.TransactionTypeGameSpend, "Jar Shake entry")
	assert.True(t, errors.Is(err, entities.ErrInsufficientBalance))

	// No write happens on a failed debit
	m.balanceRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	m.transactionRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestBalanceService_CreditDebit_LedgerEntries(t *testing.T) {
	m, svc := newBalanceServiceWithMocks()
	ctx := context.Background()

	balance := &entities.Balance{AccountID: 1, Sika: 1000, LifetimeSika: 1000}
	m.balanceRepo.On("GetByAccountForUpdate", ctx, int64(1)).Return(balance, nil)
	m.balanceRepo.On("Update", ctx, balance).Return(nil)

	var entries []*entities.Transaction
	m.transactionRepo.On("Record", ctx, mock.AnythingOfType("*entities.Transaction")).Run(func(args mock.Arguments) {
		entries = append(entries, args.Get(1).(*entities.Transaction))
	}).Return(nil)

	_, err := svc.Credit(ctx, 1, entities.CurrencySika, 200, entities.TransactionTypeReferralBonus, "Level 1 referral bonus")
	require.NoError(t, err)
	_, err = svc.Debit(ctx, 1, entities.CurrencySika, 300, entities.TransactionTypeRedeem, "partial redemption")
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.EqualValues(t, 200, entries[0].SikaAmount)
	assert.EqualValues(t, -300, entries[1].SikaAmount)

	// Credit raises the lifetime counter, debit leaves it alone
	assert.EqualValues(t, 900, balance.Sika)
	assert.EqualValues(t, 1200, balance.LifetimeSika)
}

func TestBalanceService_RecordSave(t *testing.T) {
	m, svc := newBalanceServiceWithMocks()
	ctx := context.Background()
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

	balance := &entities.Balance{AccountID: 1}
	streak := &entities.Streak{AccountID: 1}
	m.balanceRepo.On("GetByAccountForUpdate", ctx, int64(1)).Return(balance, nil)
	m.balanceRepo.On("Update", ctx, balance).Return(nil)
	m.transactionRepo.On("Record", ctx, mock.AnythingOfType("*entities.Transaction")).Return(nil)
	m.streakRepo.On("GetByAccount", ctx, int64(1)).Return(streak, nil)
	m.streakRepo.On("Update", ctx, streak).Return(nil)
	m.referralRepo.On("GetUnpaidByReferred", ctx, int64(1)).Return([]*entities.Referral{}, nil)

	result, err := svc.RecordSave(ctx, 1, decimal.NewFromInt(30), now)
	require.NoError(t, err)

	assert.EqualValues(t, 3000, result.SikaCredited)
	assert.Equal(t, 1, result.CurrentStreak)
	assert.Empty(t, result.BonusesPaid)
	assert.True(t, balance.SavingsTotal.Equal(decimal.NewFromInt(30)))
	assert.EqualValues(t, 3000, balance.Sika)
}

func TestBalanceService_RecordSave_SettlesPendingBonuses(t *testing.T) {
	m, svc := newBalanceServiceWithMocks()
	ctx := context.Background()
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

	balance := &entities.Balance{AccountID: 1}
	referrerBalance := &entities.Balance{AccountID: 2}
	streak := &entities.Streak{AccountID: 1}

	m.balanceRepo.On("GetByAccountForUpdate", ctx, int64(1)).Return(balance, nil)
	m.balanceRepo.On("GetByAccountForUpdate", ctx, int64(2)).Return(referrerBalance, nil)
	m.balanceRepo.On("Update", ctx, mock.AnythingOfType("*entities.Balance")).Return(nil)
	m.transactionRepo.On("Record", ctx, mock.AnythingOfType("*entities.Transaction")).Return(nil)
	m.streakRepo.On("GetByAccount", ctx, int64(1)).Return(streak, nil)
	m.streakRepo.On("Update", ctx, streak).Return(nil)
	m.referralRepo.On("GetUnpaidByReferred", ctx, int64(1)).Return([]*entities.Referral{
		{ID: 11, ReferrerID: 2, ReferredID: 1, Level: 1},
	}, nil)
	m.referralRepo.On("MarkPaid", ctx, int64(11), int64(200), now).Return(true, nil)

	result, err := svc.RecordSave(ctx, 1, decimal.NewFromInt(10), now)
	require.NoError(t, err)

	assert.Equal(t, []int64{200}, result.BonusesPaid)
	assert.EqualValues(t, 200, referrerBalance.Sika)
}

func TestBalanceService_RecordSave_RejectsNonPositive(t *testing.T) {
	_, svc := newBalanceServiceWithMocks()

	_, err := svc.RecordSave(context.Background(), 1, decimal.Zero, time.Now())
	assert.Error(t, err)

	_, err = svc.RecordSave(context.Background(), 1, decimal.NewFromInt(-5), time.Now())
	assert.Error(t, err)
}
