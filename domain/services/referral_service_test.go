package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"tapsika/domain/entities"
	"tapsika/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newReferralServiceWithMocks() (*testhelpers.MockAccountRepository, *testhelpers.MockBalanceRepository, *testhelpers.MockReferralRepository, *testhelpers.MockTransactionRepository, *referralService) {
	accountRepo := new(testhelpers.MockAccountRepository)
	balanceRepo := new(testhelpers.MockBalanceRepository)
	referralRepo := new(testhelpers.MockReferralRepository)
	transactionRepo := new(testhelpers.MockTransactionRepository)
	svc := NewReferralService(accountRepo, balanceRepo, referralRepo, transactionRepo, nil).(*referralService)
	return accountRepo, balanceRepo, referralRepo, transactionRepo, svc
}

func intPtr(v int64) *int64 { return &v }

func TestReferralService_ApplyCode_InvalidCode(t *testing.T) {
	accountRepo, _, _, _, svc := newReferralServiceWithMocks()
	ctx := context.Background()

	accountRepo.On("GetByReferralCode", ctx, "TAPNOPE").Return(nil, nil)

	_, err := svc.ApplyCode(ctx, 1, "tapnope")
	assert.True(t, errors.Is(err, entities.ErrInvalidReferralCode))
}

func TestReferralService_ApplyCode_NormalizesCode(t *testing.T) {
	accountRepo, _, _, _, svc := newReferralServiceWithMocks()
	ctx := context.Background()

	// Lookup must see the trimmed, uppercased code
	accountRepo.On("GetByReferralCode", ctx, "TAP567890").Return(nil, nil)

	_, err := svc.ApplyCode(ctx, 1, "  tap567890 ")
	assert.True(t, errors.Is(err, entities.ErrInvalidReferralCode))
	accountRepo.AssertExpectations(t)
}

func TestReferralService_ApplyCode_SelfReferral(t *testing.T) {
	accountRepo, _, _, _, svc := newReferralServiceWithMocks()
	ctx := context.Background()

	owner := &entities.Account{ID: 1, ReferralCode: "TAP567890"}
	accountRepo.On("GetByReferralCode", ctx, "TAP567890").Return(owner, nil)

	_, err := svc.ApplyCode(ctx, 1, "TAP567890")
	assert.True(t, errors.Is(err, entities.ErrSelfReferral))
}

func TestReferralService_ApplyCode_AlreadyReferred(t *testing.T) {
	accountRepo, _, _, _, svc := newReferralServiceWithMocks()
	ctx := context.Background()

	owner := &entities.Account{ID: 2, ReferralCode: "TAP567890"}
	applicant := &entities.Account{ID: 1, ReferredBy: intPtr(9)}
	accountRepo.On("GetByReferralCode", ctx, "TAP567890").Return(owner, nil)
	accountRepo.On("GetByID", ctx, int64(1)).Return(applicant, nil)

	_, err := svc.ApplyCode(ctx, 1, "TAP567890")
	assert.True(t, errors.Is(err, entities.ErrAlreadyReferred))
	accountRepo.AssertNotCalled(t, "SetReferredBy", mock.Anything, mock.Anything, mock.Anything)
}

func TestReferralService_ApplyCode_ThreeLevelChain(t *testing.T) {
	accountRepo, _, referralRepo, _, svc := newReferralServiceWithMocks()
	ctx := context.Background()

	// Chain: applicant 1 -> referrer 2 -> ancestor 3 -> ancestor 4
	referrer := &entities.Account{ID: 2, DisplayName: "Naledi", ReferralCode: "TAPAB1234", ReferredBy: intPtr(3)}
	level2 := &entities.Account{ID: 3, ReferredBy: intPtr(4)}
	level3 := &entities.Account{ID: 4}
	applicant := &entities.Account{ID: 1}

	accountRepo.On("GetByReferralCode", ctx, "TAPAB1234").Return(referrer, nil)
	accountRepo.On("GetByID", ctx, int64(1)).Return(applicant, nil)
	accountRepo.On("GetByID", ctx, int64(3)).Return(level2, nil)
	accountRepo.On("GetByID", ctx, int64(4)).Return(level3, nil)
	accountRepo.On("SetReferredBy", ctx, int64(1), int64(2)).Return(nil)

	var createdLevels []int
	var createdReferrers []int64
	referralRepo.On("Create", ctx, mock.AnythingOfType("*entities.Referral")).Run(func(args mock.Arguments) {
		ref := args.Get(1).(*entities.Referral)
		createdLevels = append(createdLevels, ref.Level)
		createdReferrers = append(createdReferrers, ref.ReferrerID)
		assert.EqualValues(t, 1, ref.ReferredID)
	}).Return(nil)

	name, err := svc.ApplyCode(ctx, 1, "TAPAB1234")
	require.NoError(t, err)
	assert.Equal(t, "Naledi", name)
	assert.Equal(t, []int{1, 2, 3}, createdLevels)
	assert.Equal(t, []int64{2, 3, 4}, createdReferrers)
}

func TestReferralService_ApplyCode_ShortChain(t *testing.T) {
	accountRepo, _, referralRepo, _, svc := newReferralServiceWithMocks()
	ctx := context.Background()

	// Referrer has no ancestor: only the level 1 edge exists
	referrer := &entities.Account{ID: 2, DisplayName: "Kabo", ReferralCode: "TAPXY9876"}
	applicant := &entities.Account{ID: 1}

	accountRepo.On("GetByReferralCode", ctx, "TAPXY9876").Return(referrer, nil)
	accountRepo.On("GetByID", ctx, int64(1)).Return(applicant, nil)
	accountRepo.On("SetReferredBy", ctx, int64(1), int64(2)).Return(nil)
	referralRepo.On("Create", ctx, mock.AnythingOfType("*entities.Referral")).Return(nil)

	_, err := svc.ApplyCode(ctx, 1, "TAPXY9876")
	require.NoError(t, err)
	referralRepo.AssertNumberOfCalls(t, "Create", 1)
}

func TestReferralService_SettlePendingBonuses_PaysAllLevels(t *testing.T) {
	_, balanceRepo, referralRepo, transactionRepo, svc := newReferralServiceWithMocks()
	ctx := context.Background()
	now := time.Date(2026, time.April, 2, 9, 0, 0, 0, time.UTC)

	unpaid := []*entities.Referral{
		{ID: 11, ReferrerID: 2, ReferredID: 1, Level: 1},
		{ID: 12, ReferrerID: 3, ReferredID: 1, Level: 2},
		{ID: 13, ReferrerID: 4, ReferredID: 1, Level: 3},
	}
	referralRepo.On("GetUnpaidByReferred", ctx, int64(1)).Return(unpaid, nil)
	referralRepo.On("MarkPaid", ctx, int64(11), int64(200), now).Return(true, nil)
	referralRepo.On("MarkPaid", ctx, int64(12), int64(50), now).Return(true, nil)
	referralRepo.On("MarkPaid", ctx, int64(13), int64(10), now).Return(true, nil)

	for _, referrerID := range []int64{2, 3, 4} {
		balance := &entities.Balance{AccountID: referrerID}
		balanceRepo.On("GetByAccountForUpdate", ctx, referrerID).Return(balance, nil)
	}
	balanceRepo.On("Update", ctx, mock.AnythingOfType("*entities.Balance")).Return(nil)
	transactionRepo.On("Record", ctx, mock.AnythingOfType("*entities.Transaction")).Return(nil)

	paid, err := svc.SettlePendingBonuses(ctx, 1, now)
	require.NoError(t, err)
	require.Len(t, paid, 3)
	assert.EqualValues(t, 200, paid[0].SikaBonus)
	assert.EqualValues(t, 50, paid[1].SikaBonus)
	assert.EqualValues(t, 10, paid[2].SikaBonus)
	for _, ref := range paid {
		assert.True(t, ref.BonusPaid)
		require.NotNil(t, ref.BonusPaidAt)
	}
	transactionRepo.AssertNumberOfCalls(t, "Record", 3)
}

func TestReferralService_SettlePendingBonuses_SkipsRacedEdges(t *testing.T) {
	_, balanceRepo, referralRepo, transactionRepo, svc := newReferralServiceWithMocks()
	ctx := context.Background()
	now := time.Now()

	unpaid := []*entities.Referral{
		{ID: 11, ReferrerID: 2, ReferredID: 1, Level: 1},
	}
	referralRepo.On("GetUnpaidByReferred", ctx, int64(1)).Return(unpaid, nil)
	// Another settlement won the race
	referralRepo.On("MarkPaid", ctx, int64(11), int64(200), now).Return(false, nil)

	paid, err := svc.SettlePendingBonuses(ctx, 1, now)
	require.NoError(t, err)
	assert.Empty(t, paid)
	balanceRepo.AssertNotCalled(t, "GetByAccountForUpdate", mock.Anything, mock.Anything)
	transactionRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestReferralService_SettlePendingBonuses_NothingPending(t *testing.T) {
	_, _, referralRepo, _, svc := newReferralServiceWithMocks()
	ctx := context.Background()

	referralRepo.On("GetUnpaidByReferred", ctx, int64(1)).Return([]*entities.Referral{}, nil)

	paid, err := svc.SettlePendingBonuses(ctx, 1, time.Now())
	require.NoError(t, err)
	assert.Empty(t, paid)
}
