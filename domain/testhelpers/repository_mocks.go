package testhelpers

import (
	"context"
	"time"

	"tapsika/domain/entities"
	"tapsika/domain/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock implementation of AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id int64) (*entities.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByExternalID(ctx context.Context, externalID string) (*entities.Account, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByReferralCode(ctx context.Context, code string) (*entities.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, account *entities.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) SetReferredBy(ctx context.Context, accountID, referrerID int64) error {
	args := m.Called(ctx, accountID, referrerID)
	return args.Error(0)
}

// MockBalanceRepository is a mock implementation of BalanceRepository
type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) GetByAccount(ctx context.Context, accountID int64) (*entities.Balance, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Balance), args.Error(1)
}

func (m *MockBalanceRepository) GetByAccountForUpdate(ctx context.Context, accountID int64) (*entities.Balance, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Balance), args.Error(1)
}

func (m *MockBalanceRepository) Create(ctx context.Context, accountID int64) (*entities.Balance, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Balance), args.Error(1)
}

func (m *MockBalanceRepository) Update(ctx context.Context, balance *entities.Balance) error {
	args := m.Called(ctx, balance)
	return args.Error(0)
}

func (m *MockBalanceRepository) GetTopByLifetimeSika(ctx context.Context, limit int) ([]*entities.LeaderboardEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LeaderboardEntry), args.Error(1)
}

func (m *MockBalanceRepository) CountLifetimeSikaGreaterThan(ctx context.Context, lifetimeSika int64) (int64, error) {
	args := m.Called(ctx, lifetimeSika)
	return args.Get(0).(int64), args.Error(1)
}

// MockStreakRepository is a mock implementation of StreakRepository
type MockStreakRepository struct {
	mock.Mock
}

func (m *MockStreakRepository) GetByAccount(ctx context.Context, accountID int64) (*entities.Streak, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Streak), args.Error(1)
}

func (m *MockStreakRepository) Create(ctx context.Context, accountID int64, monthKey string) (*entities.Streak, error) {
	args := m.Called(ctx, accountID, monthKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Streak), args.Error(1)
}

func (m *MockStreakRepository) Update(ctx context.Context, streak *entities.Streak) error {
	args := m.Called(ctx, streak)
	return args.Error(0)
}

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Record(ctx context.Context, tx *entities.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.Transaction, error) {
	args := m.Called(ctx, accountID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Transaction), args.Error(1)
}

// MockGamePlayRepository is a mock implementation of GamePlayRepository
type MockGamePlayRepository struct {
	mock.Mock
}

func (m *MockGamePlayRepository) CountForDate(ctx context.Context, accountID int64, date time.Time) (int, error) {
	args := m.Called(ctx, accountID, date)
	return args.Int(0), args.Error(1)
}

func (m *MockGamePlayRepository) Create(ctx context.Context, play *entities.GamePlay) error {
	args := m.Called(ctx, play)
	return args.Error(0)
}

func (m *MockGamePlayRepository) GetForDate(ctx context.Context, accountID int64, date time.Time) ([]*entities.GamePlay, error) {
	args := m.Called(ctx, accountID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.GamePlay), args.Error(1)
}

// MockReferralRepository is a mock implementation of ReferralRepository
type MockReferralRepository struct {
	mock.Mock
}

func (m *MockReferralRepository) Create(ctx context.Context, referral *entities.Referral) error {
	args := m.Called(ctx, referral)
	return args.Error(0)
}

func (m *MockReferralRepository) GetByReferred(ctx context.Context, referredID int64) ([]*entities.Referral, error) {
	args := m.Called(ctx, referredID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Referral), args.Error(1)
}

func (m *MockReferralRepository) GetUnpaidByReferred(ctx context.Context, referredID int64) ([]*entities.Referral, error) {
	args := m.Called(ctx, referredID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Referral), args.Error(1)
}

func (m *MockReferralRepository) GetByReferrer(ctx context.Context, referrerID int64) ([]*entities.Referral, error) {
	args := m.Called(ctx, referrerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Referral), args.Error(1)
}

func (m *MockReferralRepository) MarkPaid(ctx context.Context, referralID int64, bonus int64, paidAt time.Time) (bool, error) {
	args := m.Called(ctx, referralID, bonus, paidAt)
	return args.Bool(0), args.Error(1)
}

// MockRedemptionRepository is a mock implementation of RedemptionRepository
type MockRedemptionRepository struct {
	mock.Mock
}

func (m *MockRedemptionRepository) Create(ctx context.Context, redemption *entities.Redemption) error {
	args := m.Called(ctx, redemption)
	return args.Error(0)
}

func (m *MockRedemptionRepository) GetByCode(ctx context.Context, voucherCode string) (*entities.Redemption, error) {
	args := m.Called(ctx, voucherCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Redemption), args.Error(1)
}

func (m *MockRedemptionRepository) GetByAccount(ctx context.Context, accountID int64) ([]*entities.Redemption, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Redemption), args.Error(1)
}

func (m *MockRedemptionRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockJarShakeRepository is a mock implementation of JarShakeRepository
type MockJarShakeRepository struct {
	mock.Mock
}

func (m *MockJarShakeRepository) GetByEventAndAccount(ctx context.Context, eventID uuid.UUID, accountID int64) (*entities.JarShakeEntry, error) {
	args := m.Called(ctx, eventID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.JarShakeEntry), args.Error(1)
}

func (m *MockJarShakeRepository) Create(ctx context.Context, entry *entities.JarShakeEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher that records
// published events for inspection.
type MockEventPublisher struct {
	mock.Mock
	Published []events.Event
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	m.Published = append(m.Published, event)
	args := m.Called(event)
	return args.Error(0)
}

// NoopEventPublisher swallows events without assertions.
type NoopEventPublisher struct {
	Published []events.Event
}

func (p *NoopEventPublisher) Publish(event events.Event) error {
	p.Published = append(p.Published, event)
	return nil
}
