package services

import (
	"context"
	"fmt"
	"time"

	"tapsika/domain/entities"
	"tapsika/domain/events"
	"tapsika/domain/interfaces"
	"tapsika/domain/utils"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// balanceService implements the balance store. All mutations lock the
// account's balance row first, which serializes concurrent operations on the
// same account while leaving other accounts untouched.
type balanceService struct {
	balanceRepo     interfaces.BalanceRepository
	streakRepo      interfaces.StreakRepository
	transactionRepo interfaces.TransactionRepository
	referralService interfaces.ReferralService
	eventPublisher  interfaces.EventPublisher
}

// NewBalanceService creates a new balance service.
func NewBalanceService(
	balanceRepo interfaces.BalanceRepository,
	streakRepo interfaces.StreakRepository,
	transactionRepo interfaces.TransactionRepository,
	referralService interfaces.ReferralService,
	eventPublisher interfaces.EventPublisher,
) interfaces.BalanceService {
	return &balanceService{
		balanceRepo:     balanceRepo,
		streakRepo:      streakRepo,
		transactionRepo: transactionRepo,
		referralService: referralService,
		eventPublisher:  eventPublisher,
	}
}

func (s *balanceService) Credit(ctx context.Context, accountID int64, currency entities.Currency, amount int64, txType entities.TransactionType, description string) (*entities.Balance, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("credit amount must be positive, got %d", amount)
	}

	balance, err := s.lockBalance(ctx, accountID)
	if err != nil {
		return nil, err
	}

	balance.ApplyCredit(currency, amount)
	if err := s.balanceRepo.Update(ctx, balance); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	tx := &entities.Transaction{
		AccountID:   accountID,
		Type:        txType,
		Description: description,
	}
	setCurrencyDelta(tx, currency, amount)
	if err := utils.RecordLedgerEntry(ctx, s.transactionRepo, s.eventPublisher, tx, balance); err != nil {
		return nil, err
	}

	return balance, nil
}

func (s *balanceService) Debit(ctx context.Context, accountID int64, currency entities.Currency, amount int64, txType entities.TransactionType, description string) (*entities.Balance, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("debit amount must be positive, got %d", amount)
	}

	balance, err := s.lockBalance(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if !balance.CanAfford(currency, amount) {
		return nil, fmt.Errorf("%w: have %d %s, need %d", entities.ErrInsufficientBalance, balance.Amount(currency), currency, amount)
	}

	balance.ApplyDebit(currency, amount)
	if err := s.balanceRepo.Update(ctx, balance); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	tx := &entities.Transaction{
		AccountID:   accountID,
		Type:        txType,
		Description: description,
	}
	setCurrencyDelta(tx, currency, -amount)
	if err := utils.RecordLedgerEntry(ctx, s.transactionRepo, s.eventPublisher, tx, balance); err != nil {
		return nil, err
	}

	return balance, nil
}

// RecordSave applies a savings event as one logical operation: balance and
// ledger, then streak, then referral settlement. The caller's unit of work
// makes the whole sequence atomic.
func (s *balanceService) RecordSave(ctx context.Context, accountID int64, amount decimal.Decimal, now time.Time) (*interfaces.SaveResult, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("save amount must be positive, got %s", amount)
	}

	balance, err := s.lockBalance(ctx, accountID)
	if err != nil {
		return nil, err
	}

	sika := balance.ApplySave(amount)
	if err := s.balanceRepo.Update(ctx, balance); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	tx := &entities.Transaction{
		AccountID:     accountID,
		Type:          entities.TransactionTypeSave,
		SavingsAmount: amount,
		SikaAmount:    sika,
		Description:   fmt.Sprintf("Saved P%s airtime", amount.StringFixed(2)),
	}
	if err := utils.RecordLedgerEntry(ctx, s.transactionRepo, s.eventPublisher, tx, balance); err != nil {
		return nil, err
	}

	streak, err := s.streakRepo.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get streak: %w", err)
	}
	if streak == nil {
		streak, err = s.streakRepo.Create(ctx, accountID, entities.MonthKeyFor(now))
		if err != nil {
			return nil, fmt.Errorf("failed to create streak: %w", err)
		}
	}
	streak.ApplySave(now, amount)
	if err := s.streakRepo.Update(ctx, streak); err != nil {
		return nil, fmt.Errorf("failed to update streak: %w", err)
	}

	// Every save triggers settlement; already-paid edges are skipped by the
	// bonus_paid guard.
	paid, err := s.referralService.SettlePendingBonuses(ctx, accountID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to settle referral bonuses: %w", err)
	}
	bonuses := make([]int64, 0, len(paid))
	for _, ref := range paid {
		bonuses = append(bonuses, ref.SikaBonus)
	}

	if s.eventPublisher != nil {
		event := events.SaveRecordedEvent{
			AccountID:     accountID,
			Amount:        amount,
			SikaCredited:  sika,
			CurrentStreak: streak.CurrentStreak,
			Tier:          balance.Tier,
		}
		if err := s.eventPublisher.Publish(event); err != nil {
			log.WithError(err).Error("Failed to publish save recorded event")
		}
	}

	return &interfaces.SaveResult{
		Balance:       balance,
		SikaCredited:  sika,
		CurrentStreak: streak.CurrentStreak,
		LongestStreak: streak.LongestStreak,
		BonusesPaid:   bonuses,
	}, nil
}

func (s *balanceService) GetBalance(ctx context.Context, accountID int64) (*entities.Balance, error) {
	balance, err := s.balanceRepo.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	if balance == nil {
		return nil, fmt.Errorf("%w: account %d", entities.ErrAccountNotFound, accountID)
	}
	return balance, nil
}

func (s *balanceService) lockBalance(ctx context.Context, accountID int64) (*entities.Balance, error) {
	balance, err := s.balanceRepo.GetByAccountForUpdate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock balance: %w", err)
	}
	if balance == nil {
		return nil, fmt.Errorf("%w: account %d", entities.ErrAccountNotFound, accountID)
	}
	return balance, nil
}

func setCurrencyDelta(tx *entities.Transaction, currency entities.Currency, delta int64) {
	if currency == entities.CurrencyGameCoins {
		tx.GameCoinsAmount = delta
		return
	}
	tx.SikaAmount = delta
}
