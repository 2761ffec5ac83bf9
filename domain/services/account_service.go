package services

import (
	"context"
	"fmt"

	"tapsika/domain/entities"
	"tapsika/domain/events"
	"tapsika/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// accountService resolves external identities to internal accounts.
type accountService struct {
	accountRepo    interfaces.AccountRepository
	balanceRepo    interfaces.BalanceRepository
	streakRepo     interfaces.StreakRepository
	eventPublisher interfaces.EventPublisher
}

// NewAccountService creates a new account service.
func NewAccountService(
	accountRepo interfaces.AccountRepository,
	balanceRepo interfaces.BalanceRepository,
	streakRepo interfaces.StreakRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.AccountService {
	return &accountService{
		accountRepo:    accountRepo,
		balanceRepo:    balanceRepo,
		streakRepo:     streakRepo,
		eventPublisher: eventPublisher,
	}
}

// ResolveOrCreate returns the account for an external identity. First
// contact creates the account together with its zeroed balance and streak;
// the caller's unit of work makes that trio atomic.
func (s *accountService) ResolveOrCreate(ctx context.Context, externalID, displayName string) (*entities.Account, bool, error) {
	if externalID == "" {
		return nil, false, fmt.Errorf("external ID must not be empty")
	}

	account, err := s.accountRepo.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get account: %w", err)
	}
	if account != nil {
		return account, false, nil
	}

	if displayName == "" {
		displayName = "Tapsika User"
	}

	account = &entities.Account{
		ExternalID:   externalID,
		DisplayName:  displayName,
		ReferralCode: entities.GenerateReferralCode(externalID),
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, false, fmt.Errorf("failed to create account: %w", err)
	}

	if _, err := s.balanceRepo.Create(ctx, account.ID); err != nil {
		return nil, false, fmt.Errorf("failed to create balance: %w", err)
	}
	if _, err := s.streakRepo.Create(ctx, account.ID, ""); err != nil {
		return nil, false, fmt.Errorf("failed to create streak: %w", err)
	}

	if s.eventPublisher != nil {
		event := events.AccountCreatedEvent{
			AccountID:    account.ID,
			ExternalID:   account.ExternalID,
			DisplayName:  account.DisplayName,
			ReferralCode: account.ReferralCode,
		}
		if err := s.eventPublisher.Publish(event); err != nil {
			log.WithError(err).Error("Failed to publish account created event")
		}
	}

	return account, true, nil
}

func (s *accountService) GetProfile(ctx context.Context, accountID int64) (*entities.Account, *entities.Balance, *entities.Streak, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, nil, nil, fmt.Errorf("%w: account %d", entities.ErrAccountNotFound, accountID)
	}

	balance, err := s.balanceRepo.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get balance: %w", err)
	}

	streak, err := s.streakRepo.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get streak: %w", err)
	}

	return account, balance, streak, nil
}
