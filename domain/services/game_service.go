package services

import (
	"context"
	"fmt"
	"time"

	"tapsika/domain/entities"
	"tapsika/domain/interfaces"
)

// gameService enforces the daily play quota. The engine never embeds any
// game's scoring formula; games report score and coins already computed.
type gameService struct {
	gamePlayRepo   interfaces.GamePlayRepository
	balanceRepo    interfaces.BalanceRepository
	balanceService interfaces.BalanceService
}

// NewGameService creates a new game service.
func NewGameService(gamePlayRepo interfaces.GamePlayRepository, balanceRepo interfaces.BalanceRepository, balanceService interfaces.BalanceService) interfaces.GameService {
	return &gameService{
		gamePlayRepo:   gamePlayRepo,
		balanceRepo:    balanceRepo,
		balanceService: balanceService,
	}
}

func (s *gameService) PlaysToday(ctx context.Context, accountID int64, today time.Time) (int, error) {
	count, err := s.gamePlayRepo.CountForDate(ctx, accountID, entities.DateOnly(today))
	if err != nil {
		return 0, fmt.Errorf("failed to count plays: %w", err)
	}
	return count, nil
}

// RecordPlay checks the quota and inserts the play with the next ordinal.
// The balance row lock taken up front serializes the count and insert
// against concurrent calls for the same account; the unique
// (account, date, ordinal) constraint backstops the invariant.
func (s *gameService) RecordPlay(ctx context.Context, accountID int64, now time.Time, score int, coinsEarned int64) (*interfaces.PlayResult, error) {
	if score < 0 {
		return nil, fmt.Errorf("score must not be negative, got %d", score)
	}
	if coinsEarned < 0 {
		return nil, fmt.Errorf("coins earned must not be negative, got %d", coinsEarned)
	}

	today := entities.DateOnly(now)

	locked, err := s.balanceRepo.GetByAccountForUpdate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock balance: %w", err)
	}
	if locked == nil {
		return nil, fmt.Errorf("%w: account %d", entities.ErrAccountNotFound, accountID)
	}

	count, err := s.gamePlayRepo.CountForDate(ctx, accountID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to count plays: %w", err)
	}
	if count >= entities.MaxPlaysPerDay {
		return nil, fmt.Errorf("%w: %d plays recorded for %s", entities.ErrQuotaExceeded, count, today.Format("2006-01-02"))
	}

	play := &entities.GamePlay{
		AccountID:   accountID,
		GameType:    entities.DefaultGameType,
		PlayDate:    today,
		PlayNumber:  count + 1,
		Score:       score,
		CoinsEarned: coinsEarned,
	}
	if err := s.gamePlayRepo.Create(ctx, play); err != nil {
		return nil, fmt.Errorf("failed to record play: %w", err)
	}

	balance := locked
	if coinsEarned > 0 {
		balance, err = s.balanceService.Credit(ctx, accountID, entities.CurrencyGameCoins, coinsEarned,
			entities.TransactionTypeGameEarn, fmt.Sprintf("Coin Catch: scored %d", score))
		if err != nil {
			return nil, err
		}
	}

	return &interfaces.PlayResult{
		Play:           play,
		Balance:        balance,
		PlaysRemaining: entities.MaxPlaysPerDay - play.PlayNumber,
	}, nil
}
