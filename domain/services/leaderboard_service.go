package services

import (
	"context"
	"fmt"

	"tapsika/domain/entities"
	"tapsika/domain/interfaces"
)

// leaderboardService serves derived rankings. Rank is recomputed from
// lifetime Sika on every read; nothing is stored.
type leaderboardService struct {
	balanceRepo interfaces.BalanceRepository
}

// NewLeaderboardService creates a new leaderboard service.
func NewLeaderboardService(balanceRepo interfaces.BalanceRepository) interfaces.LeaderboardService {
	return &leaderboardService{balanceRepo: balanceRepo}
}

func (s *leaderboardService) GetLeaderboard(ctx context.Context, limit int) ([]*entities.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	entries, err := s.balanceRepo.GetTopByLifetimeSika(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	for i, entry := range entries {
		entry.Rank = i + 1
	}
	return entries, nil
}

func (s *leaderboardService) GetRank(ctx context.Context, accountID int64) (int64, error) {
	balance, err := s.balanceRepo.GetByAccount(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	if balance == nil {
		return 0, fmt.Errorf("%w: account %d", entities.ErrAccountNotFound, accountID)
	}

	ahead, err := s.balanceRepo.CountLifetimeSikaGreaterThan(ctx, balance.LifetimeSika)
	if err != nil {
		return 0, fmt.Errorf("failed to count higher balances: %w", err)
	}
	return ahead + 1, nil
}
