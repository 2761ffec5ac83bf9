package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"tapsika/domain/entities"
	"tapsika/domain/interfaces"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// jarShakeTierWeights is the cumulative draw distribution in basis points:
// bronze 60%, silver 25%, gold 10%, diamond 4%, platinum 1%. Each entry
// draws independently of every other entrant.
var jarShakeTierWeights = []struct {
	tier entities.JarShakeTier
	upTo int64
}{
	{entities.JarShakeTierBronze, 6000},
	{entities.JarShakeTierSilver, 8500},
	{entities.JarShakeTierGold, 9500},
	{entities.JarShakeTierDiamond, 9900},
	{entities.JarShakeTierPlatinum, 10000},
}

// jarShakeService runs the coin-funded mini-lottery.
type jarShakeService struct {
	balanceRepo    interfaces.BalanceRepository
	streakRepo     interfaces.StreakRepository
	jarShakeRepo   interfaces.JarShakeRepository
	balanceService interfaces.BalanceService
}

// NewJarShakeService creates a new jar shake service.
func NewJarShakeService(
	balanceRepo interfaces.BalanceRepository,
	streakRepo interfaces.StreakRepository,
	jarShakeRepo interfaces.JarShakeRepository,
	balanceService interfaces.BalanceService,
) interfaces.JarShakeService {
	return &jarShakeService{
		balanceRepo:    balanceRepo,
		streakRepo:     streakRepo,
		jarShakeRepo:   jarShakeRepo,
		balanceService: balanceService,
	}
}

func (s *jarShakeService) Eligibility(ctx context.Context, accountID int64) (*entities.JarShakeEligibility, error) {
	balance, err := s.balanceRepo.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	if balance == nil {
		return nil, fmt.Errorf("%w: account %d", entities.ErrAccountNotFound, accountID)
	}

	savingsThisMonth := decimal.Zero
	streak, err := s.streakRepo.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get streak: %w", err)
	}
	if streak != nil {
		savingsThisMonth = streak.AmountThisMonth
	}

	coinsNeeded := int64(entities.JarShakeEntryCost) - balance.GameCoins
	if coinsNeeded < 0 {
		coinsNeeded = 0
	}
	savingsNeeded := entities.JarShakeMinMonthlySavings.Sub(savingsThisMonth)
	if savingsNeeded.IsNegative() {
		savingsNeeded = decimal.Zero
	}

	return &entities.JarShakeEligibility{
		Eligible:         coinsNeeded == 0 && savingsNeeded.IsZero(),
		GameCoins:        balance.GameCoins,
		SavingsThisMonth: savingsThisMonth,
		CoinsNeeded:      coinsNeeded,
		SavingsNeeded:    savingsNeeded,
	}, nil
}

// Enter debits the fixed entry cost, draws a weighted reward tier, and
// records the entry. One entry per account per event.
func (s *jarShakeService) Enter(ctx context.Context, eventID uuid.UUID, accountID int64) (*entities.JarShakeEntry, error) {
	eligibility, err := s.Eligibility(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if !eligibility.Eligible {
		return nil, fmt.Errorf("%w: need %d more coins and P%s more savings this month",
			entities.ErrNotEligible, eligibility.CoinsNeeded, eligibility.SavingsNeeded.StringFixed(2))
	}

	existing, err := s.jarShakeRepo.GetByEventAndAccount(ctx, eventID, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing entry: %w", err)
	}
	if existing != nil {
		return nil, entities.ErrAlreadyEntered
	}

	if _, err := s.balanceService.Debit(ctx, accountID, entities.CurrencyGameCoins, entities.JarShakeEntryCost,
		entities.TransactionTypeGameSpend, "Jar Shake entry"); err != nil {
		return nil, err
	}

	tier, err := drawJarShakeTier()
	if err != nil {
		return nil, err
	}

	entry := &entities.JarShakeEntry{
		EventID:          eventID,
		AccountID:        accountID,
		CoinsSpent:       entities.JarShakeEntryCost,
		SavingsThisMonth: eligibility.SavingsThisMonth,
		RewardTier:       tier,
		RewardAmount:     entities.JarShakeRewardForTier(tier),
		RewardType:       entities.JarShakeRewardTypeForTier(tier),
	}
	if err := s.jarShakeRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to create jar shake entry: %w", err)
	}

	return entry, nil
}

func drawJarShakeTier() (entities.JarShakeTier, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("random generation failed: %w", err)
	}
	roll := n.Int64()
	for _, w := range jarShakeTierWeights {
		if roll < w.upTo {
			return w.tier, nil
		}
	}
	return entities.JarShakeTierBronze, nil
}
