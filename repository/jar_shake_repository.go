package repository

import (
	"context"
	"fmt"

	"tapsika/database"
	"tapsika/domain/entities"
	"tapsika/domain/interfaces"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type jarShakeRepository struct {
	q Queryable
}

// NewJarShakeRepository creates a new jar shake repository.
func NewJarShakeRepository(db *database.DB) interfaces.JarShakeRepository {
	return &jarShakeRepository{q: db.Pool}
}

// newJarShakeRepository creates a new jar shake repository bound to a transaction.
func newJarShakeRepository(tx Queryable) interfaces.JarShakeRepository {
	return &jarShakeRepository{q: tx}
}

func (r *jarShakeRepository) GetByEventAndAccount(ctx context.Context, eventID uuid.UUID, accountID int64) (*entities.JarShakeEntry, error) {
	query := `
		SELECT id, event_id, account_id, coins_spent, savings_this_month, reward_tier, reward_amount, reward_type, created_at
		FROM jar_shake_entries
		WHERE event_id = $1 AND account_id = $2
	`
	var entry entities.JarShakeEntry
	var tier, rewardType string
	err := r.q.QueryRow(ctx, query, eventID, accountID).Scan(
		&entry.ID,
		&entry.EventID,
		&entry.AccountID,
		&entry.CoinsSpent,
		&entry.SavingsThisMonth,
		&tier,
		&entry.RewardAmount,
		&rewardType,
		&entry.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get jar shake entry for account %d: %w", accountID, err)
	}
	entry.RewardTier = entities.JarShakeTier(tier)
	entry.RewardType = entities.JarShakeRewardType(rewardType)
	return &entry, nil
}

func (r *jarShakeRepository) Create(ctx context.Context, entry *entities.JarShakeEntry) error {
	query := `
		INSERT INTO jar_shake_entries (event_id, account_id, coins_spent, savings_this_month, reward_tier, reward_amount, reward_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.q.QueryRow(ctx, query,
		entry.EventID,
		entry.AccountID,
		entry.CoinsSpent,
		entry.SavingsThisMonth,
		string(entry.RewardTier),
		entry.RewardAmount,
		string(entry.RewardType),
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create jar shake entry for account %d: %w", entry.AccountID, err)
	}
	return nil
}
