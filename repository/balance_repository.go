package repository

import (
	"context"
	"fmt"

	"tapsika/database"
	"tapsika/domain/entities"
	"tapsika/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type balanceRepository struct {
	q Queryable
}

// NewBalanceRepository creates a new balance repository.
func NewBalanceRepository(db *database.DB) interfaces.BalanceRepository {
	return &balanceRepository{q: db.Pool}
}

// newBalanceRepository creates a new balance repository bound to a transaction.
func newBalanceRepository(tx Queryable) interfaces.BalanceRepository {
	return &balanceRepository{q: tx}
}

const balanceColumns = `account_id, savings_total, sika, lifetime_sika, game_coins, lifetime_game_coins, tier, updated_at`

func (r *balanceRepository) GetByAccount(ctx context.Context, accountID int64) (*entities.Balance, error) {
	query := `SELECT ` + balanceColumns + ` FROM balances WHERE account_id = $1`
	return r.scanOne(ctx, query, accountID)
}

// GetByAccountForUpdate locks the balance row for the rest of the
// transaction. All per-account mutations take this lock first, which
// serializes them without contending across accounts.
func (r *balanceRepository) GetByAccountForUpdate(ctx context.Context, accountID int64) (*entities.Balance, error) {
	query := `SELECT ` + balanceColumns + ` FROM balances WHERE account_id = $1 FOR UPDATE`
	return r.scanOne(ctx, query, accountID)
}

func (r *balanceRepository) Create(ctx context.Context, accountID int64) (*entities.Balance, error) {
	query := `
		INSERT INTO balances (account_id)
		VALUES ($1)
		RETURNING ` + balanceColumns
	return r.scanRow(r.q.QueryRow(ctx, query, accountID))
}

func (r *balanceRepository) Update(ctx context.Context, balance *entities.Balance) error {
	query := `
		UPDATE balances
		SET savings_total = $1,
		    sika = $2,
		    lifetime_sika = $3,
		    game_coins = $4,
		    lifetime_game_coins = $5,
		    tier = $6,
		    updated_at = NOW()
		WHERE account_id = $7
	`
	result, err := r.q.Exec(ctx, query,
		balance.SavingsTotal,
		balance.Sika,
		balance.LifetimeSika,
		balance.GameCoins,
		balance.LifetimeGameCoins,
		string(balance.Tier),
		balance.AccountID,
	)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %d: %w", balance.AccountID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("balance for account %d not found", balance.AccountID)
	}
	return nil
}

func (r *balanceRepository) GetTopByLifetimeSika(ctx context.Context, limit int) ([]*entities.LeaderboardEntry, error) {
	query := `
		SELECT b.account_id, a.display_name, b.lifetime_sika, b.lifetime_game_coins, b.tier
		FROM balances b
		JOIN accounts a ON a.id = b.account_id
		ORDER BY b.lifetime_sika DESC, b.account_id ASC
		LIMIT $1
	`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top balances: %w", err)
	}
	defer rows.Close()

	var entries []*entities.LeaderboardEntry
	for rows.Next() {
		var entry entities.LeaderboardEntry
		var tier string
		err := rows.Scan(
			&entry.AccountID,
			&entry.DisplayName,
			&entry.LifetimeSika,
			&entry.LifetimeGameCoins,
			&tier,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entry.Tier = entities.Tier(tier)
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaderboard entries: %w", err)
	}

	return entries, nil
}

func (r *balanceRepository) CountLifetimeSikaGreaterThan(ctx context.Context, lifetimeSika int64) (int64, error) {
	query := `SELECT COUNT(*) FROM balances WHERE lifetime_sika > $1`

	var count int64
	if err := r.q.QueryRow(ctx, query, lifetimeSika).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count balances: %w", err)
	}
	return count, nil
}

func (r *balanceRepository) scanOne(ctx context.Context, query string, accountID int64) (*entities.Balance, error) {
	balance, err := r.scanRow(r.q.QueryRow(ctx, query, accountID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return balance, err
}

func (r *balanceRepository) scanRow(row pgx.Row) (*entities.Balance, error) {
	var balance entities.Balance
	var tier string
	err := row.Scan(
		&balance.AccountID,
		&balance.SavingsTotal,
		&balance.Sika,
		&balance.LifetimeSika,
		&balance.GameCoins,
		&balance.LifetimeGameCoins,
		&tier,
		&balance.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, pgx.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan balance: %w", err)
	}
	balance.Tier = entities.Tier(tier)
	return &balance, nil
}
