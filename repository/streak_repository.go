package repository

import (
	"context"
	"fmt"

	"tapsika/database"
	"tapsika/domain/entities"
	"tapsika/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type streakRepository struct {
	q Queryable
}

// NewStreakRepository creates a new streak repository.
func NewStreakRepository(db *database.DB) interfaces.StreakRepository {
	return &streakRepository{q: db.Pool}
}

// newStreakRepository creates a new streak repository bound to a transaction.
func newStreakRepository(tx Queryable) interfaces.StreakRepository {
	return &streakRepository{q: tx}
}

const streakColumns = `account_id, current_streak, longest_streak, last_save_date, saves_this_month, amount_this_month, month_key, updated_at`

func (r *streakRepository) GetByAccount(ctx context.Context, accountID int64) (*entities.Streak, error) {
	query := `SELECT ` + streakColumns + ` FROM streaks WHERE account_id = $1`

	streak, err := scanStreak(r.q.QueryRow(ctx, query, accountID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return streak, err
}

func (r *streakRepository) Create(ctx context.Context, accountID int64, monthKey string) (*entities.Streak, error) {
	query := `
		INSERT INTO streaks (account_id, month_key)
		VALUES ($1, $2)
		RETURNING ` + streakColumns
	return scanStreak(r.q.QueryRow(ctx, query, accountID, monthKey))
}

func (r *streakRepository) Update(ctx context.Context, streak *entities.Streak) error {
	query := `
		UPDATE streaks
		SET current_streak = $1,
		    longest_streak = $2,
		    last_save_date = $3,
		    saves_this_month = $4,
		    amount_this_month = $5,
		    month_key = $6,
		    updated_at = NOW()
		WHERE account_id = $7
	`
	result, err := r.q.Exec(ctx, query,
		streak.CurrentStreak,
		streak.LongestStreak,
		streak.LastSaveDate,
		streak.SavesThisMonth,
		streak.AmountThisMonth,
		streak.MonthKey,
		streak.AccountID,
	)
	if err != nil {
		return fmt.Errorf("failed to update streak for account %d: %w", streak.AccountID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("streak for account %d not found", streak.AccountID)
	}
	return nil
}

func scanStreak(row pgx.Row) (*entities.Streak, error) {
	var streak entities.Streak
	err := row.Scan(
		&streak.AccountID,
		&streak.CurrentStreak,
		&streak.LongestStreak,
		&streak.LastSaveDate,
		&streak.SavesThisMonth,
		&streak.AmountThisMonth,
		&streak.MonthKey,
		&streak.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, pgx.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan streak: %w", err)
	}
	return &streak, nil
}
