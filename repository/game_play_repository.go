package repository

import (
	"context"
	"fmt"
	"time"

	"tapsika/database"
	"tapsika/domain/entities"
	"tapsika/domain/interfaces"
)

type gamePlayRepository struct {
	q Queryable
}

// NewGamePlayRepository creates a new game play repository.
func NewGamePlayRepository(db *database.DB) interfaces.GamePlayRepository {
	return &gamePlayRepository{q: db.Pool}
}

// newGamePlayRepository creates a new game play repository bound to a transaction.
func newGamePlayRepository(tx Queryable) interfaces.GamePlayRepository {
	return &gamePlayRepository{q: tx}
}

func (r *gamePlayRepository) CountForDate(ctx context.Context, accountID int64, date time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM game_plays WHERE account_id = $1 AND play_date = $2`

	var count int
	if err := r.q.QueryRow(ctx, query, accountID, date).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count plays for account %d: %w", accountID, err)
	}
	return count, nil
}

func (r *gamePlayRepository) Create(ctx context.Context, play *entities.GamePlay) error {
	query := `
		INSERT INTO game_plays (account_id, game_type, play_date, play_number, score, coins_earned)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.q.QueryRow(ctx, query,
		play.AccountID,
		play.GameType,
		play.PlayDate,
		play.PlayNumber,
		play.Score,
		play.CoinsEarned,
	).Scan(&play.ID, &play.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create game play for account %d: %w", play.AccountID, err)
	}
	return nil
}

func (r *gamePlayRepository) GetForDate(ctx context.Context, accountID int64, date time.Time) ([]*entities.GamePlay, error) {
	query := `
		SELECT id, account_id, game_type, play_date, play_number, score, coins_earned, created_at
		FROM game_plays
		WHERE account_id = $1 AND play_date = $2
		ORDER BY play_number ASC
	`
	rows, err := r.q.Query(ctx, query, accountID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get plays for account %d: %w", accountID, err)
	}
	defer rows.Close()

	var plays []*entities.GamePlay
	for rows.Next() {
		var play entities.GamePlay
		err := rows.Scan(
			&play.ID,
			&play.AccountID,
			&play.GameType,
			&play.PlayDate,
			&play.PlayNumber,
			&play.Score,
			&play.CoinsEarned,
			&play.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game play: %w", err)
		}
		plays = append(plays, &play)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate game plays: %w", err)
	}

	return plays, nil
}
