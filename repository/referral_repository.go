package repository

import (
	"context"
	"fmt"
	"time"

	"tapsika/database"
	"tapsika/domain/entities"
	"tapsika/domain/interfaces"
)

type referralRepository struct {
	q Queryable
}

// NewReferralRepository creates a new referral repository.
func NewReferralRepository(db *database.DB) interfaces.ReferralRepository {
	return &referralRepository{q: db.Pool}
}

// newReferralRepository creates a new referral repository bound to a transaction.
func newReferralRepository(tx Queryable) interfaces.ReferralRepository {
	return &referralRepository{q: tx}
}

const referralColumns = `id, referrer_id, referred_id, level, sika_bonus, bonus_paid, bonus_paid_at, created_at`

func (r *referralRepository) Create(ctx context.Context, referral *entities.Referral) error {
	query := `
		INSERT INTO referrals (referrer_id, referred_id, level)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.q.QueryRow(ctx, query,
		referral.ReferrerID,
		referral.ReferredID,
		referral.Level,
	).Scan(&referral.ID, &referral.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create level %d referral: %w", referral.Level, err)
	}
	return nil
}

func (r *referralRepository) GetByReferred(ctx context.Context, referredID int64) ([]*entities.Referral, error) {
	query := `SELECT ` + referralColumns + ` FROM referrals WHERE referred_id = $1 ORDER BY level ASC`
	return r.list(ctx, query, referredID)
}

func (r *referralRepository) GetUnpaidByReferred(ctx context.Context, referredID int64) ([]*entities.Referral, error) {
	query := `SELECT ` + referralColumns + ` FROM referrals WHERE referred_id = $1 AND NOT bonus_paid ORDER BY level ASC`
	return r.list(ctx, query, referredID)
}

func (r *referralRepository) GetByReferrer(ctx context.Context, referrerID int64) ([]*entities.Referral, error) {
	query := `SELECT ` + referralColumns + ` FROM referrals WHERE referrer_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, referrerID)
}

// MarkPaid flips the bonus_paid guard. The WHERE clause makes the check and
// set a single statement, so an edge can never pay twice.
func (r *referralRepository) MarkPaid(ctx context.Context, referralID int64, bonus int64, paidAt time.Time) (bool, error) {
	query := `
		UPDATE referrals
		SET sika_bonus = $1, bonus_paid = TRUE, bonus_paid_at = $2
		WHERE id = $3 AND NOT bonus_paid
	`
	result, err := r.q.Exec(ctx, query, bonus, paidAt, referralID)
	if err != nil {
		return false, fmt.Errorf("failed to mark referral %d paid: %w", referralID, err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *referralRepository) list(ctx context.Context, query string, arg any) ([]*entities.Referral, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to get referrals: %w", err)
	}
	defer rows.Close()

	var referrals []*entities.Referral
	for rows.Next() {
		var referral entities.Referral
		err := rows.Scan(
			&referral.ID,
			&referral.ReferrerID,
			&referral.ReferredID,
			&referral.Level,
			&referral.SikaBonus,
			&referral.BonusPaid,
			&referral.BonusPaidAt,
			&referral.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan referral: %w", err)
		}
		referrals = append(referrals, &referral)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate referrals: %w", err)
	}

	return referrals, nil
}
