package repository

import (
	"context"
	"fmt"
	"time"

	"tapsika/database"
	"tapsika/domain/entities"
	"tapsika/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type redemptionRepository struct {
	q Queryable
}

// NewRedemptionRepository creates a new redemption repository.
func NewRedemptionRepository(db *database.DB) interfaces.RedemptionRepository {
	return &redemptionRepository{q: db.Pool}
}

// newRedemptionRepository creates a new redemption repository bound to a transaction.
func newRedemptionRepository(tx Queryable) interfaces.RedemptionRepository {
	return &redemptionRepository{q: tx}
}

const redemptionColumns = `id, account_id, partner_id, voucher_code, voucher_value, sika_spent, status, expires_at, created_at`

func (r *redemptionRepository) Create(ctx context.Context, redemption *entities.Redemption) error {
	query := `
		INSERT INTO redemptions (account_id, partner_id, voucher_code, voucher_value, sika_spent, status, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.q.QueryRow(ctx, query,
		redemption.AccountID,
		redemption.PartnerID,
		redemption.VoucherCode,
		redemption.VoucherValue,
		redemption.SikaSpent,
		string(redemption.Status),
		redemption.ExpiresAt,
	).Scan(&redemption.ID, &redemption.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create redemption for account %d: %w", redemption.AccountID, err)
	}
	return nil
}

func (r *redemptionRepository) GetByCode(ctx context.Context, voucherCode string) (*entities.Redemption, error) {
	query := `SELECT ` + redemptionColumns + ` FROM redemptions WHERE voucher_code = $1`

	var redemption entities.Redemption
	var status string
	err := r.q.QueryRow(ctx, query, voucherCode).Scan(
		&redemption.ID,
		&redemption.AccountID,
		&redemption.PartnerID,
		&redemption.VoucherCode,
		&redemption.VoucherValue,
		&redemption.SikaSpent,
		&status,
		&redemption.ExpiresAt,
		&redemption.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get redemption by code: %w", err)
	}
	redemption.Status = entities.RedemptionStatus(status)
	return &redemption, nil
}

func (r *redemptionRepository) GetByAccount(ctx context.Context, accountID int64) ([]*entities.Redemption, error) {
	query := `SELECT ` + redemptionColumns + ` FROM redemptions WHERE account_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.q.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get redemptions for account %d: %w", accountID, err)
	}
	defer rows.Close()

	var redemptions []*entities.Redemption
	for rows.Next() {
		var redemption entities.Redemption
		var status string
		err := rows.Scan(
			&redemption.ID,
			&redemption.AccountID,
			&redemption.PartnerID,
			&redemption.VoucherCode,
			&redemption.VoucherValue,
			&redemption.SikaSpent,
			&status,
			&redemption.ExpiresAt,
			&redemption.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan redemption: %w", err)
		}
		redemption.Status = entities.RedemptionStatus(status)
		redemptions = append(redemptions, &redemption)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate redemptions: %w", err)
	}

	return redemptions, nil
}

// ExpireDue transitions issued vouchers past their expiry. Consumed vouchers
// are terminal and never touched.
func (r *redemptionRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE redemptions
		SET status = 'expired'
		WHERE status = 'issued' AND expires_at <= $1
	`
	result, err := r.q.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to expire redemptions: %w", err)
	}
	return result.RowsAffected(), nil
}
