package repository

import (
	"context"
	"fmt"

	"tapsika/database"
	"tapsika/domain/entities"
	"tapsika/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type accountRepository struct {
	q Queryable
}

// NewAccountRepository creates a new account repository.
func NewAccountRepository(db *database.DB) interfaces.AccountRepository {
	return &accountRepository{q: db.Pool}
}

// newAccountRepository creates a new account repository bound to a transaction.
func newAccountRepository(tx Queryable) interfaces.AccountRepository {
	return &accountRepository{q: tx}
}

const accountColumns = `id, external_id, display_name, referral_code, referred_by, created_at, updated_at`

func (r *accountRepository) GetByID(ctx context.Context, id int64) (*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

func (r *accountRepository) GetByExternalID(ctx context.Context, externalID string) (*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE external_id = $1`
	return r.scanOne(ctx, query, externalID)
}

func (r *accountRepository) GetByReferralCode(ctx context.Context, code string) (*entities.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE referral_code = $1`
	return r.scanOne(ctx, query, code)
}

func (r *accountRepository) Create(ctx context.Context, account *entities.Account) error {
	query := `
		INSERT INTO accounts (external_id, display_name, referral_code)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.q.QueryRow(ctx, query,
		account.ExternalID,
		account.DisplayName,
		account.ReferralCode,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account for external ID %s: %w", account.ExternalID, err)
	}
	return nil
}

func (r *accountRepository) SetReferredBy(ctx context.Context, accountID, referrerID int64) error {
	query := `
		UPDATE accounts
		SET referred_by = $1, updated_at = NOW()
		WHERE id = $2 AND referred_by IS NULL
	`
	result, err := r.q.Exec(ctx, query, referrerID, accountID)
	if err != nil {
		return fmt.Errorf("failed to set referrer for account %d: %w", accountID, err)
	}
	if result.RowsAffected() == 0 {
		// The guard failed: a concurrent apply already set the referrer.
		return fmt.Errorf("%w: account %d", entities.ErrAlreadyReferred, accountID)
	}
	return nil
}

func (r *accountRepository) scanOne(ctx context.Context, query string, arg any) (*entities.Account, error) {
	var account entities.Account
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&account.ID,
		&account.ExternalID,
		&account.DisplayName,
		&account.ReferralCode,
		&account.ReferredBy,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}
