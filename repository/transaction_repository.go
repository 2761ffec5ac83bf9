package repository

import (
	"context"
	"fmt"

	"tapsika/database"
	"tapsika/domain/entities"
	"tapsika/domain/interfaces"
)

type transactionRepository struct {
	q Queryable
}

// NewTransactionRepository creates a new transaction repository.
func NewTransactionRepository(db *database.DB) interfaces.TransactionRepository {
	return &transactionRepository{q: db.Pool}
}

// newTransactionRepository creates a new transaction repository bound to a transaction.
func newTransactionRepository(tx Queryable) interfaces.TransactionRepository {
	return &transactionRepository{q: tx}
}

// Record appends a ledger entry. There is deliberately no update or delete
// on this table.
func (r *transactionRepository) Record(ctx context.Context, tx *entities.Transaction) error {
	query := `
		INSERT INTO transactions (account_id, type, savings_amount, sika_amount, game_coins_amount, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.q.QueryRow(ctx, query,
		tx.AccountID,
		string(tx.Type),
		tx.SavingsAmount,
		tx.SikaAmount,
		tx.GameCoinsAmount,
		tx.Description,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record transaction for account %d: %w", tx.AccountID, err)
	}
	return nil
}

func (r *transactionRepository) GetByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.Transaction, error) {
	query := `
		SELECT id, account_id, type, savings_amount, sika_amount, game_coins_amount, description, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	rows, err := r.q.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions for account %d: %w", accountID, err)
	}
	defer rows.Close()

	var transactions []*entities.Transaction
	for rows.Next() {
		var tx entities.Transaction
		var txType string
		err := rows.Scan(
			&tx.ID,
			&tx.AccountID,
			&txType,
			&tx.SavingsAmount,
			&tx.SikaAmount,
			&tx.GameCoinsAmount,
			&tx.Description,
			&tx.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		tx.Type = entities.TransactionType(txType)
		transactions = append(transactions, &tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}
