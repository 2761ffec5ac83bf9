package entities

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one append-only ledger entry. Deltas are signed; a row is
// never mutated or deleted after it is written.
type Transaction struct {
	ID              int64           `db:"id"`
	AccountID       int64           `db:"account_id"`
	Type            TransactionType `db:"type"`
	SavingsAmount   decimal.Decimal `db:"savings_amount"`
	SikaAmount      int64           `db:"sika_amount"`
	GameCoinsAmount int64           `db:"game_coins_amount"`
	Description     string          `db:"description"`
	CreatedAt       time.Time       `db:"created_at"`
}

// Validate performs basic consistency checks before the entry is recorded.
func (t *Transaction) Validate() error {
	if t.AccountID == 0 {
		return errors.New("transaction requires an account")
	}
	if t.SavingsAmount.IsZero() && t.SikaAmount == 0 && t.GameCoinsAmount == 0 {
		return errors.New("transaction must carry at least one non-zero delta")
	}
	return nil
}
