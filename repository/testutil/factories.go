package testutil

import (
	"context"
	"fmt"
	"testing"

	"tapsika/database"
	"tapsika/domain/entities"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// NewTestAccount builds an unsaved account with default values
func NewTestAccount(externalID, displayName string) *entities.Account {
	if displayName == "" {
		displayName = "Tapsika User"
	}
	return &entities.Account{
		ExternalID:   externalID,
		DisplayName:  displayName,
		ReferralCode: entities.GenerateReferralCode(externalID),
	}
}

// SeedAccount inserts an account with its zeroed balance and streak rows,
// the same trio first contact creates in production.
func SeedAccount(t *testing.T, db *database.DB, externalID, displayName string) *entities.Account {
	t.Helper()
	ctx := context.Background()

	account := NewTestAccount(externalID, displayName)
	err := db.QueryRow(ctx, `
		INSERT INTO accounts (external_id, display_name, referral_code)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, account.ExternalID, account.DisplayName, account.ReferralCode).
		Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	require.NoError(t, err)

	_, err = db.Exec(ctx, `INSERT INTO balances (account_id) VALUES ($1)`, account.ID)
	require.NoError(t, err)
	_, err = db.Exec(ctx, `INSERT INTO streaks (account_id) VALUES ($1)`, account.ID)
	require.NoError(t, err)

	return account
}

// SetBalance overwrites the currency columns of an account's balance row.
func SetBalance(t *testing.T, db *database.DB, accountID int64, savings decimal.Decimal, sika, gameCoins int64) {
	t.Helper()

	tag, err := db.Exec(context.Background(), `
		UPDATE balances
		SET savings_total = $1,
		    sika = $2,
		    lifetime_sika = GREATEST(lifetime_sika, $2),
		    game_coins = $3,
		    lifetime_game_coins = GREATEST(lifetime_game_coins, $3),
		    tier = $4
		WHERE account_id = $5
	`, savings, sika, gameCoins, string(entities.TierForSavings(savings)), accountID)
	require.NoError(t, err)
	require.EqualValues(t, 1, tag.RowsAffected())
}

// SetMonthlySavings overwrites the streak row's monthly aggregate.
func SetMonthlySavings(t *testing.T, db *database.DB, accountID int64, monthKey string, amount decimal.Decimal) {
	t.Helper()

	tag, err := db.Exec(context.Background(), `
		UPDATE streaks
		SET month_key = $1, amount_this_month = $2, saves_this_month = 1
		WHERE account_id = $3
	`, monthKey, amount, accountID)
	require.NoError(t, err)
	require.EqualValues(t, 1, tag.RowsAffected())
}

// UniqueExternalID derives a distinct external identity per test and index.
func UniqueExternalID(t *testing.T, n int) string {
	return fmt.Sprintf("%s-%d", t.Name(), n)
}
