package entities

// TransactionType represents the kind of balance-affecting event.
type TransactionType string

// All transaction types supported by the ledger.
const (
	TransactionTypeSave          TransactionType = "save"
	TransactionTypeGameEarn      TransactionType = "game_earn"
	TransactionTypeGameSpend     TransactionType = "game_spend"
	TransactionTypeReferralBonus TransactionType = "referral_bonus"
	TransactionTypeRedeem        TransactionType = "redeem"
)

// IsCreditType returns true if the transaction type adds currency.
func (tt TransactionType) IsCreditType() bool {
	return tt == TransactionTypeSave ||
		tt == TransactionTypeGameEarn ||
		tt == TransactionTypeReferralBonus
}

// IsDebitType returns true if the transaction type removes currency.
func (tt TransactionType) IsDebitType() bool {
	return tt == TransactionTypeGameSpend || tt == TransactionTypeRedeem
}

// String returns the string representation of the transaction type.
func (tt TransactionType) String() string {
	return string(tt)
}
