package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency identifies one of the two in-app currencies.
type Currency string

const (
	CurrencySika      Currency = "sika"
	CurrencyGameCoins Currency = "game_coins"
)

// Tier is the jar level derived from un-redeemed savings.
type Tier string

const (
	TierBronze  Tier = "bronze"
	TierSilver  Tier = "silver"
	TierGold    Tier = "gold"
	TierDiamond Tier = "diamond"
)

// Savings thresholds at which the jar level changes.
var (
	tierSilverThreshold  = decimal.NewFromInt(50)
	tierGoldThreshold    = decimal.NewFromInt(200)
	tierDiamondThreshold = decimal.NewFromInt(500)
)

// SikaPerSavingsUnit is the fixed conversion rate: P1 saved = 100 Sika.
const SikaPerSavingsUnit = 100

// TierForSavings computes the jar level for a savings total.
// The tier is always a pure function of the current savings total.
func TierForSavings(savings decimal.Decimal) Tier {
	switch {
	case savings.GreaterThanOrEqual(tierDiamondThreshold):
		return TierDiamond
	case savings.GreaterThanOrEqual(tierGoldThreshold):
		return TierGold
	case savings.GreaterThanOrEqual(tierSilverThreshold):
		return TierSilver
	default:
		return TierBronze
	}
}

// SikaForSavings converts a savings amount to Sika at the fixed rate,
// flooring any fractional remainder.
func SikaForSavings(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(SikaPerSavingsUnit)).IntPart()
}

// Balance is the per-account aggregate of both currencies plus the savings
// total and derived jar level. One row per account, created with the account.
type Balance struct {
	AccountID         int64           `db:"account_id"`
	SavingsTotal      decimal.Decimal `db:"savings_total"`
	Sika              int64           `db:"sika"`
	LifetimeSika      int64           `db:"lifetime_sika"`
	GameCoins         int64           `db:"game_coins"`
	LifetimeGameCoins int64           `db:"lifetime_game_coins"`
	Tier              Tier            `db:"tier"`
	UpdatedAt         time.Time       `db:"updated_at"`
}

// Amount returns the current balance of the given currency.
func (b *Balance) Amount(currency Currency) int64 {
	if currency == CurrencyGameCoins {
		return b.GameCoins
	}
	return b.Sika
}

// CanAfford reports whether the balance covers a debit of amount in currency.
func (b *Balance) CanAfford(currency Currency, amount int64) bool {
	return b.Amount(currency) >= amount
}

// ApplyCredit adds amount to the currency and its lifetime counter.
func (b *Balance) ApplyCredit(currency Currency, amount int64) {
	if currency == CurrencyGameCoins {
		b.GameCoins += amount
		b.LifetimeGameCoins += amount
		return
	}
	b.Sika += amount
	b.LifetimeSika += amount
}

// ApplyDebit subtracts amount from the currency. Lifetime counters are
// untouched on debit.
func (b *Balance) ApplyDebit(currency Currency, amount int64) {
	if currency == CurrencyGameCoins {
		b.GameCoins -= amount
		return
	}
	b.Sika -= amount
}

// ApplySave adds a savings amount, credits the converted Sika, and
// recomputes the jar level. Returns the Sika credited.
func (b *Balance) ApplySave(amount decimal.Decimal) int64 {
	sika := SikaForSavings(amount)
	b.SavingsTotal = b.SavingsTotal.Add(amount)
	b.Sika += sika
	b.LifetimeSika += sika
	b.Tier = TierForSavings(b.SavingsTotal)
	return sika
}

// ApplyRedemptionReset zeroes the savings total and the savings-derived Sika
// and drops the jar level back to bronze. Lifetime counters and game coins
// survive redemption.
func (b *Balance) ApplyRedemptionReset() {
	b.SavingsTotal = decimal.Zero
	b.Sika = 0
	b.Tier = TierBronze
}
