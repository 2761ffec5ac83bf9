package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JarShakeTier is the prize tier drawn for a Jar Shake entry.
type JarShakeTier string

const (
	JarShakeTierBronze   JarShakeTier = "bronze"
	JarShakeTierSilver   JarShakeTier = "silver"
	JarShakeTierGold     JarShakeTier = "gold"
	JarShakeTierDiamond  JarShakeTier = "diamond"
	JarShakeTierPlatinum JarShakeTier = "platinum"
)

// JarShakeRewardType distinguishes how a prize is delivered.
type JarShakeRewardType string

const (
	JarShakeRewardAirtime JarShakeRewardType = "airtime"
	JarShakeRewardVoucher JarShakeRewardType = "voucher"
)

// JarShakeEntryCost is the fixed game-coin cost of one entry.
const JarShakeEntryCost = 2500

// JarShakeMinMonthlySavings is the monthly savings floor for eligibility.
var JarShakeMinMonthlySavings = decimal.NewFromInt(20)

// jarShakeRewards is the prize amount per tier.
var jarShakeRewards = map[JarShakeTier]int64{
	JarShakeTierBronze:   2,
	JarShakeTierSilver:   5,
	JarShakeTierGold:     15,
	JarShakeTierDiamond:  30,
	JarShakeTierPlatinum: 100,
}

// JarShakeRewardForTier returns the prize amount for a tier.
func JarShakeRewardForTier(tier JarShakeTier) int64 {
	return jarShakeRewards[tier]
}

// JarShakeRewardTypeForTier returns how a tier's prize is delivered:
// bronze and silver pay out as airtime, everything above as a voucher.
func JarShakeRewardTypeForTier(tier JarShakeTier) JarShakeRewardType {
	if tier == JarShakeTierBronze || tier == JarShakeTierSilver {
		return JarShakeRewardAirtime
	}
	return JarShakeRewardVoucher
}

// JarShakeEntry is one (event, account) lottery entry. An account enters a
// given event at most once.
type JarShakeEntry struct {
	ID               int64              `db:"id"`
	EventID          uuid.UUID          `db:"event_id"`
	AccountID        int64              `db:"account_id"`
	CoinsSpent       int64              `db:"coins_spent"`
	SavingsThisMonth decimal.Decimal    `db:"savings_this_month"`
	RewardTier       JarShakeTier       `db:"reward_tier"`
	RewardAmount     int64              `db:"reward_amount"`
	RewardType       JarShakeRewardType `db:"reward_type"`
	CreatedAt        time.Time          `db:"created_at"`
}

// JarShakeEligibility describes how close an account is to entering.
type JarShakeEligibility struct {
	Eligible         bool
	GameCoins        int64
	SavingsThisMonth decimal.Decimal
	CoinsNeeded      int64
	SavingsNeeded    decimal.Decimal
}
