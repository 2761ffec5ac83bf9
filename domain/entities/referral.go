package entities

import "time"

// MaxReferralDepth is how far up the chain bonuses propagate.
const MaxReferralDepth = 3

// referralBonuses is the fixed Sika payout per referral level.
var referralBonuses = map[int]int64{
	1: 200,
	2: 50,
	3: 10,
}

// ReferralBonusForLevel returns the Sika bonus paid for a referral level,
// or zero for levels outside the payout table.
func ReferralBonusForLevel(level int) int64 {
	return referralBonuses[level]
}

// Referral is a directed edge in the referral graph. For a given referred
// account there is at most one edge per level. The bonus is paid at most
// once, guarded by BonusPaid.
type Referral struct {
	ID          int64      `db:"id"`
	ReferrerID  int64      `db:"referrer_id"`
	ReferredID  int64      `db:"referred_id"`
	Level       int        `db:"level"`
	SikaBonus   int64      `db:"sika_bonus"`
	BonusPaid   bool       `db:"bonus_paid"`
	BonusPaidAt *time.Time `db:"bonus_paid_at"`
	CreatedAt   time.Time  `db:"created_at"`
}

// ReferralInfo is the aggregate view of an account's referral activity.
type ReferralInfo struct {
	ReferralCode   string
	TotalReferrals int
	ByLevel        map[int]int
	TotalBonus     int64
}
