package interfaces

import (
	"context"
	"time"

	"tapsika/domain/entities"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaveResult is the outcome of recording a savings event.
type SaveResult struct {
	Balance       *entities.Balance
	SikaCredited  int64
	CurrentStreak int
	LongestStreak int
	BonusesPaid   []int64
}

// PlayResult is the outcome of recording a game play.
type PlayResult struct {
	Play           *entities.GamePlay
	Balance        *entities.Balance
	PlaysRemaining int
}

// VoucherEligibility describes whether an account can redeem and for how much.
type VoucherEligibility struct {
	SavingsTotal decimal.Decimal
	VoucherValue decimal.Decimal
	CanRedeem    bool
}

// AccountService resolves external identities to internal accounts.
type AccountService interface {
	// ResolveOrCreate returns the account for an external identity, creating
	// the account with a zeroed balance and streak if none exists.
	// The second return is true when a new account was created.
	ResolveOrCreate(ctx context.Context, externalID, displayName string) (*entities.Account, bool, error)

	// GetProfile returns an account with its balance and streak.
	GetProfile(ctx context.Context, accountID int64) (*entities.Account, *entities.Balance, *entities.Streak, error)
}

// BalanceService is the balance store: every mutation writes through the
// transaction log within the caller's unit of work.
type BalanceService interface {
	// Credit adds amount of currency and appends a ledger entry.
	Credit(ctx context.Context, accountID int64, currency entities.Currency, amount int64, txType entities.TransactionType, description string) (*entities.Balance, error)

	// Debit removes amount of currency and appends a ledger entry.
	// Fails with ErrInsufficientBalance before any write if the balance
	// cannot cover the amount.
	Debit(ctx context.Context, accountID int64, currency entities.Currency, amount int64, txType entities.TransactionType, description string) (*entities.Balance, error)

	// RecordSave applies a savings event: converts to Sika, recomputes the
	// jar level, advances the streak, and settles any pending referral
	// bonuses, all as one logical operation.
	RecordSave(ctx context.Context, accountID int64, amount decimal.Decimal, now time.Time) (*SaveResult, error)

	// GetBalance returns the current balance aggregate.
	GetBalance(ctx context.Context, accountID int64) (*entities.Balance, error)
}

// GameService enforces the daily play quota and credits game coins.
type GameService interface {
	// PlaysToday counts recorded plays for the calendar date.
	PlaysToday(ctx context.Context, accountID int64, today time.Time) (int, error)

	// RecordPlay atomically checks the quota, records the play with the next
	// ordinal, and credits the earned coins. Fails with ErrQuotaExceeded on
	// the sixth and later attempts of a date.
	RecordPlay(ctx context.Context, accountID int64, now time.Time, score int, coinsEarned int64) (*PlayResult, error)
}

// ReferralService maintains the referral graph and pays deferred bonuses.
type ReferralService interface {
	// ApplyCode links the applicant to the code owner's chain, creating up
	// to three edges. Returns the direct referrer's display name.
	ApplyCode(ctx context.Context, accountID int64, code string) (string, error)

	// SettlePendingBonuses pays every unpaid edge pointing at the account.
	// Idempotent: an edge pays at most once.
	SettlePendingBonuses(ctx context.Context, accountID int64, now time.Time) ([]*entities.Referral, error)

	// GetReferralInfo aggregates an account's referral activity.
	GetReferralInfo(ctx context.Context, accountID int64) (*entities.ReferralInfo, error)
}

// RedemptionService converts savings into vouchers.
type RedemptionService interface {
	// Eligibility reports the redeemable value for the account's savings.
	Eligibility(ctx context.Context, accountID int64) (*VoucherEligibility, error)

	// Redeem issues a voucher, appends the redeem ledger entry, and resets
	// the savings-derived state.
	Redeem(ctx context.Context, accountID int64, partnerID string, now time.Time) (*entities.Redemption, error)

	// ExpireDueVouchers transitions issued vouchers past expiry to expired.
	ExpireDueVouchers(ctx context.Context, now time.Time) (int64, error)
}

// JarShakeService runs the coin-funded mini-lottery.
type JarShakeService interface {
	// Eligibility reports whether the account can enter and what it lacks.
	Eligibility(ctx context.Context, accountID int64) (*entities.JarShakeEligibility, error)

	// Enter debits the entry cost, draws a reward tier, and records the entry.
	Enter(ctx context.Context, eventID uuid.UUID, accountID int64) (*entities.JarShakeEntry, error)
}

// LeaderboardService serves derived, read-only rankings.
type LeaderboardService interface {
	// GetLeaderboard returns the top accounts by lifetime Sika.
	GetLeaderboard(ctx context.Context, limit int) ([]*entities.LeaderboardEntry, error)

	// GetRank returns an account's 1-based rank by lifetime Sika.
	GetRank(ctx context.Context, accountID int64) (int64, error)
}
