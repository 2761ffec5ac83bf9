package interfaces

import (
	"context"
	"time"

	"tapsika/domain/entities"
	"tapsika/domain/events"

	"github.com/google/uuid"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// GetByID retrieves an account by its internal ID
	GetByID(ctx context.Context, id int64) (*entities.Account, error)

	// GetByExternalID retrieves an account by its external identity reference
	GetByExternalID(ctx context.Context, externalID string) (*entities.Account, error)

	// GetByReferralCode retrieves an account owning the given referral code
	GetByReferralCode(ctx context.Context, code string) (*entities.Account, error)

	// Create inserts a new account and fills its ID and timestamps
	Create(ctx context.Context, account *entities.Account) error

	// SetReferredBy records the direct referrer of an account
	SetReferredBy(ctx context.Context, accountID, referrerID int64) error
}

// BalanceRepository defines the interface for balance data access
type BalanceRepository interface {
	// GetByAccount retrieves the balance row for an account
	GetByAccount(ctx context.Context, accountID int64) (*entities.Balance, error)

	// GetByAccountForUpdate retrieves the balance row with a row-level lock,
	// serializing all mutations for the account within the transaction
	GetByAccountForUpdate(ctx context.Context, accountID int64) (*entities.Balance, error)

	// Create inserts a zeroed balance row for a new account
	Create(ctx context.Context, accountID int64) (*entities.Balance, error)

	// Update persists a modified balance row
	Update(ctx context.Context, balance *entities.Balance) error

	// GetTopByLifetimeSika returns the highest lifetime-Sika balances with
	// their owners' display names, ordered descending
	GetTopByLifetimeSika(ctx context.Context, limit int) ([]*entities.LeaderboardEntry, error)

	// CountLifetimeSikaGreaterThan counts accounts with strictly greater lifetime Sika
	CountLifetimeSikaGreaterThan(ctx context.Context, lifetimeSika int64) (int64, error)
}

// StreakRepository defines the interface for streak data access
type StreakRepository interface {
	// GetByAccount retrieves the streak row for an account
	GetByAccount(ctx context.Context, accountID int64) (*entities.Streak, error)

	// Create inserts a zeroed streak row for a new account
	Create(ctx context.Context, accountID int64, monthKey string) (*entities.Streak, error)

	// Update persists a modified streak row
	Update(ctx context.Context, streak *entities.Streak) error
}

// TransactionRepository defines the interface for the append-only ledger
type TransactionRepository interface {
	// Record appends a new ledger entry
	Record(ctx context.Context, tx *entities.Transaction) error

	// GetByAccount returns recent ledger entries for an account, newest first
	GetByAccount(ctx context.Context, accountID int64, limit int) ([]*entities.Transaction, error)
}

// GamePlayRepository defines the interface for game play data access
type GamePlayRepository interface {
	// CountForDate counts recorded plays for an account on a calendar date
	CountForDate(ctx context.Context, accountID int64, date time.Time) (int, error)

	// Create inserts a new play record and fills its ID
	Create(ctx context.Context, play *entities.GamePlay) error

	// GetForDate returns an account's plays on a calendar date, in play order
	GetForDate(ctx context.Context, accountID int64, date time.Time) ([]*entities.GamePlay, error)
}

// ReferralRepository defines the interface for referral graph access
type ReferralRepository interface {
	// Create inserts a new referral edge
	Create(ctx context.Context, referral *entities.Referral) error

	// GetByReferred returns all edges pointing at a referred account
	GetByReferred(ctx context.Context, referredID int64) ([]*entities.Referral, error)

	// GetUnpaidByReferred returns unpaid edges pointing at a referred account
	GetUnpaidByReferred(ctx context.Context, referredID int64) ([]*entities.Referral, error)

	// GetByReferrer returns all edges originating from a referrer
	GetByReferrer(ctx context.Context, referrerID int64) ([]*entities.Referral, error)

	// MarkPaid sets the bonus on an edge if it is still unpaid.
	// Returns false when the edge was already paid.
	MarkPaid(ctx context.Context, referralID int64, bonus int64, paidAt time.Time) (bool, error)
}

// RedemptionRepository defines the interface for voucher data access
type RedemptionRepository interface {
	// Create inserts a new redemption and fills its ID
	Create(ctx context.Context, redemption *entities.Redemption) error

	// GetByCode retrieves a redemption by voucher code
	GetByCode(ctx context.Context, voucherCode string) (*entities.Redemption, error)

	// GetByAccount returns an account's redemptions, newest first
	GetByAccount(ctx context.Context, accountID int64) ([]*entities.Redemption, error)

	// ExpireDue marks issued vouchers past their expiry as expired and
	// returns how many were transitioned
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
}

// JarShakeRepository defines the interface for jar shake entry access
type JarShakeRepository interface {
	// GetByEventAndAccount retrieves an account's entry for an event
	GetByEventAndAccount(ctx context.Context, eventID uuid.UUID, accountID int64) (*entities.JarShakeEntry, error)

	// Create inserts a new entry and fills its ID
	Create(ctx context.Context, entry *entities.JarShakeEntry) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher buffers events until the surrounding unit of
// work commits. Flush delivers the buffer; Discard drops it.
type TransactionalEventPublisher interface {
	EventPublisher
	Flush()
	Discard()
}
