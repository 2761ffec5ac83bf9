package interfaces

import "context"

// UnitOfWork scopes a set of repository operations to a single database
// transaction. Events published through EventPublisher are buffered and
// delivered only after Commit.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	AccountRepository() AccountRepository
	BalanceRepository() BalanceRepository
	StreakRepository() StreakRepository
	TransactionRepository() TransactionRepository
	GamePlayRepository() GamePlayRepository
	ReferralRepository() ReferralRepository
	RedemptionRepository() RedemptionRepository
	JarShakeRepository() JarShakeRepository
	EventPublisher() TransactionalEventPublisher
}

// UnitOfWorkFactory creates fresh units of work
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
