package repository

import (
	"context"
	"fmt"

	"tapsika/database"
	"tapsika/domain/events"
	"tapsika/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	accountRepo      interfaces.AccountRepository
	balanceRepo      interfaces.BalanceRepository
	streakRepo       interfaces.StreakRepository
	transactionRepo  interfaces.TransactionRepository
	gamePlayRepo     interfaces.GamePlayRepository
	referralRepo     interfaces.ReferralRepository
	redemptionRepo   interfaces.RedemptionRepository
	jarShakeRepo     interfaces.JarShakeRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) interfaces.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() interfaces.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories with the transaction
	u.accountRepo = newAccountRepository(tx)
	u.balanceRepo = newBalanceRepository(tx)
	u.streakRepo = newStreakRepository(tx)
	u.transactionRepo = newTransactionRepository(tx)
	u.gamePlayRepo = newGamePlayRepository(tx)
	u.referralRepo = newReferralRepository(tx)
	u.redemptionRepo = newRedemptionRepository(tx)
	u.jarShakeRepo = newJarShakeRepository(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending events after successful commit
	if u.transactionalBus != nil {
		u.transactionalBus.Flush()
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending events on rollback
	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

// AccountRepository returns the account repository for this unit of work
func (u *unitOfWork) AccountRepository() interfaces.AccountRepository {
	if u.accountRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.accountRepo
}

// BalanceRepository returns the balance repository for this unit of work
func (u *unitOfWork) BalanceRepository() interfaces.BalanceRepository {
	if u.balanceRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.balanceRepo
}

// StreakRepository returns the streak repository for this unit of work
func (u *unitOfWork) StreakRepository() interfaces.StreakRepository {
	if u.streakRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.streakRepo
}

// TransactionRepository returns the ledger repository for this unit of work
func (u *unitOfWork) TransactionRepository() interfaces.TransactionRepository {
	if u.transactionRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionRepo
}

// GamePlayRepository returns the game play repository for this unit of work
func (u *unitOfWork) GamePlayRepository() interfaces.GamePlayRepository {
	if u.gamePlayRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.gamePlayRepo
}

// ReferralRepository returns the referral repository for this unit of work
func (u *unitOfWork) ReferralRepository() interfaces.ReferralRepository {
	if u.referralRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.referralRepo
}

// RedemptionRepository returns the redemption repository for this unit of work
func (u *unitOfWork) RedemptionRepository() interfaces.RedemptionRepository {
	if u.redemptionRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.redemptionRepo
}

// JarShakeRepository returns the jar shake repository for this unit of work
func (u *unitOfWork) JarShakeRepository() interfaces.JarShakeRepository {
	if u.jarShakeRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.jarShakeRepo
}

// EventPublisher returns the transactional event publisher for this unit of work
func (u *unitOfWork) EventPublisher() interfaces.TransactionalEventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}
