package application

import (
	"context"
	"fmt"
	"time"

	"tapsika/domain/entities"
	"tapsika/domain/interfaces"
	"tapsika/domain/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Profile is an account with its balance and streak in one read.
type Profile struct {
	Account *entities.Account
	Balance *entities.Balance
	Streak  *entities.Streak
}

// Engine is the application facade. Every method runs as exactly one
// database transaction: a unit of work is created, the domain services are
// bound to its repositories, and events publish only after commit.
type Engine struct {
	uowFactory interfaces.UnitOfWorkFactory
}

// NewEngine creates a new engine.
func NewEngine(uowFactory interfaces.UnitOfWorkFactory) *Engine {
	return &Engine{uowFactory: uowFactory}
}

// txServices holds the domain services bound to one unit of work.
type txServices struct {
	uow         interfaces.UnitOfWork
	accounts    interfaces.AccountService
	balances    interfaces.BalanceService
	games       interfaces.GameService
	referrals   interfaces.ReferralService
	redemptions interfaces.RedemptionService
	jarShake    interfaces.JarShakeService
	leaderboard interfaces.LeaderboardService
}

func newTxServices(uow interfaces.UnitOfWork) *txServices {
	publisher := uow.EventPublisher()

	referrals := services.NewReferralService(
		uow.AccountRepository(),
		uow.BalanceRepository(),
		uow.ReferralRepository(),
		uow.TransactionRepository(),
		publisher,
	)
	balances := services.NewBalanceService(
		uow.BalanceRepository(),
		uow.StreakRepository(),
		uow.TransactionRepository(),
		referrals,
		publisher,
	)

	return &txServices{
		uow:       uow,
		accounts:  services.NewAccountService(uow.AccountRepository(), uow.BalanceRepository(), uow.StreakRepository(), publisher),
		balances:  balances,
		games:     services.NewGameService(uow.GamePlayRepository(), uow.BalanceRepository(), balances),
		referrals: referrals,
		redemptions: services.NewRedemptionService(
			uow.BalanceRepository(),
			uow.RedemptionRepository(),
			uow.TransactionRepository(),
			publisher,
		),
		jarShake:    services.NewJarShakeService(uow.BalanceRepository(), uow.StreakRepository(), uow.JarShakeRepository(), balances),
		leaderboard: services.NewLeaderboardService(uow.BalanceRepository()),
	}
}

// withTx runs fn inside a unit of work, committing on success and rolling
// back on error.
func (e *Engine) withTx(ctx context.Context, fn func(s *txServices) error) error {
	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin unit of work: %w", err)
	}
	defer func() {
		if err := uow.Rollback(); err != nil {
			log.WithError(err).Error("Failed to rollback unit of work")
		}
	}()

	if err := fn(newTxServices(uow)); err != nil {
		return err
	}

	return uow.Commit()
}

// resolveAccountID looks up an existing account by external identity.
func resolveAccountID(ctx context.Context, s *txServices, externalID string) (*entities.Account, error) {
	account, err := s.uow.AccountRepository().GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("%w: external ID %s", entities.ErrAccountNotFound, externalID)
	}
	return account, nil
}

// ResolveOrCreateAccount returns the account for an external identity,
// creating it on first contact. The second return is true when a new
// account was created.
func (e *Engine) ResolveOrCreateAccount(ctx context.Context, externalID, displayName string) (*entities.Account, bool, error) {
	var account *entities.Account
	var created bool
	err := e.withTx(ctx, func(s *txServices) error {
		var err error
		account, created, err = s.accounts.ResolveOrCreate(ctx, externalID, displayName)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return account, created, nil
}

// RecordSave applies a savings event for an external identity, creating the
// account on first contact.
func (e *Engine) RecordSave(ctx context.Context, externalID, displayName string, amount decimal.Decimal, now time.Time) (*interfaces.SaveResult, error) {
	var result *interfaces.SaveResult
	err := e.withTx(ctx, func(s *txServices) error {
		account, _, err := s.accounts.ResolveOrCreate(ctx, externalID, displayName)
		if err != nil {
			return err
		}
		result, err = s.balances.RecordSave(ctx, account.ID, amount, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecordGamePlay records a game result against the daily quota, creating
// the account on first contact.
func (e *Engine) RecordGamePlay(ctx context.Context, externalID, displayName string, now time.Time, score int, coinsEarned int64) (*interfaces.PlayResult, error) {
	var result *interfaces.PlayResult
	err := e.withTx(ctx, func(s *txServices) error {
		account, _, err := s.accounts.ResolveOrCreate(ctx, externalID, displayName)
		if err != nil {
			return err
		}
		result, err = s.games.RecordPlay(ctx, account.ID, now, score, coinsEarned)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// PlaysToday counts the account's recorded plays for the calendar date.
func (e *Engine) PlaysToday(ctx context.Context, externalID string, today time.Time) (int, error) {
	var count int
	err := e.withTx(ctx, func(s *txServices) error {
		account, err := resolveAccountID(ctx, s, externalID)
		if err != nil {
			return err
		}
		count, err = s.games.PlaysToday(ctx, account.ID, today)
		return err
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ApplyReferralCode links the account to the code owner's referral chain
// and returns the direct referrer's display name.
func (e *Engine) ApplyReferralCode(ctx context.Context, externalID, displayName, code string) (string, error) {
	var referrerName string
	err := e.withTx(ctx, func(s *txServices) error {
		account, _, err := s.accounts.ResolveOrCreate(ctx, externalID, displayName)
		if err != nil {
			return err
		}
		referrerName, err = s.referrals.ApplyCode(ctx, account.ID, code)
		return err
	})
	if err != nil {
		return "", err
	}
	return referrerName, nil
}

// GetBalance returns the account's balance aggregate.
func (e *Engine) GetBalance(ctx context.Context, externalID string) (*entities.Balance, error) {
	var balance *entities.Balance
	err := e.withTx(ctx, func(s *txServices) error {
		account, err := resolveAccountID(ctx, s, externalID)
		if err != nil {
			return err
		}
		balance, err = s.balances.GetBalance(ctx, account.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return balance, nil
}

// GetProfile returns the account with its balance and streak.
func (e *Engine) GetProfile(ctx context.Context, externalID string) (*Profile, error) {
	var profile Profile
	err := e.withTx(ctx, func(s *txServices) error {
		account, err := resolveAccountID(ctx, s, externalID)
		if err != nil {
			return err
		}
		profile.Account, profile.Balance, profile.Streak, err = s.accounts.GetProfile(ctx, account.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetReferralInfo aggregates the account's referral activity.
func (e *Engine) GetReferralInfo(ctx context.Context, externalID string) (*entities.ReferralInfo, error) {
	var info *entities.ReferralInfo
	err := e.withTx(ctx, func(s *txServices) error {
		account, err := resolveAccountID(ctx, s, externalID)
		if err != nil {
			return err
		}
		info, err = s.referrals.GetReferralInfo(ctx, account.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return info, nil
}

// GetTransactions returns the account's recent ledger entries, newest first.
func (e *Engine) GetTransactions(ctx context.Context, externalID string, limit int) ([]*entities.Transaction, error) {
	if limit <= 0 {
		limit = 20
	}
	var transactions []*entities.Transaction
	err := e.withTx(ctx, func(s *txServices) error {
		account, err := resolveAccountID(ctx, s, externalID)
		if err != nil {
			return err
		}
		transactions, err = s.uow.TransactionRepository().GetByAccount(ctx, account.ID, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return transactions, nil
}

// RedemptionEligibility reports the redeemable voucher value for the account.
func (e *Engine) RedemptionEligibility(ctx context.Context, externalID string) (*interfaces.VoucherEligibility, error) {
	var eligibility *interfaces.VoucherEligibility
	err := e.withTx(ctx, func(s *txServices) error {
		account, err := resolveAccountID(ctx, s, externalID)
		if err != nil {
			return err
		}
		eligibility, err = s.redemptions.Eligibility(ctx, account.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return eligibility, nil
}

// Redeem converts the account's savings into a voucher.
func (e *Engine) Redeem(ctx context.Context, externalID, partnerID string, now time.Time) (*entities.Redemption, error) {
	var redemption *entities.Redemption
	err := e.withTx(ctx, func(s *txServices) error {
		account, err := resolveAccountID(ctx, s, externalID)
		if err != nil {
			return err
		}
		redemption, err = s.redemptions.Redeem(ctx, account.ID, partnerID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return redemption, nil
}

// GetVoucher looks up a voucher by its code, for partner-side validation.
func (e *Engine) GetVoucher(ctx context.Context, voucherCode string) (*entities.Redemption, error) {
	var redemption *entities.Redemption
	err := e.withTx(ctx, func(s *txServices) error {
		var err error
		redemption, err = s.uow.RedemptionRepository().GetByCode(ctx, voucherCode)
		if err != nil {
			return err
		}
		if redemption == nil {
			return fmt.Errorf("%w: code %s", entities.ErrVoucherNotFound, voucherCode)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return redemption, nil
}

// GetRedemptions returns the account's voucher history, newest first.
func (e *Engine) GetRedemptions(ctx context.Context, externalID string) ([]*entities.Redemption, error) {
	var redemptions []*entities.Redemption
	err := e.withTx(ctx, func(s *txServices) error {
		account, err := resolveAccountID(ctx, s, externalID)
		if err != nil {
			return err
		}
		redemptions, err = s.uow.RedemptionRepository().GetByAccount(ctx, account.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return redemptions, nil
}

// JarShakeEligibility reports whether the account can enter the jar shake.
func (e *Engine) JarShakeEligibility(ctx context.Context, externalID string) (*entities.JarShakeEligibility, error) {
	var eligibility *entities.JarShakeEligibility
	err := e.withTx(ctx, func(s *txServices) error {
		account, err := resolveAccountID(ctx, s, externalID)
		if err != nil {
			return err
		}
		eligibility, err = s.jarShake.Eligibility(ctx, account.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return eligibility, nil
}

// EnterJarShake enters the account into a jar shake event, debiting the
// entry cost and drawing a reward.
func (e *Engine) EnterJarShake(ctx context.Context, eventID uuid.UUID, externalID string) (*entities.JarShakeEntry, error) {
	var entry *entities.JarShakeEntry
	err := e.withTx(ctx, func(s *txServices) error {
		account, err := resolveAccountID(ctx, s, externalID)
		if err != nil {
			return err
		}
		entry, err = s.jarShake.Enter(ctx, eventID, account.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// GetLeaderboard returns the top accounts by lifetime Sika.
func (e *Engine) GetLeaderboard(ctx context.Context, limit int) ([]*entities.LeaderboardEntry, error) {
	var entries []*entities.LeaderboardEntry
	err := e.withTx(ctx, func(s *txServices) error {
		var err error
		entries, err = s.leaderboard.GetLeaderboard(ctx, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// GetRank returns the account's 1-based rank by lifetime Sika.
func (e *Engine) GetRank(ctx context.Context, externalID string) (int64, error) {
	var rank int64
	err := e.withTx(ctx, func(s *txServices) error {
		account, err := resolveAccountID(ctx, s, externalID)
		if err != nil {
			return err
		}
		rank, err = s.leaderboard.GetRank(ctx, account.ID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return rank, nil
}

// ExpireVouchers transitions issued vouchers past their expiry to expired
// and returns how many were transitioned.
func (e *Engine) ExpireVouchers(ctx context.Context, now time.Time) (int64, error) {
	var expired int64
	err := e.withTx(ctx, func(s *txServices) error {
		var err error
		expired, err = s.redemptions.ExpireDueVouchers(ctx, now)
		return err
	})
	if err != nil {
		return 0, err
	}
	return expired, nil
}
