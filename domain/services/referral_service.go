package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tapsika/domain/entities"
	"tapsika/domain/interfaces"
	"tapsika/domain/utils"

	log "github.com/sirupsen/logrus"
)

// referralService maintains the referral graph and pays deferred bonuses.
type referralService struct {
	accountRepo     interfaces.AccountRepository
	balanceRepo     interfaces.BalanceRepository
	referralRepo    interfaces.ReferralRepository
	transactionRepo interfaces.TransactionRepository
	eventPublisher  interfaces.EventPublisher
}

// NewReferralService creates a new referral service.
func NewReferralService(
	accountRepo interfaces.AccountRepository,
	balanceRepo interfaces.BalanceRepository,
	referralRepo interfaces.ReferralRepository,
	transactionRepo interfaces.TransactionRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.ReferralService {
	return &referralService{
		accountRepo:     accountRepo,
		balanceRepo:     balanceRepo,
		referralRepo:    referralRepo,
		transactionRepo: transactionRepo,
		eventPublisher:  eventPublisher,
	}
}

// ApplyCode links the applicant into the code owner's referral chain,
// creating one edge per ancestor up to three levels. All validation happens
// before any write.
func (s *referralService) ApplyCode(ctx context.Context, accountID int64, code string) (string, error) {
	referrer, err := s.accountRepo.GetByReferralCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return "", fmt.Errorf("failed to look up referral code: %w", err)
	}
	if referrer == nil {
		return "", entities.ErrInvalidReferralCode
	}
	if referrer.ID == accountID {
		return "", entities.ErrSelfReferral
	}

	applicant, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return "", fmt.Errorf("failed to get applicant: %w", err)
	}
	if applicant == nil {
		return "", fmt.Errorf("%w: account %d", entities.ErrAccountNotFound, accountID)
	}
	if applicant.HasReferrer() {
		return "", entities.ErrAlreadyReferred
	}

	if err := s.accountRepo.SetReferredBy(ctx, accountID, referrer.ID); err != nil {
		return "", fmt.Errorf("failed to set referrer: %w", err)
	}

	// Walk the ancestor chain, one edge per level. Bonuses stay unpaid until
	// the applicant's first qualifying save.
	ancestor := referrer
	for level := 1; level <= entities.MaxReferralDepth && ancestor != nil; level++ {
		edge := &entities.Referral{
			ReferrerID: ancestor.ID,
			ReferredID: accountID,
			Level:      level,
		}
		if err := s.referralRepo.Create(ctx, edge); err != nil {
			return "", fmt.Errorf("failed to create level %d referral: %w", level, err)
		}

		if ancestor.ReferredBy == nil {
			break
		}
		ancestor, err = s.accountRepo.GetByID(ctx, *ancestor.ReferredBy)
		if err != nil {
			return "", fmt.Errorf("failed to get level %d ancestor: %w", level+1, err)
		}
	}

	return referrer.DisplayName, nil
}

// SettlePendingBonuses pays every unpaid edge pointing at the account. The
// MarkPaid guard makes a second settlement of the same edge a no-op, so the
// call is safe on every save.
func (s *referralService) SettlePendingBonuses(ctx context.Context, accountID int64, now time.Time) ([]*entities.Referral, error) {
	unpaid, err := s.referralRepo.GetUnpaidByReferred(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get unpaid referrals: %w", err)
	}

	var paid []*entities.Referral
	for _, ref := range unpaid {
		bonus := entities.ReferralBonusForLevel(ref.Level)
		if bonus == 0 {
			continue
		}

		marked, err := s.referralRepo.MarkPaid(ctx, ref.ID, bonus, now)
		if err != nil {
			return nil, fmt.Errorf("failed to mark referral %d paid: %w", ref.ID, err)
		}
		if !marked {
			// Raced with a concurrent settlement; that one paid.
			continue
		}

		if err := s.creditReferrer(ctx, ref.ReferrerID, bonus, ref.Level); err != nil {
			return nil, err
		}

		ref.SikaBonus = bonus
		ref.BonusPaid = true
		ref.BonusPaidAt = &now
		paid = append(paid, ref)

		log.WithFields(log.Fields{
			"referrerID": ref.ReferrerID,
			"referredID": ref.ReferredID,
			"level":      ref.Level,
			"bonus":      bonus,
		}).Info("Paid referral bonus")
	}

	return paid, nil
}

func (s *referralService) GetReferralInfo(ctx context.Context, accountID int64) (*entities.ReferralInfo, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: account %d", entities.ErrAccountNotFound, accountID)
	}

	referrals, err := s.referralRepo.GetByReferrer(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get referrals: %w", err)
	}

	info := &entities.ReferralInfo{
		ReferralCode:   account.ReferralCode,
		TotalReferrals: len(referrals),
		ByLevel:        map[int]int{1: 0, 2: 0, 3: 0},
	}
	for _, ref := range referrals {
		info.ByLevel[ref.Level]++
		info.TotalBonus += ref.SikaBonus
	}

	return info, nil
}

func (s *referralService) creditReferrer(ctx context.Context, referrerID int64, bonus int64, level int) error {
	balance, err := s.balanceRepo.GetByAccountForUpdate(ctx, referrerID)
	if err != nil {
		return fmt.Errorf("failed to lock referrer balance: %w", err)
	}
	if balance == nil {
		return fmt.Errorf("%w: referrer %d", entities.ErrAccountNotFound, referrerID)
	}

	balance.ApplyCredit(entities.CurrencySika, bonus)
	if err := s.balanceRepo.Update(ctx, balance); err != nil {
		return fmt.Errorf("failed to credit referrer balance: %w", err)
	}

	tx := &entities.Transaction{
		AccountID:   referrerID,
		Type:        entities.TransactionTypeReferralBonus,
		SikaAmount:  bonus,
		Description: fmt.Sprintf("Level %d referral bonus", level),
	}
	return utils.RecordLedgerEntry(ctx, s.transactionRepo, s.eventPublisher, tx, balance)
}
