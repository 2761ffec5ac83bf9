package services

import (
	"context"
	"fmt"
	"time"

	"tapsika/domain/entities"
	"tapsika/domain/events"
	"tapsika/domain/interfaces"
	"tapsika/domain/utils"

	log "github.com/sirupsen/logrus"
)

// redemptionService converts accumulated savings into vouchers.
type redemptionService struct {
	balanceRepo     interfaces.BalanceRepository
	redemptionRepo  interfaces.RedemptionRepository
	transactionRepo interfaces.TransactionRepository
	eventPublisher  interfaces.EventPublisher
}

// NewRedemptionService creates a new redemption service.
func NewRedemptionService(
	balanceRepo interfaces.BalanceRepository,
	redemptionRepo interfaces.RedemptionRepository,
	transactionRepo interfaces.TransactionRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.RedemptionService {
	return &redemptionService{
		balanceRepo:     balanceRepo,
		redemptionRepo:  redemptionRepo,
		transactionRepo: transactionRepo,
		eventPublisher:  eventPublisher,
	}
}

func (s *redemptionService) Eligibility(ctx context.Context, accountID int64) (*interfaces.VoucherEligibility, error) {
	balance, err := s.balanceRepo.GetByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	if balance == nil {
		return nil, fmt.Errorf("%w: account %d", entities.ErrAccountNotFound, accountID)
	}

	return &interfaces.VoucherEligibility{
		SavingsTotal: balance.SavingsTotal,
		VoucherValue: entities.VoucherValueFor(balance.SavingsTotal),
		CanRedeem:    balance.SavingsTotal.GreaterThanOrEqual(entities.MinRedeemableSavings),
	}, nil
}

// Redeem issues a voucher and resets the savings-derived state. The negative
// ledger deltas equal the pre-redemption totals, so the ledger reconciles to
// zero savings after the reset. A second call without an intervening save
// fails the minimum check because the first call zeroed the savings.
func (s *redemptionService) Redeem(ctx context.Context, accountID int64, partnerID string, now time.Time) (*entities.Redemption, error) {
	balance, err := s.balanceRepo.GetByAccountForUpdate(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock balance: %w", err)
	}
	if balance == nil {
		return nil, fmt.Errorf("%w: account %d", entities.ErrAccountNotFound, accountID)
	}

	if balance.SavingsTotal.LessThan(entities.MinRedeemableSavings) {
		return nil, fmt.Errorf("%w: have P%s, need P%s", entities.ErrBelowMinimumRedeem,
			balance.SavingsTotal.StringFixed(2), entities.MinRedeemableSavings.StringFixed(2))
	}

	savingsSpent := balance.SavingsTotal
	sikaSpent := balance.Sika
	voucherValue := entities.VoucherValueFor(savingsSpent)

	voucherCode, err := entities.GenerateVoucherCode(now)
	if err != nil {
		return nil, fmt.Errorf("failed to generate voucher code: %w", err)
	}

	redemption := &entities.Redemption{
		AccountID:    accountID,
		PartnerID:    partnerID,
		VoucherCode:  voucherCode,
		VoucherValue: voucherValue,
		SikaSpent:    sikaSpent,
		Status:       entities.RedemptionStatusIssued,
		ExpiresAt:    now.Add(entities.VoucherValidity),
	}
	if err := s.redemptionRepo.Create(ctx, redemption); err != nil {
		return nil, fmt.Errorf("failed to create redemption: %w", err)
	}

	balance.ApplyRedemptionReset()
	if err := s.balanceRepo.Update(ctx, balance); err != nil {
		return nil, fmt.Errorf("failed to reset balance: %w", err)
	}

	tx := &entities.Transaction{
		AccountID:     accountID,
		Type:          entities.TransactionTypeRedeem,
		SavingsAmount: savingsSpent.Neg(),
		SikaAmount:    -sikaSpent,
		Description:   fmt.Sprintf("Redeemed P%s voucher", voucherValue.StringFixed(2)),
	}
	if err := utils.RecordLedgerEntry(ctx, s.transactionRepo, s.eventPublisher, tx, balance); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		event := events.VoucherIssuedEvent{
			AccountID:    accountID,
			VoucherCode:  voucherCode,
			VoucherValue: voucherValue,
		}
		if err := s.eventPublisher.Publish(event); err != nil {
			log.WithError(err).Error("Failed to publish voucher issued event")
		}
	}

	return redemption, nil
}

func (s *redemptionService) ExpireDueVouchers(ctx context.Context, now time.Time) (int64, error) {
	expired, err := s.redemptionRepo.ExpireDue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to expire vouchers: %w", err)
	}
	if expired > 0 {
		log.WithField("count", expired).Info("Expired due vouchers")
	}
	return expired, nil
}
